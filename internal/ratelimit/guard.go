// Package ratelimit throttles authentication attempts per
// (email, client IP) pair over the current calendar day.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// MaxAttempts is the number of failed logins allowed per (email, IP)
// between two local midnights.
const MaxAttempts = 5

// ErrLimitExceededPrefix tags the error surfaced to the client when the
// limit is hit; the UI parses the date after the colon to show when
// attempts reset.
const ErrLimitExceededPrefix = "LIMIT_EXCEEDED:"

// Info describes the state of the limit for one (email, IP) pair.
type Info struct {
	Remaining int       `json:"remaining"`
	NextReset time.Time `json:"next_reset"`
}

// Guard counts failed attempts against MaxAttempts. The window is
// aligned to local-midnight calendar days rather than rolling 24 hours:
// simpler for users to reason about, at the cost of attempts resetting
// early or late near midnight.
type Guard struct {
	store AttemptStore
	now   func() time.Time
}

// NewGuard constructs a Guard over the given attempt store.
func NewGuard(store AttemptStore) *Guard {
	return &Guard{store: store, now: time.Now}
}

// RecordAttempt appends one attempt, timestamped now.
func (g *Guard) RecordAttempt(ctx context.Context, email, ip string, successful bool) error {
	return g.store.Record(ctx, Attempt{
		Email:       email,
		IPAddress:   ip,
		Successful:  successful,
		AttemptedAt: g.now(),
	})
}

// HasExceededMax reports whether the pair has used up today's failed
// attempts. Successful attempts never count toward the total.
func (g *Guard) HasExceededMax(ctx context.Context, email, ip string) (bool, error) {
	count, err := g.store.CountFailedSince(ctx, email, ip, g.windowStart())
	if err != nil {
		return false, err
	}
	return count >= MaxAttempts, nil
}

// AttemptsInfo returns the remaining attempts and when they reset.
func (g *Guard) AttemptsInfo(ctx context.Context, email, ip string) (Info, error) {
	count, err := g.store.CountFailedSince(ctx, email, ip, g.windowStart())
	if err != nil {
		return Info{}, err
	}

	remaining := MaxAttempts - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Info{
		Remaining: remaining,
		NextReset: g.windowStart().AddDate(0, 0, 1),
	}, nil
}

// LimitExceededError builds the structured error token carrying the
// reset date, e.g. "LIMIT_EXCEEDED:2026-09-01".
func (g *Guard) LimitExceededError(info Info) string {
	return fmt.Sprintf("%s%s", ErrLimitExceededPrefix, info.NextReset.Format("2006-01-02"))
}

// windowStart is local midnight of the current day.
func (g *Guard) windowStart() time.Time {
	now := g.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
