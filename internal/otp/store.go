// Package otp issues and verifies short-lived one-time codes for
// registration and password-reset flows. The store is injected so the
// in-memory backend can be swapped for a shared cache in multi-instance
// deployments; codes kept in memory are lost on restart by design.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// Purposes a code can be issued for.
const (
	PurposeRegistration  = "registration"
	PurposePasswordReset = "password-reset"
)

const codeTTL = 15 * time.Minute

// Store is the OTP lifecycle contract used by the auth handlers.
type Store interface {
	// Issue generates a fresh 6-digit code for (email, purpose),
	// replacing any previous one. The code expires after 15 minutes.
	Issue(email, purpose string) (string, error)
	// Check verifies a code without consuming it. On first success the
	// record moves to the verified state and its expiry is extended by
	// 15 minutes, so a separate confirmation step can re-validate.
	Check(email, code, purpose string) bool
	// VerifyFinal verifies and consumes a code. It accepts a matching
	// code whether or not Check was called first; the record is deleted
	// on success.
	VerifyFinal(email, code, purpose string) bool
	// Sweep removes expired records.
	Sweep()
}

type record struct {
	code      string
	expiresAt time.Time
	verified  bool
}

// MemoryStore is the single-process Store backend: a mutex-guarded map
// keyed by (email, purpose). Concurrent issuance for the same key is
// last-write-wins.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]record
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]record),
		now:     time.Now,
	}
}

func key(email, purpose string) string {
	return email + ":" + purpose
}

// Issue implements Store.
func (s *MemoryStore) Issue(email, purpose string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.records[key(email, purpose)] = record{
		code:      code,
		expiresAt: s.now().Add(codeTTL),
	}
	s.mu.Unlock()

	return code, nil
}

// Check implements Store.
func (s *MemoryStore) Check(email, code, purpose string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(email, purpose)
	rec, ok := s.records[k]
	if !ok {
		return false
	}

	if s.now().After(rec.expiresAt) {
		delete(s.records, k)
		return false
	}

	if rec.code != code {
		return false
	}

	rec.verified = true
	rec.expiresAt = rec.expiresAt.Add(codeTTL)
	s.records[k] = rec
	return true
}

// VerifyFinal implements Store.
func (s *MemoryStore) VerifyFinal(email, code, purpose string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(email, purpose)
	rec, ok := s.records[k]
	if !ok {
		return false
	}

	if s.now().After(rec.expiresAt) {
		delete(s.records, k)
		return false
	}

	if rec.code != code {
		return false
	}

	delete(s.records, k)
	return true
}

// Sweep implements Store. A sweep racing a concurrent Check on the same
// key is harmless either way.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, rec := range s.records {
		if now.After(rec.expiresAt) {
			delete(s.records, k)
		}
	}
}

// StartSweeper runs Sweep at the given interval until stop is closed.
func StartSweeper(store Store, interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				store.Sweep()
			case <-stop:
				return
			}
		}
	}()
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
