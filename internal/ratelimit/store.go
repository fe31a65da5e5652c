package ratelimit

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/example/driveschool/internal/models"
)

// Attempt is one authentication attempt to record.
type Attempt struct {
	Email       string
	IPAddress   string
	Successful  bool
	AttemptedAt time.Time
}

// AttemptStore persists login attempts and answers windowed counts.
type AttemptStore interface {
	Record(ctx context.Context, attempt Attempt) error
	CountFailedSince(ctx context.Context, email, ip string, since time.Time) (int64, error)
}

// GormStore backs AttemptStore with the login_attempts table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Record implements AttemptStore.
func (s *GormStore) Record(ctx context.Context, attempt Attempt) error {
	row := models.LoginAttempt{
		Email:       attempt.Email,
		IPAddress:   attempt.IPAddress,
		Successful:  attempt.Successful,
		AttemptedAt: attempt.AttemptedAt,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// CountFailedSince implements AttemptStore.
func (s *GormStore) CountFailedSince(ctx context.Context, email, ip string, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.LoginAttempt{}).
		Where("email = ? AND ip_address = ? AND successful = ? AND attempted_at >= ?",
			email, ip, false, since).
		Count(&count).Error
	return count, err
}

// MemoryStore is an in-memory AttemptStore used in tests and available
// for single-instance deployments without an attempts table.
type MemoryStore struct {
	mu       sync.Mutex
	attempts []Attempt
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record implements AttemptStore.
func (s *MemoryStore) Record(ctx context.Context, attempt Attempt) error {
	s.mu.Lock()
	s.attempts = append(s.attempts, attempt)
	s.mu.Unlock()
	return nil
}

// CountFailedSince implements AttemptStore.
func (s *MemoryStore) CountFailedSince(ctx context.Context, email, ip string, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, a := range s.attempts {
		if a.Email == email && a.IPAddress == ip && !a.Successful && !a.AttemptedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
