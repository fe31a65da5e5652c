package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(start time.Time) (*MemoryStore, *time.Time) {
	now := start
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestIssueCheckVerifyLifecycle(t *testing.T) {
	s, _ := newTestStore(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	code, err := s.Issue("alice@example.com", PurposeRegistration)
	require.NoError(t, err)
	require.Len(t, code, 6)

	// Non-destructive check succeeds and leaves the record verified.
	assert.True(t, s.Check("alice@example.com", code, PurposeRegistration))
	// Checking again still succeeds; Check never consumes.
	assert.True(t, s.Check("alice@example.com", code, PurposeRegistration))

	// Final verification consumes the record.
	assert.True(t, s.VerifyFinal("alice@example.com", code, PurposeRegistration))
	assert.False(t, s.VerifyFinal("alice@example.com", code, PurposeRegistration))
	assert.False(t, s.Check("alice@example.com", code, PurposeRegistration))
}

func TestVerifyFinalWithoutCheck(t *testing.T) {
	s, _ := newTestStore(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	code, err := s.Issue("bob@example.com", PurposePasswordReset)
	require.NoError(t, err)

	// VerifyFinal accepts a never-checked code.
	assert.True(t, s.VerifyFinal("bob@example.com", code, PurposePasswordReset))
}

func TestWrongCodeAndWrongPurpose(t *testing.T) {
	s, _ := newTestStore(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	code, err := s.Issue("carol@example.com", PurposeRegistration)
	require.NoError(t, err)

	assert.False(t, s.Check("carol@example.com", "000000", PurposeRegistration))
	assert.False(t, s.Check("carol@example.com", code, PurposePasswordReset))
	assert.False(t, s.VerifyFinal("carol@example.com", code, PurposePasswordReset))

	// A failed check does not consume the record.
	assert.True(t, s.Check("carol@example.com", code, PurposeRegistration))
}

func TestMissingRecord(t *testing.T) {
	s, _ := newTestStore(time.Now())

	// No fabricated acceptance: absent key always fails.
	assert.False(t, s.Check("nobody@example.com", "123456", PurposeRegistration))
	assert.False(t, s.VerifyFinal("nobody@example.com", "123456", PurposeRegistration))
}

func TestExpiryDeletesRecord(t *testing.T) {
	s, now := newTestStore(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	code, err := s.Issue("dave@example.com", PurposeRegistration)
	require.NoError(t, err)

	*now = now.Add(16 * time.Minute)
	assert.False(t, s.Check("dave@example.com", code, PurposeRegistration))
	// Expired record was removed, not just rejected.
	s.mu.Lock()
	_, exists := s.records[key("dave@example.com", PurposeRegistration)]
	s.mu.Unlock()
	assert.False(t, exists)
}

func TestCheckExtendsExpiry(t *testing.T) {
	s, now := newTestStore(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	code, err := s.Issue("erin@example.com", PurposePasswordReset)
	require.NoError(t, err)

	// Check at 14 minutes extends expiry to 30 minutes after issuance.
	*now = now.Add(14 * time.Minute)
	require.True(t, s.Check("erin@example.com", code, PurposePasswordReset))

	*now = now.Add(13 * time.Minute)
	assert.True(t, s.VerifyFinal("erin@example.com", code, PurposePasswordReset))
}

func TestReissueOverwrites(t *testing.T) {
	s, _ := newTestStore(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	first, err := s.Issue("frank@example.com", PurposeRegistration)
	require.NoError(t, err)
	second, err := s.Issue("frank@example.com", PurposeRegistration)
	require.NoError(t, err)

	if first != second {
		assert.False(t, s.Check("frank@example.com", first, PurposeRegistration))
	}
	assert.True(t, s.Check("frank@example.com", second, PurposeRegistration))
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	s, now := newTestStore(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))

	_, err := s.Issue("old@example.com", PurposeRegistration)
	require.NoError(t, err)

	*now = now.Add(10 * time.Minute)
	fresh, err := s.Issue("fresh@example.com", PurposeRegistration)
	require.NoError(t, err)

	*now = now.Add(10 * time.Minute)
	s.Sweep()

	s.mu.Lock()
	_, oldExists := s.records[key("old@example.com", PurposeRegistration)]
	s.mu.Unlock()
	assert.False(t, oldExists)
	assert.True(t, s.Check("fresh@example.com", fresh, PurposeRegistration))
}
