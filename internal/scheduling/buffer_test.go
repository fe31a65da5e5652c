package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferMinutes(t *testing.T) {
	for _, loc := range []string{LocationVancouver, LocationNorthVancouver, LocationBurnaby, LocationSurrey, "Richmond"} {
		assert.Equal(t, 15, BufferMinutes(loc, loc), "same location %s", loc)
	}

	assert.Equal(t, 30, BufferMinutes(LocationVancouver, LocationSurrey))
	assert.Equal(t, 30, BufferMinutes(LocationSurrey, LocationVancouver))

	assert.Equal(t, 45, BufferMinutes(LocationNorthVancouver, LocationBurnaby))
	assert.Equal(t, 45, BufferMinutes(LocationBurnaby, LocationNorthVancouver))
	assert.Equal(t, 45, BufferMinutes(LocationNorthVancouver, LocationSurrey))
	assert.Equal(t, 45, BufferMinutes(LocationSurrey, LocationNorthVancouver))

	// Unlisted pairs fall back to the default.
	assert.Equal(t, 30, BufferMinutes(LocationVancouver, LocationBurnaby))
	assert.Equal(t, 30, BufferMinutes("Richmond", LocationSurrey))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30", 0, true},
		{"banana", 0, true},
		{"", 0, true},
		{"12:3a", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
		} else {
			require.NoError(t, err, "input %q", tt.in)
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		want    string
	}{
		{"10:00", 60, "11:00"},
		{"23:50", 20, "00:10"},
		{"00:10", -20, "23:50"},
		{"12:00", 24 * 60, "12:00"},
	}

	for _, tt := range tests {
		got, err := AddMinutes(tt.in, tt.minutes)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s + %d", tt.in, tt.minutes)
	}

	_, err := AddMinutes("25:00", 10)
	assert.Error(t, err)
}

func TestHasConflict_SameLocationGaps(t *testing.T) {
	existing := []BookingSlot{{Start: 10 * 60, End: 11 * 60, Location: LocationVancouver}}

	// 10-minute gap is under the 15-minute same-location buffer.
	assert.True(t, HasConflict(11*60+10, 12*60+10, LocationVancouver, existing))
	// 20-minute gap clears it.
	assert.False(t, HasConflict(11*60+20, 12*60+20, LocationVancouver, existing))
	// Same gaps before the existing lesson.
	assert.True(t, HasConflict(8*60+50, 9*60+50, LocationVancouver, existing))
	assert.False(t, HasConflict(8*60+40, 9*60+40, LocationVancouver, existing))
}

func TestHasConflict_Containment(t *testing.T) {
	existing := []BookingSlot{{Start: 10 * 60, End: 10*60 + 30, Location: LocationBurnaby}}

	// A new lesson fully containing the existing one always conflicts.
	assert.True(t, HasConflict(9*60, 12*60, LocationBurnaby, existing))
	// And one fully inside it.
	assert.True(t, HasConflict(10*60+5, 10*60+20, LocationBurnaby, existing))
}

func TestHasConflict_TravelBuffer(t *testing.T) {
	// Instructor teaches in Vancouver 10:00-11:00.
	existing := []BookingSlot{{Start: 10 * 60, End: 11 * 60, Location: LocationVancouver}}

	// Surrey needs a 30-minute buffer: 11:15 start is rejected.
	assert.True(t, HasConflict(11*60+15, 12*60, LocationSurrey, existing))
	// 11:30 start leaves exactly the required buffer and is accepted.
	assert.False(t, HasConflict(11*60+30, 12*60+15, LocationSurrey, existing))
}

func TestHasConflict_NoExisting(t *testing.T) {
	assert.False(t, HasConflict(10*60, 11*60, LocationVancouver, nil))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:10", FormatClock(10))
	assert.Equal(t, "23:50", FormatClock(-10))
	assert.Equal(t, "01:00", FormatClock(25*60))
}
