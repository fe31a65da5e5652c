package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestResolve_GlobalTemplate(t *testing.T) {
	globals := []GlobalRule{
		{Day: time.Monday, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	}

	// 2026-09-07 is a Monday.
	w := Resolve(date(2026, time.September, 7), nil, globals)
	assert.True(t, w.Open)
	assert.Equal(t, "09:00", w.StartTime)
	assert.Equal(t, "17:00", w.EndTime)

	// Tuesday has no rule: closed, not an error.
	w = Resolve(date(2026, time.September, 8), nil, globals)
	assert.False(t, w.Open)
}

func TestResolve_SpecialOverridesGlobal(t *testing.T) {
	globals := []GlobalRule{
		{Day: time.Monday, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	}
	specials := []SpecialRule{
		{
			Day:         time.Monday,
			StartTime:   "12:00",
			EndTime:     "15:00",
			IsAvailable: true,
			StartDate:   date(2026, time.September, 1),
			EndDate:     date(2026, time.September, 30),
		},
	}

	// Inside the special range the override wins even though the global
	// rule would have allowed the morning.
	w := Resolve(date(2026, time.September, 7), specials, globals)
	assert.True(t, w.Open)
	assert.Equal(t, "12:00", w.StartTime)
	assert.Equal(t, "15:00", w.EndTime)

	// Outside the range the template is back in effect.
	w = Resolve(date(2026, time.October, 5), specials, globals)
	assert.Equal(t, "09:00", w.StartTime)
}

func TestResolve_SpecialClosedDay(t *testing.T) {
	globals := []GlobalRule{
		{Day: time.Friday, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	}
	specials := []SpecialRule{
		{
			Day:         time.Friday,
			IsAvailable: false,
			StartDate:   date(2026, time.December, 25),
			EndDate:     date(2026, time.December, 25),
		},
	}

	w := Resolve(date(2026, time.December, 25), specials, globals)
	assert.False(t, w.Open)
}

func TestResolve_SeasonalGlobalWindows(t *testing.T) {
	globals := []GlobalRule{
		{Day: time.Saturday, StartTime: "10:00", EndTime: "14:00", IsAvailable: true},
		{
			Day:         time.Saturday,
			StartTime:   "08:00",
			EndTime:     "18:00",
			IsAvailable: true,
			StartDate:   datePtr(2026, time.June, 1),
			EndDate:     datePtr(2026, time.August, 31),
		},
	}

	// Summer Saturday picks the bounded entry.
	w := Resolve(date(2026, time.July, 4), nil, globals)
	assert.Equal(t, "08:00", w.StartTime)
	assert.Equal(t, "18:00", w.EndTime)

	// Winter Saturday falls through to the unbounded template.
	w = Resolve(date(2026, time.January, 10), nil, globals)
	assert.Equal(t, "10:00", w.StartTime)
	assert.Equal(t, "14:00", w.EndTime)
}

func TestResolve_OverlappingSpecialsNewestWins(t *testing.T) {
	specials := []SpecialRule{
		{
			Day:         time.Monday,
			StartTime:   "09:00",
			EndTime:     "12:00",
			IsAvailable: true,
			StartDate:   date(2026, time.September, 1),
			EndDate:     date(2026, time.September, 30),
			CreatedAt:   date(2026, time.August, 1),
		},
		{
			Day:         time.Monday,
			StartTime:   "13:00",
			EndTime:     "16:00",
			IsAvailable: true,
			StartDate:   date(2026, time.September, 1),
			EndDate:     date(2026, time.September, 30),
			CreatedAt:   date(2026, time.August, 15),
		},
	}

	w := Resolve(date(2026, time.September, 7), specials, nil)
	assert.Equal(t, "13:00", w.StartTime)
}

func TestResolve_SpecialWrongWeekdayIgnored(t *testing.T) {
	specials := []SpecialRule{
		{
			Day:         time.Tuesday,
			StartTime:   "12:00",
			EndTime:     "15:00",
			IsAvailable: true,
			StartDate:   date(2026, time.September, 1),
			EndDate:     date(2026, time.September, 30),
		},
	}
	globals := []GlobalRule{
		{Day: time.Monday, StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
	}

	// Monday inside the special's date range, but the special is for
	// Tuesdays: the template applies.
	w := Resolve(date(2026, time.September, 7), specials, globals)
	assert.Equal(t, "09:00", w.StartTime)
}

func TestSlotInside(t *testing.T) {
	w := Window{Open: true, StartTime: "09:00", EndTime: "17:00"}

	assert.True(t, SlotInside(w, 9*60, 10*60))
	assert.True(t, SlotInside(w, 16*60, 17*60))
	assert.False(t, SlotInside(w, 8*60+30, 9*60+30))
	assert.False(t, SlotInside(w, 16*60+30, 17*60+30))
	assert.False(t, SlotInside(Window{}, 10*60, 11*60))
}
