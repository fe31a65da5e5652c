package scheduling

import "time"

// GlobalRule is a recurring weekly template entry. StartDate/EndDate are
// optional validity bounds; a rule with neither is always in effect.
type GlobalRule struct {
	Day         time.Weekday
	StartTime   string
	EndTime     string
	IsAvailable bool
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

// SpecialRule is a date-ranged override of the weekly template.
type SpecialRule struct {
	Day         time.Weekday
	StartTime   string
	EndTime     string
	IsAvailable bool
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
}

// Window is the effective bookable window for a single date. Open is
// false when the day is closed or no rule matched.
type Window struct {
	Open      bool
	StartTime string
	EndTime   string
}

// Resolve computes the effective bookable window for a calendar date.
// Special rules whose date range contains the date and whose weekday
// matches always win over the weekly template; among overlapping
// specials the most recently created one applies. With no special in
// effect, the weekday's template rule is used, preferring entries whose
// validity window contains the date over unbounded ones. No matching
// rule, or a rule with IsAvailable false, means the day is closed.
func Resolve(date time.Time, specials []SpecialRule, globals []GlobalRule) Window {
	day := truncateToDay(date)
	weekday := day.Weekday()

	var special *SpecialRule
	for i := range specials {
		s := &specials[i]
		if s.Day != weekday {
			continue
		}
		if day.Before(truncateToDay(s.StartDate)) || day.After(truncateToDay(s.EndDate)) {
			continue
		}
		if special == nil || s.CreatedAt.After(special.CreatedAt) {
			special = s
		}
	}
	if special != nil {
		return windowFrom(special.IsAvailable, special.StartTime, special.EndTime)
	}

	// Fall back to the weekly template. A date-bounded entry containing
	// the date beats an unbounded one, so seasonal hours override the
	// default template without deleting it.
	var bounded, unbounded *GlobalRule
	for i := range globals {
		g := &globals[i]
		if g.Day != weekday {
			continue
		}
		switch {
		case g.StartDate != nil && g.EndDate != nil:
			if day.Before(truncateToDay(*g.StartDate)) || day.After(truncateToDay(*g.EndDate)) {
				continue
			}
			if bounded == nil || g.CreatedAt.After(bounded.CreatedAt) {
				bounded = g
			}
		case g.StartDate == nil && g.EndDate == nil:
			if unbounded == nil || g.CreatedAt.After(unbounded.CreatedAt) {
				unbounded = g
			}
		case g.StartDate != nil:
			if day.Before(truncateToDay(*g.StartDate)) {
				continue
			}
			if bounded == nil || g.CreatedAt.After(bounded.CreatedAt) {
				bounded = g
			}
		default:
			if day.After(truncateToDay(*g.EndDate)) {
				continue
			}
			if bounded == nil || g.CreatedAt.After(bounded.CreatedAt) {
				bounded = g
			}
		}
	}

	if bounded != nil {
		return windowFrom(bounded.IsAvailable, bounded.StartTime, bounded.EndTime)
	}
	if unbounded != nil {
		return windowFrom(unbounded.IsAvailable, unbounded.StartTime, unbounded.EndTime)
	}

	return Window{}
}

// SlotInside reports whether [start, end) in minute-of-day terms fits
// inside the resolved window.
func SlotInside(w Window, start, end int) bool {
	if !w.Open {
		return false
	}
	windowStart, err := ParseClock(w.StartTime)
	if err != nil {
		return false
	}
	windowEnd, err := ParseClock(w.EndTime)
	if err != nil {
		return false
	}
	return start >= windowStart && end <= windowEnd
}

func windowFrom(available bool, start, end string) Window {
	if !available {
		return Window{}
	}
	return Window{Open: true, StartTime: start, EndTime: end}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
