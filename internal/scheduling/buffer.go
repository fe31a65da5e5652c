package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// Known service areas.
const (
	LocationVancouver      = "Vancouver"
	LocationNorthVancouver = "North Vancouver"
	LocationBurnaby        = "Burnaby"
	LocationSurrey         = "Surrey"
)

const (
	sameLocationBuffer = 15
	defaultBuffer      = 30
	minutesPerDay      = 24 * 60
)

// BufferMinutes returns the minimum gap in minutes required between a
// lesson ending at location a and one starting at location b. The rule
// set is symmetric today, but callers evaluate it in both directions so
// asymmetric travel rules can be added without touching conflict logic.
func BufferMinutes(a, b string) int {
	if a == b {
		return sameLocationBuffer
	}

	switch {
	case pairIs(a, b, LocationVancouver, LocationSurrey):
		return 30
	case pairIs(a, b, LocationNorthVancouver, LocationBurnaby):
		return 45
	case pairIs(a, b, LocationNorthVancouver, LocationSurrey):
		return 45
	}

	return defaultBuffer
}

func pairIs(a, b, x, y string) bool {
	return (a == x && b == y) || (a == y && b == x)
}

// ParseClock converts an "HH:MM" string to minute-of-day. Input that is
// not a well-formed 24-hour clock string is rejected here so the rest of
// the package can work on plain integers.
func ParseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid time %q: bad hours", value)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: bad minutes", value)
	}

	return hours*60 + minutes, nil
}

// FormatClock renders a minute-of-day back to "HH:MM".
func FormatClock(minuteOfDay int) string {
	minuteOfDay = ((minuteOfDay % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

// AddMinutes shifts an "HH:MM" clock string by the given number of
// minutes, wrapping modulo 24 hours. No date rollover is tracked;
// cross-midnight lessons are unsupported.
func AddMinutes(value string, minutes int) (string, error) {
	start, err := ParseClock(value)
	if err != nil {
		return "", err
	}
	return FormatClock(start + minutes), nil
}

// BookingSlot is an existing booking as seen by the conflict check:
// same instructor, same calendar day.
type BookingSlot struct {
	Start    int
	End      int
	Location string
}

// HasConflict reports whether a candidate slot collides with any of the
// instructor's existing same-day bookings once travel buffers are
// applied. All values are minute-of-day integers.
func HasConflict(newStart, newEnd int, newLocation string, existing []BookingSlot) bool {
	for _, slot := range existing {
		// Buffer needed before the new lesson (travel from the existing
		// one) and after it (travel back), kept directional so the rule
		// table can grow asymmetric entries.
		bufferBefore := BufferMinutes(slot.Location, newLocation)
		bufferAfter := BufferMinutes(newLocation, slot.Location)

		// New lesson starts inside the existing slot padded by the
		// required buffer. A gap exactly equal to the buffer is allowed.
		if newStart >= slot.Start-bufferBefore && newStart < slot.End+bufferBefore {
			return true
		}
		// New lesson ends inside the padded slot.
		if newEnd > slot.Start-bufferAfter && newEnd <= slot.End+bufferAfter {
			return true
		}
		// New lesson fully contains the existing one.
		if newStart <= slot.Start && newEnd >= slot.End {
			return true
		}
	}
	return false
}
