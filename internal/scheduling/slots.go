package scheduling

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Period is the 12-hour clock half-day marker.
type Period string

const (
	AM Period = "AM"
	PM Period = "PM"
)

// Slot is a discrete bookable time unit on the 12-hour clock.
type Slot struct {
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Period Period `json:"period"`
}

// Bookable hours run 10:00 AM through 7:00 PM at 5-minute granularity.
const (
	openHour24  = 10
	closeHour24 = 19
	minuteStep  = 5
)

// FormatSlot renders the canonical zero-padded "HH:MM AM|PM" slot string.
// This string is the slot-matching key stored on appointment records.
func FormatSlot(hour, minute int, period Period) string {
	return fmt.Sprintf("%02d:%02d %s", hour, minute, period)
}

// String returns the canonical slot string.
func (s Slot) String() string {
	return FormatSlot(s.Hour, s.Minute, s.Period)
}

var slotPattern = regexp.MustCompile(`^\s*(\d{1,2}):(\d{1,2})\s*(AM|PM)\s*$`)

// ParseSlot parses a "HH:MM AM|PM" string. The period comparison is
// case-insensitive to tolerate hand-entered legacy rows.
func ParseSlot(s string) (Slot, error) {
	m := slotPattern.FindStringSubmatch(strings.ToUpper(s))
	if m == nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrMalformedSlot, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return Slot{}, fmt.Errorf("%w: %q", ErrMalformedSlot, s)
	}
	return Slot{Hour: hour, Minute: minute, Period: Period(m[3])}, nil
}

// Hour24 converts the slot to a 24-hour clock hour.
func (s Slot) Hour24() int {
	h := s.Hour
	if s.Period == PM && h != 12 {
		h += 12
	} else if s.Period == AM && h == 12 {
		h = 0
	}
	return h
}

// Bookable reports whether the slot falls on the salon's grid:
// 10:00 AM through 7:00 PM, minutes in 5-minute steps.
func (s Slot) Bookable() bool {
	if s.Period != AM && s.Period != PM {
		return false
	}
	// 12-hour clock only; hour 0 or 13+ would alias an on-grid time
	// with a non-canonical slot string.
	if s.Hour < 1 || s.Hour > 12 {
		return false
	}
	if s.Minute < 0 || s.Minute > 59 || s.Minute%minuteStep != 0 {
		return false
	}
	h24 := s.Hour24()
	if h24 < openHour24 || h24 > closeHour24 {
		return false
	}
	return true
}

// Grid enumerates every bookable slot for a day, in chronological order.
func Grid() []Slot {
	var out []Slot
	for h24 := openHour24; h24 <= closeHour24; h24++ {
		for m := 0; m < 60; m += minuteStep {
			out = append(out, fromHour24(h24, m))
		}
	}
	return out
}

func fromHour24(h24, minute int) Slot {
	period := AM
	hour := h24
	switch {
	case h24 == 0:
		hour = 12
	case h24 == 12:
		period = PM
	case h24 > 12:
		hour = h24 - 12
		period = PM
	}
	return Slot{Hour: hour, Minute: minute, Period: period}
}
