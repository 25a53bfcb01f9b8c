package scheduler

import (
	"fmt"
	"strings"
)

const (
	// Arranged is the canonical meeting-days code for activities without a fixed time.
	Arranged      = "A"
	// ArrangedLabel is the long form accepted on input and used for display.
	ArrangedLabel = "Arranged"

	maxHour      = 23
	maxMinute    = 59
	timeDivisor  = 100
	noonHour     = 12
	fieldMeeting = "meeting_days"
)

// DaySet is the set of day codes a variant may meet on.
type DaySet string

const (
	// CourseDays allows weekdays only. H is Thursday.
	CourseDays DaySet = "MTWHF"
	// EventDays adds Saturday (S) and Sunday (U).
	EventDays DaySet = "MTWHFSU"
)

// Contains reports whether code is a member of the set.
func (s DaySet) Contains(code rune) bool {
	return strings.ContainsRune(string(s), code)
}

// MeetingTime is an immutable set of meeting days plus a start/end time of
// day in HHMM form. The zero value is not valid; use NewMeetingTime.
type MeetingTime struct {
	days  string
	start int
	end   int
}

// NewMeetingTime validates days, start and end against the allowed day codes.
//
// Times are integers encoded as hour*100+minute. Only the hour ordering is
// enforced: 1030-1015 is accepted because both fall in hour 10.
func NewMeetingTime(days string, start, end int, allowed DaySet) (MeetingTime, error) {
	if days == "" {
		return MeetingTime{}, invalid(fieldMeeting, msgInvalidMeeting)
	}

	if days == Arranged || days == ArrangedLabel {
		if start != 0 || end != 0 {
			return MeetingTime{}, invalid(fieldMeeting, msgInvalidMeeting)
		}
		return MeetingTime{days: Arranged}, nil
	}

	seen := make(map[rune]bool, len(days))
	for _, code := range days {
		if !allowed.Contains(code) || seen[code] {
			return MeetingTime{}, invalid(fieldMeeting, msgInvalidMeeting)
		}
		seen[code] = true
	}

	startHour, startMinute := splitTime(start)
	endHour, endMinute := splitTime(end)

	switch {
	case startHour > endHour,
		startHour < 0 || startHour > maxHour,
		endHour < 0 || endHour > maxHour,
		startMinute < 0 || startMinute > maxMinute,
		endMinute < 0 || endMinute > maxMinute:
		return MeetingTime{}, invalid(fieldMeeting, msgInvalidMeeting)
	}

	return MeetingTime{days: days, start: start, end: end}, nil
}

// Days returns the day codes, or Arranged.
func (m MeetingTime) Days() string { return m.days }

// Start returns the start time in HHMM form.
func (m MeetingTime) Start() int { return m.start }

// End returns the end time in HHMM form.
func (m MeetingTime) End() int { return m.end }

// IsArranged reports whether the meeting has no fixed days or time.
func (m MeetingTime) IsArranged() bool { return m.days == Arranged }

// HasDay reports whether the meeting includes the given day code.
func (m MeetingTime) HasDay(code rune) bool {
	if m.IsArranged() {
		return false
	}
	return strings.ContainsRune(m.days, code)
}

// String renders the meeting as "MW 1:30PM-2:45PM" or "Arranged".
func (m MeetingTime) String() string {
	if m.IsArranged() {
		return ArrangedLabel
	}
	return fmt.Sprintf("%s %s-%s", m.days, clock12(m.start), clock12(m.end))
}

func splitTime(value int) (hour, minute int) {
	return value / timeDivisor, value % timeDivisor
}

// clock12 converts HHMM to 12-hour form. Midnight renders as 12 AM and noon as 12 PM.
func clock12(value int) string {
	hour, minute := splitTime(value)
	meridiem := "AM"
	if hour >= noonHour {
		meridiem = "PM"
	}
	switch {
	case hour == 0:
		hour = noonHour
	case hour > noonHour:
		hour -= noonHour
	}
	return fmt.Sprintf("%d:%02d%s", hour, minute, meridiem)
}
