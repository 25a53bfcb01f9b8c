// Package recurrence expands weekly meeting patterns into dated occurrences.
package recurrence

import (
	"cmp"
	"errors"
	"slices"
	"time"

	"github.com/example/course-scheduler/internal/scheduler"
)

// Rule repeats a daily time slot on a set of weekdays.
type Rule struct {
	Weekdays []time.Weekday
	// StartsOn is the first date the rule applies to.
	StartsOn time.Time
	// EndsOn is the last date the rule applies to, inclusive.
	EndsOn *time.Time
	// Start and End are HHMM times of day.
	Start int
	End   int
}

// GenerateOptions defines optional range bounds for occurrence generation.
type GenerateOptions struct {
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// Occurrence is one dated instance of a rule.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Engine expands rules into occurrences.
type Engine struct {
	location *time.Location
}

// NewEngine constructs an Engine that builds occurrences in loc. A nil loc
// means UTC, which callers use for floating wall-clock times.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{location: loc}
}

var (
	// ErrNoWeekdays indicates the rule never repeats.
	ErrNoWeekdays = errors.New("recurrence: rule has no weekdays")
	// ErrInvalidWindow indicates the generation window is unbounded.
	ErrInvalidWindow = errors.New("recurrence: generation window requires an end bound")
)

// GenerateOccurrences produces the occurrences of rule in chronological order.
//
// The window starts at the later of rule.StartsOn and opts.RangeStart and ends
// at the earlier of the end of rule.EndsOn and opts.RangeEnd. An occurrence is
// included when its start lies inside the window. A slot whose end precedes
// its start within the same hour yields zero length occurrences.
func (e *Engine) GenerateOccurrences(rule Rule, opts GenerateOptions) ([]Occurrence, error) {
	if len(rule.Weekdays) == 0 {
		return nil, ErrNoWeekdays
	}

	loc := e.location
	if loc == nil {
		loc = time.UTC
	}

	var (
		upperBound time.Time
		hasUpper   bool
	)
	if rule.EndsOn != nil {
		upperBound = midnight(rule.EndsOn.AddDate(0, 0, 1), loc).Add(-time.Nanosecond)
		hasUpper = true
	}
	if opts.RangeEnd != nil {
		rangeEnd := opts.RangeEnd.In(loc)
		if !hasUpper || rangeEnd.Before(upperBound) {
			upperBound = rangeEnd
		}
		hasUpper = true
	}
	if !hasUpper {
		return nil, ErrInvalidWindow
	}

	lowerBound := midnight(rule.StartsOn, loc)
	if opts.RangeStart != nil && opts.RangeStart.In(loc).After(lowerBound) {
		lowerBound = opts.RangeStart.In(loc)
	}
	if lowerBound.After(upperBound) {
		return nil, nil
	}

	weekdaySet := make(map[time.Weekday]struct{}, len(rule.Weekdays))
	for _, day := range rule.Weekdays {
		weekdaySet[day] = struct{}{}
	}

	occurrences := make([]Occurrence, 0)
	for day := midnight(lowerBound, loc); !day.After(upperBound); day = day.AddDate(0, 0, 1) {
		if _, ok := weekdaySet[day.Weekday()]; !ok {
			continue
		}
		start := atTime(day, rule.Start)
		if start.Before(lowerBound) || start.After(upperBound) {
			continue
		}
		end := atTime(day, rule.End)
		if end.Before(start) {
			end = start
		}
		occurrences = append(occurrences, Occurrence{Start: start, End: end})
	}
	return occurrences, nil
}

// Entry is one dated meeting of a scheduled activity.
type Entry struct {
	// Index is the activity's position in the schedule.
	Index    int
	Activity scheduler.Activity
	Start    time.Time
	End      time.Time
}

// Agenda lists every meeting of activities between the dates from and until,
// both inclusive, ordered by start time. Arranged activities have no meetings.
func (e *Engine) Agenda(activities []scheduler.Activity, from, until time.Time) ([]Entry, error) {
	entries := make([]Entry, 0)
	for i, activity := range activities {
		rule, ok := MeetingRule(activity.Meeting(), from, until)
		if !ok {
			continue
		}
		occurrences, err := e.GenerateOccurrences(rule, GenerateOptions{})
		if err != nil {
			return nil, err
		}
		for _, o := range occurrences {
			entries = append(entries, Entry{Index: i, Activity: activity, Start: o.Start, End: o.End})
		}
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	return entries, nil
}

// MeetingRule builds the rule for a meeting between two dates. It reports
// false for arranged meetings.
func MeetingRule(meeting scheduler.MeetingTime, from, until time.Time) (Rule, bool) {
	if meeting.IsArranged() {
		return Rule{}, false
	}

	days := make([]time.Weekday, 0, len(meeting.Days()))
	for _, code := range meeting.Days() {
		if day, ok := Weekday(code); ok {
			days = append(days, day)
		}
	}
	return Rule{
		Weekdays: days,
		StartsOn: from,
		EndsOn:   &until,
		Start:    meeting.Start(),
		End:      meeting.End(),
	}, true
}

var dayCodes = map[rune]time.Weekday{
	'M': time.Monday,
	'T': time.Tuesday,
	'W': time.Wednesday,
	'H': time.Thursday,
	'F': time.Friday,
	'S': time.Saturday,
	'U': time.Sunday,
}

// Weekday maps a meeting day code to its weekday.
func Weekday(code rune) (time.Weekday, bool) {
	day, ok := dayCodes[code]
	return day, ok
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func atTime(day time.Time, hhmm int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hhmm/100, hhmm%100, 0, 0, day.Location())
}
