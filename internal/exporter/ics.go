// Package exporter renders a schedule as an iCalendar feed.
package exporter

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/scheduler"
)

const (
	productID      = "-//course-scheduler//schedule export//EN"
	floatingLayout = "20060102T150405"
	daysPerWeek    = 7
)

// ErrInvalidTerm is returned when a term has no start date or no weeks.
var ErrInvalidTerm = errors.New("exporter: invalid term")

// Term is the span the weekly meetings repeat over.
type Term struct {
	Start time.Time
	Weeks int
}

// Validate reports whether the term can bound a recurrence.
func (t Term) Validate() error {
	if t.Start.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidTerm)
	}
	if t.Weeks <= 0 {
		return fmt.Errorf("%w: weeks must be positive, got %d", ErrInvalidTerm, t.Weeks)
	}
	return nil
}

// FirstDay is the term start at midnight, with the location dropped.
func (t Term) FirstDay() time.Time {
	y, m, d := t.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LastDay is the final date of the term.
func (t Term) LastDay() time.Time {
	return t.FirstDay().AddDate(0, 0, t.Weeks*daysPerWeek-1)
}

// lastInstant is the final second of the last term day.
func (t Term) lastInstant() time.Time {
	return t.LastDay().Add(24*time.Hour - time.Second)
}

var byDayTokens = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// GenerateICS writes one weekly recurring VEVENT per timed activity. Times are
// floating local times. Arranged activities have no slot and are left out.
func GenerateICS(activities []scheduler.Activity, term Term, stamp time.Time, w io.Writer) error {
	if err := term.Validate(); err != nil {
		return err
	}

	engine := recurrence.NewEngine(nil)
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	until := term.lastInstant().Format(floatingLayout)
	for i, activity := range activities {
		meeting := activity.Meeting()
		if meeting.IsArranged() {
			continue
		}

		first, ok := firstMeeting(engine, term, meeting)
		if !ok {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("activity-%d-%s@course-scheduler", i, uidToken(activity)))
		event.SetDtStampTime(stamp)
		event.SetProperty(ics.ComponentPropertyDtStart, first.Start.Format(floatingLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, first.End.Format(floatingLayout))
		event.AddProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", byDay(meeting), until))
		event.SetSummary(summary(activity))
		if description := describe(activity); description != "" {
			event.SetDescription(description)
		}
	}

	return cal.SerializeTo(w)
}

// firstMeeting is the meeting's first occurrence in the opening week of the term.
func firstMeeting(engine *recurrence.Engine, term Term, meeting scheduler.MeetingTime) (recurrence.Occurrence, bool) {
	rule, ok := recurrence.MeetingRule(meeting, term.FirstDay(), term.FirstDay().AddDate(0, 0, daysPerWeek-1))
	if !ok {
		return recurrence.Occurrence{}, false
	}
	occurrences, err := engine.GenerateOccurrences(rule, recurrence.GenerateOptions{})
	if err != nil || len(occurrences) == 0 {
		return recurrence.Occurrence{}, false
	}
	return occurrences[0], true
}

func byDay(meeting scheduler.MeetingTime) string {
	tokens := make([]string, 0, len(meeting.Days()))
	for _, code := range meeting.Days() {
		if day, ok := recurrence.Weekday(code); ok {
			tokens = append(tokens, byDayTokens[day])
		}
	}
	return strings.Join(tokens, ",")
}

func uidToken(activity scheduler.Activity) string {
	if course, ok := activity.(*scheduler.Course); ok {
		return strings.ReplaceAll(course.Name(), " ", "") + "-" + course.Section()
	}
	return "event"
}

func summary(activity scheduler.Activity) string {
	if course, ok := activity.(*scheduler.Course); ok {
		return course.Name() + " " + course.Title()
	}
	return activity.Title()
}

func describe(activity scheduler.Activity) string {
	switch a := activity.(type) {
	case *scheduler.Course:
		return fmt.Sprintf("Section %s, %d credits, instructor %s", a.Section(), a.Credits(), a.InstructorID())
	case *scheduler.Event:
		return a.Details()
	}
	return ""
}
