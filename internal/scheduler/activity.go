package scheduler

import (
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies an Activity variant.
type Kind int

const (
	// KindCourse marks catalog-backed courses.
	KindCourse Kind = iota + 1
	// KindEvent marks ad-hoc user events.
	KindEvent
)

// String returns the lower-case variant name.
func (k Kind) String() string {
	switch k {
	case KindCourse:
		return "course"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Activity is anything that can sit in a schedule. The set of
// implementations is closed: *Course and *Event.
type Activity interface {
	Kind() Kind
	Title() string
	Meeting() MeetingTime
	MeetingString() string
	// ShortDisplay returns name, section, title and meeting string.
	ShortDisplay() []string
	// LongDisplay returns name, section, title, credits, instructor,
	// meeting string and event details.
	LongDisplay() []string
	IsDuplicate(other Activity) bool
	// RecordFields returns the fields of the record form in order.
	RecordFields() []string
	// String returns RecordFields joined with commas.
	String() string

	sealed()
}

// base holds the fields shared by every variant.
type base struct {
	title   string
	meeting MeetingTime
}

func (b *base) Title() string         { return b.title }
func (b *base) Meeting() MeetingTime  { return b.meeting }
func (b *base) MeetingString() string { return b.meeting.String() }
func (b *base) sealed()               {}

func (b *base) setTitle(title string) error {
	if title == "" {
		return invalid("title", msgInvalidTitle)
	}
	b.title = title
	return nil
}

func (b *base) setMeeting(days string, start, end int, allowed DaySet) error {
	meeting, err := NewMeetingTime(days, start, end, allowed)
	if err != nil {
		return err
	}
	b.meeting = meeting
	return nil
}

const (
	minNameLength  = 5
	maxNameLength  = 8
	minNameLetters = 1
	maxNameLetters = 4
	nameDigits     = 3
	sectionLength  = 3
	minCredits     = 1
	maxCredits     = 5
)

// CourseFields is the field tuple a catalog record carries.
type CourseFields struct {
	Name         string
	Title        string
	Section      string
	Credits      int
	InstructorID string
	MeetingDays  string
	StartTime    int
	EndTime      int
}

// Course is a catalog offering. Courses are shared between the catalog and
// schedules and are never mutated once loaded.
type Course struct {
	base
	name         string
	section      string
	credits      int
	instructorID string
}

// NewCourse validates every field and returns the course. Validation stops at
// the first offending field.
func NewCourse(f CourseFields) (*Course, error) {
	c := &Course{}
	if err := c.setTitle(f.Title); err != nil {
		return nil, err
	}
	if err := c.setMeetingDaysAndTime(f.MeetingDays, f.StartTime, f.EndTime); err != nil {
		return nil, err
	}
	if err := c.setName(f.Name); err != nil {
		return nil, err
	}
	if err := c.setSection(f.Section); err != nil {
		return nil, err
	}
	if err := c.setCredits(f.Credits); err != nil {
		return nil, err
	}
	if err := c.setInstructorID(f.InstructorID); err != nil {
		return nil, err
	}
	return c, nil
}

// Fields returns the tuple the course was built from.
func (c *Course) Fields() CourseFields {
	return CourseFields{
		Name:         c.name,
		Title:        c.title,
		Section:      c.section,
		Credits:      c.credits,
		InstructorID: c.instructorID,
		MeetingDays:  c.meeting.Days(),
		StartTime:    c.meeting.Start(),
		EndTime:      c.meeting.End(),
	}
}

func (c *Course) Kind() Kind           { return KindCourse }
func (c *Course) Name() string         { return c.name }
func (c *Course) Section() string      { return c.section }
func (c *Course) Credits() int         { return c.credits }
func (c *Course) InstructorID() string { return c.instructorID }

// setMeetingDaysAndTime accepts weekday codes only.
func (c *Course) setMeetingDaysAndTime(days string, start, end int) error {
	return c.setMeeting(days, start, end, CourseDays)
}

// setName accepts 1-4 letters, an optional single space and exactly three
// digits, for a total length of 5-8 characters.
func (c *Course) setName(name string) error {
	if len(name) < minNameLength || len(name) > maxNameLength {
		return invalid("name", msgInvalidName)
	}

	letters, spaces, digits := 0, 0, 0
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) && spaces == 0 && digits == 0:
			letters++
		case r == ' ' && spaces == 0 && digits == 0 && letters > 0:
			spaces++
		case unicode.IsDigit(r) && letters > 0:
			digits++
		default:
			return invalid("name", msgInvalidName)
		}
	}

	if letters < minNameLetters || letters > maxNameLetters || digits != nameDigits {
		return invalid("name", msgInvalidName)
	}
	c.name = name
	return nil
}

// setSection requires exactly three digits.
func (c *Course) setSection(section string) error {
	if len(section) != sectionLength {
		return invalid("section", msgInvalidSection)
	}
	for _, r := range section {
		if !unicode.IsDigit(r) {
			return invalid("section", msgInvalidSection)
		}
	}
	c.section = section
	return nil
}

// setCredits requires a value between 1 and 5 inclusive.
func (c *Course) setCredits(credits int) error {
	if credits < minCredits || credits > maxCredits {
		return invalid("credits", msgInvalidCredits)
	}
	c.credits = credits
	return nil
}

// setInstructorID requires a non-empty id.
func (c *Course) setInstructorID(id string) error {
	if id == "" {
		return invalid("instructor_id", msgInvalidInstructor)
	}
	c.instructorID = id
	return nil
}

func (c *Course) ShortDisplay() []string {
	return []string{c.name, c.section, c.title, c.MeetingString()}
}

func (c *Course) LongDisplay() []string {
	return []string{c.name, c.section, c.title, strconv.Itoa(c.credits), c.instructorID, c.MeetingString(), ""}
}

// IsDuplicate reports whether other is a course with the same name.
func (c *Course) IsDuplicate(other Activity) bool {
	o, ok := other.(*Course)
	return ok && o.name == c.name
}

// RecordFields omits the times of arranged courses.
func (c *Course) RecordFields() []string {
	fields := []string{c.name, c.title, c.section, strconv.Itoa(c.credits), c.instructorID, c.meeting.Days()}
	if !c.meeting.IsArranged() {
		fields = append(fields, strconv.Itoa(c.meeting.Start()), strconv.Itoa(c.meeting.End()))
	}
	return fields
}

func (c *Course) String() string { return strings.Join(c.RecordFields(), ",") }

// Event is a user-defined activity such as a study group or a shift.
type Event struct {
	base
	details string
}

// NewEvent validates and returns an event. Details may be empty.
func NewEvent(title, days string, start, end int, details string) (*Event, error) {
	e := &Event{}
	if err := e.setTitle(title); err != nil {
		return nil, err
	}
	if err := e.SetMeetingDaysAndTime(days, start, end); err != nil {
		return nil, err
	}
	e.SetEventDetails(details)
	return e, nil
}

func (e *Event) Kind() Kind      { return KindEvent }
func (e *Event) Details() string { return e.details }

// SetTitle replaces the title when it is non-empty.
func (e *Event) SetTitle(title string) error { return e.setTitle(title) }

// SetMeetingDaysAndTime accepts every day code including weekends.
func (e *Event) SetMeetingDaysAndTime(days string, start, end int) error {
	return e.setMeeting(days, start, end, EventDays)
}

// SetEventDetails replaces the details with any text, including an empty string.
func (e *Event) SetEventDetails(details string) {
	e.details = details
}

func (e *Event) ShortDisplay() []string {
	return []string{"", "", e.title, e.MeetingString()}
}

func (e *Event) LongDisplay() []string {
	return []string{"", "", e.title, "", "", e.MeetingString(), e.details}
}

// IsDuplicate reports whether other is an event with the same title.
func (e *Event) IsDuplicate(other Activity) bool {
	o, ok := other.(*Event)
	return ok && o.title == e.title
}

func (e *Event) RecordFields() []string {
	return []string{
		e.title,
		e.meeting.Days(),
		strconv.Itoa(e.meeting.Start()),
		strconv.Itoa(e.meeting.End()),
		e.details,
	}
}

func (e *Event) String() string { return strings.Join(e.RecordFields(), ",") }
