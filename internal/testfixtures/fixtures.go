package testfixtures

import (
	"context"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/scheduler"
)

// referenceTime is the Monday a fixture term starts on.
var referenceTime = time.Date(2026, time.August, 17, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// catalogLines is a small catalog in record form. CSC216 has two sections so
// enrolment and duplicate checks can be exercised together.
var catalogLines = []string{
	"CSC116,Intro to Programming - Java,001,3,jdyoung2,MW,910,1100",
	"CSC116,Intro to Programming - Java,002,3,spbalik,MW,1120,1310",
	"CSC216,Software Development Fundamentals,001,3,sesmith5,TH,1330,1445",
	"CSC216,Software Development Fundamentals,601,3,jctetter,A",
	"CSC226,Discrete Mathematics for Computer Scientists,001,3,sesmith5,MWF,935,1025",
	"CSC230,C and Software Tools,001,3,dbsturgi,MW,1145,1300",
	"CSC316,Data Structures and Algorithms,001,3,jtking,MW,830,945",
	"CSC326,Software Engineering,001,3,sesmith5,TH,1500,1615",
	"CSC492,Senior Design Project,001,5,dbsturgi,F,1330,1630",
}

// CatalogLines returns a fresh copy of the fixture catalog records.
func CatalogLines() []string {
	out := make([]string, len(catalogLines))
	copy(out, catalogLines)
	return out
}

// CatalogText returns the fixture catalog as file content.
func CatalogText() string {
	return strings.Join(catalogLines, "\n") + "\n"
}

// CourseOption configures a course fixture.
type CourseOption func(*scheduler.CourseFields)

// NewCourseFields returns a valid course record with optional overrides.
func NewCourseFields(opts ...CourseOption) scheduler.CourseFields {
	fields := scheduler.CourseFields{
		Name:         "CSC216",
		Title:        "Software Development Fundamentals",
		Section:      "001",
		Credits:      3,
		InstructorID: "sesmith5",
		MeetingDays:  "TH",
		StartTime:    1330,
		EndTime:      1445,
	}
	for _, opt := range opts {
		opt(&fields)
	}
	return fields
}

// WithCourseName overrides the course name.
func WithCourseName(name string) CourseOption {
	return func(f *scheduler.CourseFields) {
		f.Name = name
	}
}

// WithSection overrides the section.
func WithSection(section string) CourseOption {
	return func(f *scheduler.CourseFields) {
		f.Section = section
	}
}

// WithMeeting overrides the meeting days and times.
func WithMeeting(days string, start, end int) CourseOption {
	return func(f *scheduler.CourseFields) {
		f.MeetingDays = days
		f.StartTime = start
		f.EndTime = end
	}
}

// CatalogRecords returns the fixture catalog as course records, in file order.
func CatalogRecords() []scheduler.CourseFields {
	return []scheduler.CourseFields{
		NewCourseFields(WithCourseName("CSC116"), withTitle("Intro to Programming - Java"), withInstructor("jdyoung2"), WithMeeting("MW", 910, 1100)),
		NewCourseFields(WithCourseName("CSC116"), withTitle("Intro to Programming - Java"), WithSection("002"), withInstructor("spbalik"), WithMeeting("MW", 1120, 1310)),
		NewCourseFields(),
		NewCourseFields(WithSection("601"), withInstructor("jctetter"), WithMeeting(scheduler.Arranged, 0, 0)),
		NewCourseFields(WithCourseName("CSC226"), withTitle("Discrete Mathematics for Computer Scientists"), WithMeeting("MWF", 935, 1025)),
		NewCourseFields(WithCourseName("CSC230"), withTitle("C and Software Tools"), withInstructor("dbsturgi"), WithMeeting("MW", 1145, 1300)),
		NewCourseFields(WithCourseName("CSC316"), withTitle("Data Structures and Algorithms"), withInstructor("jtking"), WithMeeting("MW", 830, 945)),
		NewCourseFields(WithCourseName("CSC326"), withTitle("Software Engineering"), WithMeeting("TH", 1500, 1615)),
		NewCourseFields(WithCourseName("CSC492"), withTitle("Senior Design Project"), withCredits(5), withInstructor("dbsturgi"), WithMeeting("F", 1330, 1630)),
	}
}

func withTitle(title string) CourseOption {
	return func(f *scheduler.CourseFields) { f.Title = title }
}

func withInstructor(id string) CourseOption {
	return func(f *scheduler.CourseFields) { f.InstructorID = id }
}

func withCredits(credits int) CourseOption {
	return func(f *scheduler.CourseFields) { f.Credits = credits }
}

// StaticCatalog returns a catalog source yielding records. A nil error with no
// records describes an empty catalog.
func StaticCatalog(records []scheduler.CourseFields) func(context.Context) ([]scheduler.CourseFields, error) {
	return func(context.Context) ([]scheduler.CourseFields, error) {
		out := make([]scheduler.CourseFields, len(records))
		copy(out, records)
		return out, nil
	}
}

// FailingCatalog returns a catalog source that always fails with err.
func FailingCatalog(err error) func(context.Context) ([]scheduler.CourseFields, error) {
	return func(context.Context) ([]scheduler.CourseFields, error) {
		return nil, err
	}
}
