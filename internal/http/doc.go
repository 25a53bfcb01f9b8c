// Package http provides HTTP handlers and middleware for the scheduler API.
//
// The router exposes the following endpoints:
//   - GET /catalog: every catalog course as {"name","section","title","meeting"}.
//   - GET /schedule: the schedule title and one {"name","section","title"} row per
//     activity. With ?view=full each row also carries credits, instructor,
//     meeting and details.
//   - PUT /schedule/title: body {"title"}. A missing or null title is rejected
//     with 422; an empty string is accepted.
//   - POST /schedule/courses: body {"name","section"}. Adds a catalog course.
//   - POST /schedule/events: body {"title","meeting_days","start_time",
//     "end_time","details"}. Adds an event.
//   - DELETE /schedule/activities/{index}: removes the activity at a zero based
//     index.
//   - POST /schedule/reset: empties the schedule.
//   - GET /schedule/export: the schedule in comma separated record form.
//   - GET /schedule/calendar: the schedule as an iCalendar feed.
//   - GET /schedule/agenda?from=YYYY-MM-DD&to=YYYY-MM-DD: dated meetings in
//     start order. The range defaults to the first week of the term.
//   - GET /snapshots, POST /snapshots, GET /snapshots/{id},
//     DELETE /snapshots/{id}, POST /snapshots/{id}/restore: saved copies of the
//     schedule exchanging the `snapshotDTO` payload defined in snapshot_handler.go.
//
// Errors use the body {"error_code","message","errors"}: 422 for invalid input,
// 404 for unknown resources, 409 for duplicates and conflicts, 503 when the
// catalog is unavailable.
package http
