// Package scheduler models schedulable activities and detects time conflicts.
//
// A meeting is a set of day codes (M, T, W, H for Thursday, F, S, U) plus a
// start and end time written as hour*100+minute, or the Arranged state with no
// fixed time. Courses may only meet on weekdays; events may meet any day.
//
// The package holds no schedule state. Schedule management lives in the
// application package, which uses IsDuplicate and CheckConflict as its gates.
package scheduler
