// Package schedule merges heterogeneous event sources into ordered,
// per-day views and answers "ongoing or next" queries.
//
// Lectures, exams, and calendar entries arrive already normalized by the
// upstream fetchers. The aggregator groups them chronologically by day,
// applies a fixed tie-break chain for same-instant entries, and computes
// progress/remaining statistics for ongoing events. All operations are
// pure functions over value inputs.
package schedule
