// Package analytics derives the dashboard views from a loaded table.
//
// All functions are pure: they never mutate the table and return empty,
// non-nil collections for an empty dataset. A (student, week) pair with no
// record is reported as an implicit absence with zero participation.
package analytics
