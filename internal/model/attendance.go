package model

import (
	"time"
)

// AttendanceStatus enumerates how a student attended a class session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
	StatusExcused AttendanceStatus = "Excused"
)

// AllStatuses lists statuses in display order.
var AllStatuses = []AttendanceStatus{StatusPresent, StatusExcused, StatusAbsent}

// Layout describes how the source sheet was arranged.
type Layout string

const (
	// LayoutLong has one row per (student, week).
	LayoutLong Layout = "long"
	// LayoutWide has one row per student and one column per week.
	LayoutWide Layout = "wide"
)

// AttendanceRecord is one (student, week) row as loaded from the workbook.
type AttendanceRecord struct {
	Student       string           `json:"student"`
	Week          string           `json:"week"`
	WeekNumber    int              `json:"week_number"`
	Date          string           `json:"date,omitempty"`
	Topic         string           `json:"topic,omitempty"`
	Participation int              `json:"participation"`
	Score         float64          `json:"score"`
	Status        AttendanceStatus `json:"status"`
	Note          string           `json:"note,omitempty"`
	Row           int              `json:"row"`
}

// WeekInfo describes one class session.
type WeekInfo struct {
	Label  string `json:"label"`
	Number int    `json:"number"`
	Date   string `json:"date,omitempty"`
	Topic  string `json:"topic,omitempty"`
}

// Table is the immutable in-memory dataset produced by one load.
type Table struct {
	Records  []AttendanceRecord `json:"records"`
	Students []string           `json:"students"`
	Weeks    []WeekInfo         `json:"weeks"`
	Source   string             `json:"source"`
	Sheet    string             `json:"sheet"`
	Layout   Layout             `json:"layout"`
	Version  string             `json:"version"`
	LoadedAt time.Time          `json:"loaded_at"`
}

// Week returns the week with the given label.
func (t *Table) Week(label string) (WeekInfo, bool) {
	for _, w := range t.Weeks {
		if w.Label == label {
			return w, true
		}
	}
	return WeekInfo{}, false
}

// HasStudent reports whether the student is enrolled in the table.
func (t *Table) HasStudent(name string) bool {
	for _, s := range t.Students {
		if s == name {
			return true
		}
	}
	return false
}

// DatasetInfo is the public description of the currently loaded table.
type DatasetInfo struct {
	Source   string    `json:"source"`
	Sheet    string    `json:"sheet"`
	Layout   Layout    `json:"layout"`
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  int       `json:"records"`
	Students int       `json:"students"`
	Weeks    int       `json:"weeks"`
}

// Info summarises the table without its records.
func (t *Table) Info() DatasetInfo {
	return DatasetInfo{
		Source:   t.Source,
		Sheet:    t.Sheet,
		Layout:   t.Layout,
		Version:  t.Version,
		LoadedAt: t.LoadedAt,
		Records:  len(t.Records),
		Students: len(t.Students),
		Weeks:    len(t.Weeks),
	}
}
