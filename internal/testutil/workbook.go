// Package testutil builds workbook fixtures for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// LongHeader is the column layout of the cleaned participation sheet.
var LongHeader = []interface{}{"Student", "Week", "Date", "Topic", "Participation", "Score", "Attendance"}

// WriteWorkbook saves rows into Sheet1 of a new workbook under dir and returns its path.
func WriteWorkbook(t testing.TB, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		r := row
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cellRef, &r); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// ExampleRows is the two students by two weeks dataset: A present twice
// (score 5, 5), B absent in week 1 (score 0) and present in week 2 (score 3).
func ExampleRows() [][]interface{} {
	return [][]interface{}{
		LongHeader,
		{"A", "Week 1 (9/4)", "9/4", "Overview", 2, 5, "Present"},
		{"A", "Week 2 (9/11)", "9/11", "Patients", 1, 5, "Present"},
		{"B", "Week 1 (9/4)", "9/4", "Overview", 0, 0, "Absent"},
		{"B", "Week 2 (9/11)", "9/11", "Patients", 1, 3, "Present"},
	}
}

// StudentRows generates n students over weeks with a deterministic pattern.
func StudentRows(n, weeks int) [][]interface{} {
	rows := [][]interface{}{LongHeader}
	for s := 0; s < n; s++ {
		for w := 1; w <= weeks; w++ {
			part := (s + w) % 3
			status := "Present"
			if part == 0 {
				status = "Absent"
			}
			rows = append(rows, []interface{}{
				fmt.Sprintf("Student %02d", s+1),
				fmt.Sprintf("Week %d (9/%d)", w, w),
				fmt.Sprintf("9/%d", w),
				"",
				part,
				part * 2,
				status,
			})
		}
	}
	return rows
}
