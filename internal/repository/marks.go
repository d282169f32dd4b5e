package repository

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stemsi/attendance-dashboard/internal/model"
)

var weekNumberPattern = regexp.MustCompile(`(?i)week\s*(\d+)`)

// CountParticipation counts the '#' marks in a cell, one per contribution.
func CountParticipation(v string) int {
	return strings.Count(v, "#")
}

// ParseMark maps a raw cell to an attendance status.
// Precedence is Excused > Present > Absent; empty and unknown marks are Absent.
func ParseMark(v string) model.AttendanceStatus {
	s := strings.TrimSpace(v)
	if s == "" {
		return model.StatusAbsent
	}
	upper := strings.ToUpper(s)

	if strings.Contains(s, "$") || upper == "E" || strings.Contains(upper, "EXCUSED") {
		return model.StatusExcused
	}
	if strings.ContainsAny(s, "*✓✔#") || upper == "P" || strings.Contains(upper, "PRESENT") {
		return model.StatusPresent
	}
	return model.StatusAbsent
}

// WeekNumber extracts N from labels like "Week N (9/11)". Returns 0 when absent.
func WeekNumber(label string) int {
	m := weekNumberPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// DateFromLabel returns the parenthesised part of "Week 2 (9/11)".
func DateFromLabel(label string) string {
	open := strings.LastIndex(label, "(")
	if open < 0 {
		return ""
	}
	end := strings.Index(label[open:], ")")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(label[open+1 : open+end])
}
