package repository

import (
	"strings"
)

// Column is a logical column of the cleaned participation sheet.
type Column string

const (
	ColStudent       Column = "student"
	ColWeek          Column = "week"
	ColDate          Column = "date"
	ColTopic         Column = "topic"
	ColParticipation Column = "participation"
	ColScore         Column = "score"
	ColStatus        Column = "status"
	ColNote          Column = "note"
)

// RequiredColumns must all be present in a long-layout sheet.
var RequiredColumns = []Column{ColStudent, ColWeek, ColParticipation, ColStatus}

// columnAliases maps each column to the normalised header spellings accepted for it.
var columnAliases = map[Column][]string{
	ColStudent:       {"student", "student name", "name"},
	ColWeek:          {"week", "week label"},
	ColDate:          {"date"},
	ColTopic:         {"topic"},
	ColParticipation: {"participation", "participation count"},
	ColScore:         {"score", "participation score"},
	ColStatus:        {"status", "attendance", "attendance status"},
	ColNote:          {"note", "notes", "tag"},
}

// Schema holds the header index of every column. Optional columns are -1 when absent.
type Schema struct {
	Student       int
	Week          int
	Date          int
	Topic         int
	Participation int
	Score         int
	Status        int
	Note          int
}

// normalizeHeader trims and collapses inner whitespace.
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ResolveSchema maps a header row onto Schema. It returns the names of the
// required columns that could not be found.
func ResolveSchema(header []string) (*Schema, []string) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(normalizeHeader(h))
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	find := func(col Column) int {
		for _, alias := range columnAliases[col] {
			if i, ok := index[alias]; ok {
				return i
			}
		}
		return -1
	}

	s := &Schema{
		Student:       find(ColStudent),
		Week:          find(ColWeek),
		Date:          find(ColDate),
		Topic:         find(ColTopic),
		Participation: find(ColParticipation),
		Score:         find(ColScore),
		Status:        find(ColStatus),
		Note:          find(ColNote),
	}

	var missing []string
	for _, col := range RequiredColumns {
		if s.index(col) < 0 {
			missing = append(missing, string(col))
		}
	}
	return s, missing
}

func (s *Schema) index(col Column) int {
	switch col {
	case ColStudent:
		return s.Student
	case ColWeek:
		return s.Week
	case ColDate:
		return s.Date
	case ColTopic:
		return s.Topic
	case ColParticipation:
		return s.Participation
	case ColScore:
		return s.Score
	case ColStatus:
		return s.Status
	case ColNote:
		return s.Note
	}
	return -1
}

// cell returns the trimmed value at idx, or "" for absent columns and short rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
