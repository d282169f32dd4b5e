package repository

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/stemsi/attendance-dashboard/internal/model"
)

// headerScanRows bounds the search for the header row.
const headerScanRows = 20

// ParsedSheet is the outcome of ParseRows before table metadata is attached.
type ParsedSheet struct {
	Layout   model.Layout
	Records  []model.AttendanceRecord
	Students []string
	Weeks    []model.WeekInfo
}

// ParseRows turns raw sheet rows into attendance records. It detects the header
// row, validates the schema once and pivots wide sheets into one record per
// (student, week).
func ParseRows(sheet string, rows [][]string) (*ParsedSheet, error) {
	if len(rows) == 0 {
		return &ParsedSheet{Layout: model.LayoutLong, Records: []model.AttendanceRecord{}, Students: []string{}, Weeks: []model.WeekInfo{}}, nil
	}

	headerIdx := detectHeaderRow(rows)
	header := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		header[i] = normalizeHeader(h)
	}
	body := rows[headerIdx+1:]

	schema, missing := ResolveSchema(header)

	var (
		records []model.AttendanceRecord
		layout  model.Layout
		err     error
	)
	switch {
	case schema.Week >= 0:
		if len(missing) > 0 {
			return nil, &SchemaError{Sheet: sheet, Missing: missing, Found: nonEmpty(header)}
		}
		layout = model.LayoutLong
		records, err = parseLong(schema, body, headerIdx)
	case len(weekColumns(header)) > 0:
		layout = model.LayoutWide
		records = parseWide(header, body, headerIdx)
	default:
		if len(missing) == 0 {
			missing = []string{string(ColWeek)}
		}
		return nil, &SchemaError{Sheet: sheet, Missing: missing, Found: nonEmpty(header)}
	}
	if err != nil {
		return nil, err
	}

	return &ParsedSheet{
		Layout:   layout,
		Records:  records,
		Students: collectStudents(records),
		Weeks:    collectWeeks(records),
	}, nil
}

// detectHeaderRow returns the first row naming a week column. Title rows with
// a single filled cell are skipped even when they mention a week.
func detectHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		if len(nonEmpty(rows[i])) < 2 {
			continue
		}
		for _, c := range rows[i] {
			if strings.Contains(strings.ToLower(c), "week") {
				return i
			}
		}
	}
	return 0
}

func weekColumns(header []string) []int {
	var cols []int
	for i, h := range header {
		if i == 0 {
			continue
		}
		if strings.Contains(strings.ToLower(h), "week") {
			cols = append(cols, i)
		}
	}
	return cols
}

func parseLong(s *Schema, body [][]string, headerIdx int) ([]model.AttendanceRecord, error) {
	records := make([]model.AttendanceRecord, 0, len(body))
	for i, row := range body {
		rowNum := headerIdx + i + 2 // 1-based, after the header row
		student := cell(row, s.Student)
		if student == "" {
			continue
		}

		week := normalizeHeader(cell(row, s.Week))
		if week == "" {
			return nil, &CellError{Row: rowNum, Column: ColWeek, Value: "", Err: errors.New("week is required")}
		}

		rawPart := cell(row, s.Participation)
		participation, err := parseParticipation(rawPart)
		if err != nil {
			return nil, &CellError{Row: rowNum, Column: ColParticipation, Value: rawPart, Err: err}
		}

		score := float64(participation)
		if rawScore := cell(row, s.Score); rawScore != "" {
			v, err := strconv.ParseFloat(rawScore, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &CellError{Row: rowNum, Column: ColScore, Value: rawScore, Err: errors.New("not a number")}
			}
			score = v
		}

		date := cell(row, s.Date)
		if date == "" {
			date = DateFromLabel(week)
		}

		records = append(records, model.AttendanceRecord{
			Student:       student,
			Week:          week,
			WeekNumber:    WeekNumber(week),
			Date:          date,
			Topic:         cell(row, s.Topic),
			Participation: participation,
			Score:         score,
			Status:        ParseMark(cell(row, s.Status)),
			Note:          cell(row, s.Note),
			Row:           rowNum,
		})
	}
	return records, nil
}

// parseParticipation accepts a count, an empty cell (0) or raw '#' marks.
func parseParticipation(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, errors.New("participation must be a non-negative count")
		}
		return int(math.Round(f)), nil
	}
	if n := CountParticipation(v); n > 0 {
		return n, nil
	}
	return 0, errors.New("not a count")
}

func parseWide(header []string, body [][]string, headerIdx int) []model.AttendanceRecord {
	cols := weekColumns(header)
	records := make([]model.AttendanceRecord, 0, len(body)*len(cols))
	for i, row := range body {
		student := cell(row, 0)
		if student == "" {
			continue
		}
		for _, c := range cols {
			label := header[c]
			raw := cell(row, c)
			participation := CountParticipation(raw)
			records = append(records, model.AttendanceRecord{
				Student:       student,
				Week:          label,
				WeekNumber:    WeekNumber(label),
				Date:          DateFromLabel(label),
				Participation: participation,
				Score:         float64(participation),
				Status:        ParseMark(raw),
				Note:          raw,
				Row:           headerIdx + i + 2,
			})
		}
	}
	return records
}

func collectStudents(records []model.AttendanceRecord) []string {
	seen := make(map[string]struct{})
	students := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Student]; ok {
			continue
		}
		seen[r.Student] = struct{}{}
		students = append(students, r.Student)
	}
	sort.Strings(students)
	return students
}

// collectWeeks orders weeks by number, unnumbered weeks last in order of first appearance.
func collectWeeks(records []model.AttendanceRecord) []model.WeekInfo {
	index := make(map[string]int)
	weeks := make([]model.WeekInfo, 0)
	for _, r := range records {
		i, ok := index[r.Week]
		if !ok {
			index[r.Week] = len(weeks)
			weeks = append(weeks, model.WeekInfo{Label: r.Week, Number: r.WeekNumber, Date: r.Date, Topic: r.Topic})
			continue
		}
		if weeks[i].Date == "" {
			weeks[i].Date = r.Date
		}
		if weeks[i].Topic == "" {
			weeks[i].Topic = r.Topic
		}
	}
	sort.SliceStable(weeks, func(a, b int) bool {
		wa, wb := weeks[a].Number, weeks[b].Number
		if wa == 0 || wb == 0 {
			return wa != 0 && wb == 0
		}
		return wa < wb
	})
	return weeks
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
