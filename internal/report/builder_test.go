package report

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stemsi/attendance-dashboard/internal/chart"
	"github.com/stemsi/attendance-dashboard/internal/config"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detail(weeks int) model.StudentDetail {
	d := model.StudentDetail{
		Student:  "A",
		Enrolled: true,
		AttendanceCounts: map[model.AttendanceStatus]int{
			model.StatusPresent: weeks,
		},
		Summary: model.StudentSummary{Student: "A", WeeksTotal: weeks},
	}
	for w := 1; w <= weeks; w++ {
		label := "Week " + strconv.Itoa(w)
		d.Records = append(d.Records, model.AttendanceRecord{Student: "A", Week: label, WeekNumber: w, Participation: 1, Score: 2, Status: model.StatusPresent})
		d.Trend = append(d.Trend, model.TrendPoint{
			Week:          label,
			WeekNumber:    w,
			Topic:         "A deliberately long topic name that will not fit inside its column",
			Participation: 1,
			Score:         2,
			Status:        model.StatusPresent,
		})
		d.Summary.TotalParticipation++
		d.Summary.TotalScore += 2
	}
	d.Summary.WeeksSpoken = weeks
	d.Summary.Rating = 100
	d.AveragePerWeek = 1
	return d
}

func build(t *testing.T, doc Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewBuilder(config.DefaultTheme()).Build(&buf, doc))
	return buf.Bytes()
}

func TestBuildWritesPDF(t *testing.T) {
	out := build(t, Document{
		Title:       "Healthcare Class",
		Dataset:     model.DatasetInfo{Source: "/data/American_Healthcare_Class_Cleaned.xlsx"},
		Detail:      detail(2),
		GeneratedAt: time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC),
	})

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestBuildWithCharts(t *testing.T) {
	r, err := chart.NewRenderer(config.DefaultTheme())
	require.NoError(t, err)

	d := detail(3)
	trend, err := r.StudentTrend(d)
	require.NoError(t, err)
	pie, err := r.Attendance("Attendance", d.AttendanceCounts)
	require.NoError(t, err)

	out := build(t, Document{
		Title:  "Healthcare Class",
		Detail: d,
		Charts: []Chart{
			{Caption: "Participation over time", PNG: trend},
			{Caption: "Attendance", PNG: pie},
			{Caption: "skipped"},
		},
		GeneratedAt: time.Now(),
	})
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestBuildStudentWithoutRecords(t *testing.T) {
	out := build(t, Document{
		Title:       "Healthcare Class",
		Detail:      model.StudentDetail{Student: "Nobody"},
		GeneratedAt: time.Now(),
	})
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestBuildPaginatesLongTables(t *testing.T) {
	short := build(t, Document{Title: "Class", Detail: detail(2), GeneratedAt: time.Now()})
	long := build(t, Document{Title: "Class", Detail: detail(60), GeneratedAt: time.Now()})

	assert.Greater(t, len(long), len(short))
}

func TestBuildRejectsCorruptChart(t *testing.T) {
	var buf bytes.Buffer
	err := NewBuilder(config.DefaultTheme()).Build(&buf, Document{
		Title:  "Class",
		Detail: detail(1),
		Charts: []Chart{{Caption: "broken", PNG: []byte("not a png")}},
	})
	assert.Error(t, err)
}
