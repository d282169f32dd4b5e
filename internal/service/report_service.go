package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/analytics"
	"github.com/stemsi/attendance-dashboard/internal/chart"
	"github.com/stemsi/attendance-dashboard/internal/report"
)

// ErrExportFailed wraps any failure while rendering a report.
var ErrExportFailed = errors.New("export failed")

// ReportService exports the By Student view as a PDF.
type ReportService struct {
	datasets *DatasetService
	renderer *chart.Renderer
	builder  *report.Builder
	title    string
	now      func() time.Time
	log      zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(datasets *DatasetService, renderer *chart.Renderer, builder *report.Builder, title string, log zerolog.Logger) *ReportService {
	return &ReportService{
		datasets: datasets,
		renderer: renderer,
		builder:  builder,
		title:    title,
		now:      time.Now,
		log:      log.With().Str("component", "report_service").Logger(),
	}
}

// StudentReport renders the PDF for student. Students without records still
// get a document that says so.
func (s *ReportService) StudentReport(ctx context.Context, student string) ([]byte, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return nil, err
	}
	d := analytics.StudentDetail(t, student)

	doc := report.Document{
		Title:       s.title,
		Dataset:     t.Info(),
		Detail:      d,
		GeneratedAt: s.now(),
	}

	charts := []struct {
		caption string
		draw    func() ([]byte, error)
	}{
		{"Participation over time", func() ([]byte, error) { return s.renderer.StudentTrend(d) }},
		{"Attendance", func() ([]byte, error) { return s.renderer.Attendance("Attendance - "+student, d.AttendanceCounts) }},
	}
	if len(d.Records) == 0 {
		charts = nil
	}
	for _, c := range charts {
		png, err := c.draw()
		if errors.Is(err, chart.ErrNoData) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s chart: %v", ErrExportFailed, c.caption, err)
		}
		doc.Charts = append(doc.Charts, report.Chart{Caption: c.caption, PNG: png})
	}

	var buf bytes.Buffer
	if err := s.builder.Build(&buf, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	s.log.Info().
		Str("student", student).
		Bool("enrolled", d.Enrolled).
		Int("bytes", buf.Len()).
		Msg("Student report exported")
	return buf.Bytes(), nil
}
