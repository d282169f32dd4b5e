package service

import (
	"context"

	"github.com/stemsi/attendance-dashboard/internal/analytics"
	"github.com/stemsi/attendance-dashboard/internal/chart"
	"github.com/stemsi/attendance-dashboard/internal/model"
)

// Image is a rendered chart tagged with the table version it was drawn from.
type Image struct {
	PNG     []byte
	Version string
}

// ChartService renders the dashboard charts from the current table.
type ChartService struct {
	datasets *DatasetService
	renderer *chart.Renderer
}

// NewChartService creates a new ChartService.
func NewChartService(datasets *DatasetService, renderer *chart.Renderer) *ChartService {
	return &ChartService{datasets: datasets, renderer: renderer}
}

// Version is the table version every chart is currently drawn from.
func (s *ChartService) Version(ctx context.Context) (string, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return "", err
	}
	return t.Version, nil
}

func (s *ChartService) draw(ctx context.Context, fn func(*model.Table) ([]byte, error)) (*Image, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return nil, err
	}
	png, err := fn(t)
	if err != nil {
		return nil, err
	}
	return &Image{PNG: png, Version: t.Version}, nil
}

func (s *ChartService) Leaderboard(ctx context.Context, metric model.LeaderboardMetric) (*Image, error) {
	return s.draw(ctx, func(t *model.Table) ([]byte, error) {
		return s.renderer.Leaderboard(analytics.Leaderboard(t, metric))
	})
}

func (s *ChartService) WeeklyAverage(ctx context.Context) (*Image, error) {
	return s.draw(ctx, func(t *model.Table) ([]byte, error) {
		return s.renderer.WeeklyAverage(analytics.Overview(t))
	})
}

// Attendance draws the class-wide attendance pie.
func (s *ChartService) Attendance(ctx context.Context) (*Image, error) {
	return s.draw(ctx, func(t *model.Table) ([]byte, error) {
		return s.renderer.Attendance("Class Attendance", analytics.Overview(t).AttendanceCounts)
	})
}

func (s *ChartService) StudentTrend(ctx context.Context, student string) (*Image, error) {
	return s.draw(ctx, func(t *model.Table) ([]byte, error) {
		return s.renderer.StudentTrend(analytics.StudentDetail(t, student))
	})
}

func (s *ChartService) StudentAttendance(ctx context.Context, student string) (*Image, error) {
	return s.draw(ctx, func(t *model.Table) ([]byte, error) {
		d := analytics.StudentDetail(t, student)
		if !d.Enrolled {
			return nil, chart.ErrNoData
		}
		return s.renderer.Attendance("Attendance - "+student, d.AttendanceCounts)
	})
}

func (s *ChartService) WeekParticipation(ctx context.Context, week string, participantsOnly bool) (*Image, error) {
	return s.draw(ctx, func(t *model.Table) ([]byte, error) {
		return s.renderer.WeekParticipation(analytics.WeekDetail(t, week, participantsOnly))
	})
}

func (s *ChartService) WeekAttendance(ctx context.Context, week string) (*Image, error) {
	return s.draw(ctx, func(t *model.Table) ([]byte, error) {
		w := analytics.WeekDetail(t, week, false)
		if !w.Found {
			return nil, chart.ErrNoData
		}
		return s.renderer.Attendance("Attendance - "+week, w.AttendanceCounts)
	})
}
