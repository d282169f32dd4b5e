package service

import (
	"context"

	"github.com/stemsi/attendance-dashboard/internal/analytics"
	"github.com/stemsi/attendance-dashboard/internal/model"
)

// DashboardData consolidates everything shown on the overview page.
type DashboardData struct {
	Dataset     model.DatasetInfo `json:"dataset"`
	Overview    model.Overview    `json:"overview"`
	Leaderboard model.Leaderboard `json:"leaderboard"`
}

// DashboardService answers the dashboard views from the current table.
type DashboardService struct {
	datasets *DatasetService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(datasets *DatasetService) *DashboardService {
	return &DashboardService{datasets: datasets}
}

// GetDashboardData builds the overview page in one pass over a single table version.
func (s *DashboardService) GetDashboardData(ctx context.Context, metric model.LeaderboardMetric) (*DashboardData, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardData{
		Dataset:     t.Info(),
		Overview:    analytics.Overview(t),
		Leaderboard: analytics.Leaderboard(t, metric),
	}, nil
}

// Dataset describes the currently loaded table.
func (s *DashboardService) Dataset(ctx context.Context) (model.DatasetInfo, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return model.DatasetInfo{}, err
	}
	return t.Info(), nil
}

// Refresh reloads the workbook and describes the new table.
func (s *DashboardService) Refresh(ctx context.Context) (model.DatasetInfo, error) {
	t, err := s.datasets.Refresh(ctx)
	if err != nil {
		return model.DatasetInfo{}, err
	}
	return t.Info(), nil
}

func (s *DashboardService) Overview(ctx context.Context) (model.Overview, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return model.Overview{}, err
	}
	return analytics.Overview(t), nil
}

func (s *DashboardService) Leaderboard(ctx context.Context, metric model.LeaderboardMetric) (model.Leaderboard, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return model.Leaderboard{}, err
	}
	return analytics.Leaderboard(t, metric), nil
}

// Students lists enrolled students in name order.
func (s *DashboardService) Students(ctx context.Context) ([]string, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return nil, err
	}
	return t.Students, nil
}

// Weeks lists the weeks in chronological order.
func (s *DashboardService) Weeks(ctx context.Context) ([]model.WeekInfo, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return nil, err
	}
	return t.Weeks, nil
}

func (s *DashboardService) StudentDetail(ctx context.Context, student string) (model.StudentDetail, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return model.StudentDetail{}, err
	}
	return analytics.StudentDetail(t, student), nil
}

func (s *DashboardService) WeekDetail(ctx context.Context, week string, participantsOnly bool) (model.WeekSummary, error) {
	t, err := s.datasets.Table(ctx)
	if err != nil {
		return model.WeekSummary{}, err
	}
	return analytics.WeekDetail(t, week, participantsOnly), nil
}
