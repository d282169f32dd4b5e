package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/chart"
	"github.com/stemsi/attendance-dashboard/internal/middleware"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"github.com/stemsi/attendance-dashboard/internal/response"
	"github.com/stemsi/attendance-dashboard/internal/service"
	"github.com/stemsi/attendance-dashboard/internal/validator"
)

// ChartHandler serves the dashboard charts as PNG images.
type ChartHandler struct {
	chartService *service.ChartService
	log          zerolog.Logger
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(chartService *service.ChartService, log zerolog.Logger) *ChartHandler {
	return &ChartHandler{
		chartService: chartService,
		log:          log.With().Str("component", "chart_handler").Logger(),
	}
}

// serve answers 304 when the client holds the current table version, 204
// when there is nothing to draw, and the PNG otherwise. The PNG is tagged
// with the version it was drawn from, which differs from the checked one when
// the table reloads in between.
func (h *ChartHandler) serve(c *gin.Context, draw func(ctx context.Context) (*service.Image, error)) {
	ctx := c.Request.Context()

	version, err := h.chartService.Version(ctx)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	if middleware.NotModified(c, version) {
		return
	}

	img, err := draw(ctx)
	if errors.Is(err, chart.ErrNoData) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		fail(c, h.log, err)
		return
	}
	middleware.SetETag(c, img.Version)
	c.Data(http.StatusOK, "image/png", img.PNG)
}

// Leaderboard godoc
// GET /charts/leaderboard.png?metric=
func (h *ChartHandler) Leaderboard(c *gin.Context) {
	var q model.LeaderboardQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.serve(c, func(ctx context.Context) (*service.Image, error) {
		return h.chartService.Leaderboard(ctx, q.Metric)
	})
}

// WeeklyAverage godoc
// GET /charts/weekly-average.png
func (h *ChartHandler) WeeklyAverage(c *gin.Context) {
	h.serve(c, h.chartService.WeeklyAverage)
}

// Attendance godoc
// GET /charts/attendance.png
func (h *ChartHandler) Attendance(c *gin.Context) {
	h.serve(c, h.chartService.Attendance)
}

// StudentTrend godoc
// GET /charts/student/trend.png?student=
func (h *ChartHandler) StudentTrend(c *gin.Context) {
	var q model.StudentQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.serve(c, func(ctx context.Context) (*service.Image, error) {
		return h.chartService.StudentTrend(ctx, q.Student)
	})
}

// StudentAttendance godoc
// GET /charts/student/attendance.png?student=
func (h *ChartHandler) StudentAttendance(c *gin.Context) {
	var q model.StudentQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.serve(c, func(ctx context.Context) (*service.Image, error) {
		return h.chartService.StudentAttendance(ctx, q.Student)
	})
}

// WeekParticipation godoc
// GET /charts/week/participation.png?week=&participants_only=
func (h *ChartHandler) WeekParticipation(c *gin.Context) {
	var q model.WeekQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.serve(c, func(ctx context.Context) (*service.Image, error) {
		return h.chartService.WeekParticipation(ctx, q.Week, q.OnlyParticipants())
	})
}

// WeekAttendance godoc
// GET /charts/week/attendance.png?week=
func (h *ChartHandler) WeekAttendance(c *gin.Context) {
	var q model.WeekQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.serve(c, func(ctx context.Context) (*service.Image, error) {
		return h.chartService.WeekAttendance(ctx, q.Week)
	})
}
