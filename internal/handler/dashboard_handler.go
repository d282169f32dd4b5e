package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"github.com/stemsi/attendance-dashboard/internal/response"
	"github.com/stemsi/attendance-dashboard/internal/service"
	"github.com/stemsi/attendance-dashboard/internal/validator"
)

// DashboardHandler serves the aggregated views as JSON.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	log              zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log.With().Str("component", "dashboard_handler").Logger(),
	}
}

// GetOverview godoc
// GET /api/v1/overview
// Returns class totals, weekly averages and the attendance breakdown.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	overview, err := h.dashboardService.Overview(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, overview)
}

// GetLeaderboard godoc
// GET /api/v1/leaderboard?metric=score|participation|rating
func (h *DashboardHandler) GetLeaderboard(c *gin.Context) {
	var q model.LeaderboardQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	lb, err := h.dashboardService.Leaderboard(c.Request.Context(), q.Metric)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, lb)
}

// ListStudents godoc
// GET /api/v1/students
func (h *DashboardHandler) ListStudents(c *gin.Context) {
	students, err := h.dashboardService.Students(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// GetStudentDetail godoc
// GET /api/v1/students/detail?student=
// Unknown students yield an empty view with enrolled=false.
func (h *DashboardHandler) GetStudentDetail(c *gin.Context) {
	var q model.StudentQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	detail, err := h.dashboardService.StudentDetail(c.Request.Context(), q.Student)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// ListWeeks godoc
// GET /api/v1/weeks
func (h *DashboardHandler) ListWeeks(c *gin.Context) {
	weeks, err := h.dashboardService.Weeks(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"weeks": weeks})
}

// GetWeekDetail godoc
// GET /api/v1/weeks/detail?week=&participants_only=true|false
func (h *DashboardHandler) GetWeekDetail(c *gin.Context) {
	var q model.WeekQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	week, err := h.dashboardService.WeekDetail(c.Request.Context(), q.Week, q.OnlyParticipants())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, week)
}
