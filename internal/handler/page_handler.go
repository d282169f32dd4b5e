package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/config"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"github.com/stemsi/attendance-dashboard/internal/response"
	"github.com/stemsi/attendance-dashboard/internal/service"
)

// PageHandler renders the HTML dashboard.
type PageHandler struct {
	dashboardService *service.DashboardService
	title            string
	theme            config.Theme
	log              zerolog.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(dashboardService *service.DashboardService, cfg *config.Config, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		dashboardService: dashboardService,
		title:            cfg.DashboardTitle,
		theme:            cfg.Theme,
		log:              log.With().Str("component", "page_handler").Logger(),
	}
}

func (h *PageHandler) page(c *gin.Context, active string) gin.H {
	return gin.H{
		"Title":  h.title,
		"Theme":  h.theme,
		"Active": active,
		"Path":   c.Request.URL.RequestURI(),
	}
}

// Overview godoc
// GET /?metric=
func (h *PageHandler) Overview(c *gin.Context) {
	var q model.LeaderboardQuery
	// Unknown metrics fall back to score instead of failing the page.
	_ = c.ShouldBindQuery(&q)
	metric := q.Metric
	if metric == "" {
		metric = model.MetricScore
	}

	data, err := h.dashboardService.GetDashboardData(c.Request.Context(), metric)
	if err != nil {
		h.renderError(c, "overview", err)
		return
	}

	p := h.page(c, "overview")
	p["Dataset"] = data.Dataset
	p["Data"] = data
	p["Metric"] = data.Leaderboard.Metric
	c.HTML(http.StatusOK, "overview.html", p)
}

// Student godoc
// GET /student?student=
// Without a student the first enrolled student is shown.
func (h *PageHandler) Student(c *gin.Context) {
	ctx := c.Request.Context()

	info, err := h.dashboardService.Dataset(ctx)
	if err != nil {
		h.renderError(c, "student", err)
		return
	}
	students, err := h.dashboardService.Students(ctx)
	if err != nil {
		h.renderError(c, "student", err)
		return
	}

	student := strings.TrimSpace(c.Query("student"))
	if student == "" && len(students) > 0 {
		student = students[0]
	}

	var detail model.StudentDetail
	if student != "" {
		detail, err = h.dashboardService.StudentDetail(ctx, student)
		if err != nil {
			h.renderError(c, "student", err)
			return
		}
	}

	p := h.page(c, "student")
	p["Dataset"] = info
	p["Students"] = students
	p["Student"] = student
	p["Detail"] = detail
	c.HTML(http.StatusOK, "student.html", p)
}

// Week godoc
// GET /week?week=&participants_only=
// Without a week the first week is shown; participants_only defaults to true.
func (h *PageHandler) Week(c *gin.Context) {
	ctx := c.Request.Context()

	var q model.WeekQuery
	// A malformed participants_only keeps the default instead of failing the page.
	_ = c.ShouldBindQuery(&q)

	info, err := h.dashboardService.Dataset(ctx)
	if err != nil {
		h.renderError(c, "week", err)
		return
	}
	weeks, err := h.dashboardService.Weeks(ctx)
	if err != nil {
		h.renderError(c, "week", err)
		return
	}

	week := strings.TrimSpace(q.Week)
	if week == "" && len(weeks) > 0 {
		week = weeks[0].Label
	}

	summary, err := h.dashboardService.WeekDetail(ctx, week, q.OnlyParticipants())
	if err != nil {
		h.renderError(c, "week", err)
		return
	}

	p := h.page(c, "week")
	p["Dataset"] = info
	p["Weeks"] = weeks
	p["Week"] = summary
	c.HTML(http.StatusOK, "week.html", p)
}

// Refresh godoc
// POST /refresh
// Reloads the workbook and redirects back to the page the button was on.
func (h *PageHandler) Refresh(c *gin.Context) {
	if _, err := h.dashboardService.Refresh(c.Request.Context()); err != nil {
		h.renderError(c, "", err)
		return
	}
	c.Redirect(http.StatusSeeOther, safeRedirect(c.PostForm("next")))
}

// NotFound answers unknown routes with JSON under /api and HTML elsewhere.
func (h *PageHandler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	p := h.page(c, "")
	p["Status"] = http.StatusNotFound
	p["Code"] = response.ErrNotFound
	p["Message"] = response.GetMessage(response.ErrNotFound)
	p["RequestID"] = response.RequestID(c)
	c.HTML(http.StatusNotFound, "error.html", p)
}

func (h *PageHandler) renderError(c *gin.Context, active string, err error) {
	f := classify(err)
	event := h.log.Warn()
	if f.status >= http.StatusInternalServerError {
		event = h.log.Error()
	}
	event.Err(err).
		Str("request_id", response.RequestID(c)).
		Str("path", c.Request.URL.Path).
		Str("code", string(f.code)).
		Msg("Page failed")

	p := h.page(c, active)
	p["Status"] = f.status
	p["Code"] = f.code
	p["Message"] = response.GetMessage(f.code)
	p["Fields"] = f.fields
	p["RequestID"] = response.RequestID(c)
	c.HTML(f.status, "error.html", p)
}

// safeRedirect only follows local paths.
func safeRedirect(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
