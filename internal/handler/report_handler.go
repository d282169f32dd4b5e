package handler

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"github.com/stemsi/attendance-dashboard/internal/response"
	"github.com/stemsi/attendance-dashboard/internal/service"
	"github.com/stemsi/attendance-dashboard/internal/validator"
)

// ReportHandler serves the per-student PDF export.
type ReportHandler struct {
	reportService *service.ReportService
	log           zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		log:           log.With().Str("component", "report_handler").Logger(),
	}
}

// StudentReport godoc
// GET /api/v1/students/report.pdf?student=
// Streams the By Student view as an A4 PDF attachment.
func (h *ReportHandler) StudentReport(c *gin.Context) {
	var q model.StudentQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	pdf, err := h.reportService.StudentReport(c.Request.Context(), q.Student)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ReportFilename(q.Student)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ReportFilename turns a student name into a safe attachment name.
func ReportFilename(student string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(student, "_"), "_.")
	if name == "" {
		name = "student"
	}
	return name + "_participation_report.pdf"
}
