package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/response"
	"github.com/stemsi/attendance-dashboard/internal/service"
)

// DatasetHandler exposes the loaded table and the refresh action.
type DatasetHandler struct {
	dashboardService *service.DashboardService
	log              zerolog.Logger
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(dashboardService *service.DashboardService, log zerolog.Logger) *DatasetHandler {
	return &DatasetHandler{
		dashboardService: dashboardService,
		log:              log.With().Str("component", "dataset_handler").Logger(),
	}
}

// GetDataset godoc
// GET /api/v1/dataset
// Describes the workbook currently served: path, sheet, layout, version and sizes.
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	info, err := h.dashboardService.Dataset(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

// Refresh godoc
// POST /api/v1/dataset/refresh
// Drops the cached table and re-reads the workbook.
func (h *DatasetHandler) Refresh(c *gin.Context) {
	info, err := h.dashboardService.Refresh(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}
