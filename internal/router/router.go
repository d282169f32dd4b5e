package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/attendance-dashboard/internal/config"
	"github.com/stemsi/attendance-dashboard/internal/handler"
	"github.com/stemsi/attendance-dashboard/internal/middleware"
	"github.com/stemsi/attendance-dashboard/internal/response"
	"github.com/stemsi/attendance-dashboard/internal/web"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Dataset   *handler.DatasetHandler
	Dashboard *handler.DashboardHandler
	Chart     *handler.ChartHandler
	Report    *handler.ReportHandler
	Page      *handler.PageHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.SetHTMLTemplate(template.Must(web.Templates()))

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID", "If-None-Match"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "ETag", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally; PNG and PDF routes are skipped inside.
	router.Use(middleware.Brotli())

	// Stylesheet, cached for a day.
	static := router.Group("/static")
	static.Use(middleware.CacheControl(86400))
	{
		static.StaticFS("/", http.FS(web.Static()))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. HTML Pages ─────────────────────────────────────────────────
	pages := router.Group("/")
	pages.Use(middleware.NoStore())
	{
		pages.GET("/", handlers.Page.Overview)
		pages.GET("/student", handlers.Page.Student)
		pages.GET("/week", handlers.Page.Week)
		pages.POST("/refresh", handlers.Page.Refresh)
	}

	// ─── 2. Charts (ETag by dataset version) ───────────────────────────
	charts := router.Group("/charts")
	{
		charts.GET("/leaderboard.png", handlers.Chart.Leaderboard)
		charts.GET("/weekly-average.png", handlers.Chart.WeeklyAverage)
		charts.GET("/attendance.png", handlers.Chart.Attendance)
		charts.GET("/student/trend.png", handlers.Chart.StudentTrend)
		charts.GET("/student/attendance.png", handlers.Chart.StudentAttendance)
		charts.GET("/week/participation.png", handlers.Chart.WeekParticipation)
		charts.GET("/week/attendance.png", handlers.Chart.WeekAttendance)
	}

	// Rate limiter for PDF exports (per IP, per minute).
	exportLimiter := middleware.NewRateLimiter(cfg.ExportRatePerMinute, time.Minute)

	// ─── 3. JSON API ───────────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.NoStore())
	{
		api.GET("/dataset", handlers.Dataset.GetDataset)
		api.POST("/dataset/refresh", handlers.Dataset.Refresh)

		api.GET("/overview", handlers.Dashboard.GetOverview)
		api.GET("/leaderboard", handlers.Dashboard.GetLeaderboard)

		api.GET("/students", handlers.Dashboard.ListStudents)
		api.GET("/students/detail", handlers.Dashboard.GetStudentDetail)
		api.GET("/students/report.pdf", exportLimiter.Middleware(), handlers.Report.StudentReport)

		api.GET("/weeks", handlers.Dashboard.ListWeeks)
		api.GET("/weeks/detail", handlers.Dashboard.GetWeekDetail)
	}

	router.NoRoute(handlers.Page.NotFound)

	return router
}
