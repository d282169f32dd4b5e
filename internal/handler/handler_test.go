package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-dashboard/internal/cache"
	"github.com/stemsi/attendance-dashboard/internal/chart"
	"github.com/stemsi/attendance-dashboard/internal/config"
	"github.com/stemsi/attendance-dashboard/internal/handler"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"github.com/stemsi/attendance-dashboard/internal/report"
	"github.com/stemsi/attendance-dashboard/internal/repository"
	"github.com/stemsi/attendance-dashboard/internal/response"
	"github.com/stemsi/attendance-dashboard/internal/router"
	"github.com/stemsi/attendance-dashboard/internal/service"
	"github.com/stemsi/attendance-dashboard/internal/testutil"
	"github.com/stemsi/attendance-dashboard/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

func newServer(t *testing.T, dataFile string, exportRate int) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		GinMode:             gin.TestMode,
		DashboardTitle:      "Healthcare Class",
		DataFile:            dataFile,
		CacheTTL:            time.Minute,
		ExportRatePerMinute: exportRate,
		Theme:               config.DefaultTheme(),
	}
	log := zerolog.Nop()

	renderer, err := chart.NewRenderer(cfg.Theme)
	require.NoError(t, err)

	datasets := service.NewDatasetService(
		repository.NewWorkbookRepository(cfg.DataFile, "", log),
		cache.NewMemoryStore(cfg.CacheTTL),
		log,
	)
	dashboard := service.NewDashboardService(datasets)

	return router.SetupRouter(&router.Handlers{
		Dataset:   handler.NewDatasetHandler(dashboard, log),
		Dashboard: handler.NewDashboardHandler(dashboard, log),
		Chart:     handler.NewChartHandler(service.NewChartService(datasets, renderer), log),
		Report:    handler.NewReportHandler(service.NewReportService(datasets, renderer, report.NewBuilder(cfg.Theme), cfg.DashboardTitle, log), log),
		Page:      handler.NewPageHandler(dashboard, cfg, log),
	}, cfg)
}

func exampleServer(t *testing.T) *gin.Engine {
	t.Helper()
	path := testutil.WriteWorkbook(t, t.TempDir(), "participation.xlsx", testutil.ExampleRows())
	return newServer(t, path, 20)
}

func do(r http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorBody `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) *response.ErrorBody {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if dst != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, dst))
	}
	return env.Error
}

func TestLeaderboardEndpoint(t *testing.T) {
	r := exampleServer(t)

	w := do(r, http.MethodGet, "/api/v1/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lb model.Leaderboard
	require.Nil(t, decode(t, w, &lb))
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, model.MetricScore, lb.Metric)
	assert.Equal(t, "A", lb.Entries[0].Student)
	assert.Equal(t, 10.0, lb.Entries[0].TotalScore)
	assert.Equal(t, "B", lb.Entries[1].Student)
	assert.Equal(t, 3.0, lb.Entries[1].TotalScore)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestLeaderboardRejectsUnknownMetric(t *testing.T) {
	w := do(exampleServer(t), http.MethodGet, "/api/v1/leaderboard?metric=height", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w, nil)
	require.NotNil(t, body)
	assert.Equal(t, response.ErrValidation, body.Code)
	assert.Contains(t, body.Fields, "metric")
}

func TestStudentDetailEndpoint(t *testing.T) {
	r := exampleServer(t)

	w := do(r, http.MethodGet, "/api/v1/students/detail?student=B", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var d model.StudentDetail
	require.Nil(t, decode(t, w, &d))
	assert.True(t, d.Enrolled)
	assert.Len(t, d.Records, 2)
	assert.Equal(t, 1, d.AttendanceCounts[model.StatusAbsent])

	w = do(r, http.MethodGet, "/api/v1/students/detail?student=Nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var empty model.StudentDetail
	require.Nil(t, decode(t, w, &empty))
	assert.False(t, empty.Enrolled)
	assert.Empty(t, empty.Records)

	w = do(r, http.MethodGet, "/api/v1/students/detail", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeekDetailEndpoint(t *testing.T) {
	r := exampleServer(t)
	week := url.QueryEscape("Week 1 (9/4)")

	w := do(r, http.MethodGet, "/api/v1/weeks/detail?week="+week, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var only model.WeekSummary
	require.Nil(t, decode(t, w, &only))
	assert.True(t, only.ParticipantsOnly)
	require.Len(t, only.Entries, 1)
	assert.Equal(t, "A", only.Entries[0].Student)

	w = do(r, http.MethodGet, "/api/v1/weeks/detail?participants_only=false&week="+week, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all model.WeekSummary
	require.Nil(t, decode(t, w, &all))
	assert.Len(t, all.Entries, 2)
}

func TestListEndpoints(t *testing.T) {
	r := exampleServer(t)

	w := do(r, http.MethodGet, "/api/v1/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var students struct {
		Students []string `json:"students"`
	}
	require.Nil(t, decode(t, w, &students))
	assert.Equal(t, []string{"A", "B"}, students.Students)

	w = do(r, http.MethodGet, "/api/v1/weeks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var weeks struct {
		Weeks []model.WeekInfo `json:"weeks"`
	}
	require.Nil(t, decode(t, w, &weeks))
	require.Len(t, weeks.Weeks, 2)
	assert.Equal(t, 1, weeks.Weeks[0].Number)

	w = do(r, http.MethodGet, "/api/v1/overview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview model.Overview
	require.Nil(t, decode(t, w, &overview))
	assert.Equal(t, 4, overview.TotalParticipation)
}

func TestDatasetRefreshPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWorkbook(t, dir, "participation.xlsx", testutil.ExampleRows())
	r := newServer(t, path, 20)

	w := do(r, http.MethodGet, "/api/v1/dataset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var before model.DatasetInfo
	require.Nil(t, decode(t, w, &before))
	assert.Equal(t, 2, before.Students)
	assert.Equal(t, model.LayoutLong, before.Layout)

	rows := append(testutil.ExampleRows(), []interface{}{"C", "Week 2 (9/11)", "9/11", "Patients", 3, 9, "Present"})
	testutil.WriteWorkbook(t, dir, "participation.xlsx", rows)

	w = do(r, http.MethodPost, "/api/v1/dataset/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after model.DatasetInfo
	require.Nil(t, decode(t, w, &after))
	assert.Equal(t, 3, after.Students)
	assert.NotEqual(t, before.Version, after.Version)
}

func TestMissingWorkbook(t *testing.T) {
	r := newServer(t, filepath.Join(t.TempDir(), "missing.xlsx"), 20)

	w := do(r, http.MethodGet, "/api/v1/overview", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w, nil)
	require.NotNil(t, body)
	assert.Equal(t, response.ErrDatasetNotFound, body.Code)

	page := do(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusNotFound, page.Code)
	assert.Contains(t, page.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, page.Body.String(), "DATASET_NOT_FOUND")
}

func TestSchemaMismatch(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "bad.xlsx", [][]interface{}{
		{"Student", "Week", "Score"},
		{"A", "Week 1", 3},
	})
	r := newServer(t, path, 20)

	w := do(r, http.MethodGet, "/api/v1/leaderboard", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w, nil)
	require.NotNil(t, body)
	assert.Equal(t, response.ErrSchemaMismatch, body.Code)
	assert.Contains(t, body.Fields["missing"], "participation")
	assert.Contains(t, body.Fields["missing"], "status")

	page := do(r, http.MethodGet, "/student", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, page.Code)
	assert.Contains(t, page.Body.String(), "participation")
}

func TestChartEndpoints(t *testing.T) {
	r := exampleServer(t)

	w := do(r, http.MethodGet, "/charts/leaderboard.png?metric=rating", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	cached := do(r, http.MethodGet, "/charts/leaderboard.png?metric=rating", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, cached.Code)

	for _, target := range []string{
		"/charts/weekly-average.png",
		"/charts/attendance.png",
		"/charts/student/trend.png?student=A",
		"/charts/student/attendance.png?student=B",
		"/charts/week/participation.png?week=" + url.QueryEscape("Week 2 (9/11)"),
		"/charts/week/attendance.png?week=" + url.QueryEscape("Week 1 (9/4)"),
	} {
		w := do(r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"), target)
	}

	empty := do(r, http.MethodGet, "/charts/student/trend.png?student=Nobody", nil)
	assert.Equal(t, http.StatusNoContent, empty.Code)

	bad := do(r, http.MethodGet, "/charts/student/trend.png", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestChartETagMatchesDrawnVersion(t *testing.T) {
	r := exampleServer(t)

	w := do(r, http.MethodGet, "/api/v1/dataset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info model.DatasetInfo
	require.Nil(t, decode(t, w, &info))

	png := do(r, http.MethodGet, "/charts/attendance.png", nil)
	require.Equal(t, http.StatusOK, png.Code)
	assert.Equal(t, `W/"`+info.Version+`"`, png.Header().Get("ETag"))
}

func TestSilentWeekChartIsEmpty(t *testing.T) {
	rows := append(testutil.ExampleRows(),
		[]interface{}{"A", "Week 3 (9/18)", "9/18", "Review", 0, 0, "Absent"},
		[]interface{}{"B", "Week 3 (9/18)", "9/18", "Review", 0, 0, "Excused"},
	)
	path := testutil.WriteWorkbook(t, t.TempDir(), "participation.xlsx", rows)
	r := newServer(t, path, 20)

	week := url.QueryEscape("Week 3 (9/18)")
	all := do(r, http.MethodGet, "/charts/week/participation.png?participants_only=false&week="+week, nil)
	assert.Equal(t, http.StatusNoContent, all.Code)

	attendance := do(r, http.MethodGet, "/charts/week/attendance.png?week="+week, nil)
	assert.Equal(t, http.StatusOK, attendance.Code)
}

func TestStudentReportEndpoint(t *testing.T) {
	r := exampleServer(t)

	w := do(r, http.MethodGet, "/api/v1/students/report.pdf?student=A", map[string]string{"Accept-Encoding": "br"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "A_participation_report.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	none := do(r, http.MethodGet, "/api/v1/students/report.pdf?student=Nobody", nil)
	require.Equal(t, http.StatusOK, none.Code)
	assert.True(t, bytes.HasPrefix(none.Body.Bytes(), []byte("%PDF")))
}

func TestStudentReportRateLimited(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "participation.xlsx", testutil.ExampleRows())
	r := newServer(t, path, 1)

	first := do(r, http.MethodGet, "/api/v1/students/report.pdf?student=A", nil)
	second := do(r, http.MethodGet, "/api/v1/students/report.pdf?student=A", nil)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestPages(t *testing.T) {
	r := exampleServer(t)

	w := do(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Healthcare Class")
	assert.Contains(t, w.Body.String(), "/charts/leaderboard.png?metric=score")

	w = do(r, http.MethodGet, "/student", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Export PDF")
	assert.Contains(t, w.Body.String(), "Week 1 (9/4)")

	w = do(r, http.MethodGet, "/student?student=Nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No attendance records for Nobody")

	w = do(r, http.MethodGet, "/week?week="+url.QueryEscape("Week 1 (9/4)")+"&participants_only=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "status-absent")
	assert.Contains(t, w.Body.String(), "wk 1 (9/4)")
}

func TestRefreshRedirectsBack(t *testing.T) {
	r := exampleServer(t)

	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader("next=%2Fweek%3Fweek%3DWeek%2B1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/week?week=Week+1", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader("next=https%3A%2F%2Fevil.example"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestNotFound(t *testing.T) {
	r := exampleServer(t)

	w := do(r, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")

	w = do(r, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "Jane_Doe_participation_report.pdf", handler.ReportFilename("Jane Doe"))
	assert.Equal(t, "student_participation_report.pdf", handler.ReportFilename("../"))
}
