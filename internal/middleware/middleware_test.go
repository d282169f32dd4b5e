package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterAllowsRateThenBlocks(t *testing.T) {
	now := time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"), "other clients have their own bucket")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.1.1.1"), "bucket refills after an interval")
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	now := time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	rl.Allow("1.1.1.1")
	now = now.Add(4 * time.Minute)
	rl.Allow("2.2.2.2")

	_, kept := rl.visitors["1.1.1.1"]
	assert.False(t, kept)
	assert.Len(t, rl.visitors, 1)
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("1.1.1.1"))
	}
}

func TestRateLimiterMiddlewareResponds429(t *testing.T) {
	r := gin.New()
	r.GET("/x", NewRateLimiter(1, time.Minute).Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestNotModified(t *testing.T) {
	r := gin.New()
	r.GET("/chart.png", func(c *gin.Context) {
		if NotModified(c, "v1") {
			return
		}
		c.Data(http.StatusOK, "image/png", []byte("png"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chart.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `W/"v1"`, w.Header().Get("ETag"))

	req := httptest.NewRequest(http.MethodGet, "/chart.png", nil)
	req.Header.Set("If-None-Match", `W/"v1"`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/chart.png", nil)
	req.Header.Set("If-None-Match", `W/"v0"`)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetETagReplacesCheckedVersion(t *testing.T) {
	r := gin.New()
	r.GET("/chart.png", func(c *gin.Context) {
		if NotModified(c, "v1") {
			return
		}
		SetETag(c, "v2")
		c.Data(http.StatusOK, "image/png", []byte("png"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chart.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{`W/"v2"`}, w.Header().Values("ETag"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("participation ", 200)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/page", func(c *gin.Context) { c.String(http.StatusOK, body) })
	r.GET("/report.pdf", func(c *gin.Context) { c.Data(http.StatusOK, "application/pdf", []byte(body)) })

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, body, string(plain))

	req = httptest.NewRequest(http.MethodGet, "/report.pdf", nil)
	req.Header.Set("Accept-Encoding", "br")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, body, w.Body.String())
}
