package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheControl sets the Cache-Control header for responses, usually static assets.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}

// NoStore marks responses as uncacheable. Dashboard data changes on refresh.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

// SetETag tags the response with a weak ETag for version, replacing any
// earlier tag.
func SetETag(c *gin.Context, version string) {
	if version == "" {
		return
	}
	c.Header("ETag", weakETag(version))
	c.Header("Cache-Control", "no-cache")
}

func weakETag(version string) string {
	return `W/"` + version + `"`
}

// NotModified sets a weak ETag for version and answers 304 when the client
// already holds it. Callers stop handling the request when it returns true.
func NotModified(c *gin.Context, version string) bool {
	if version == "" {
		return false
	}
	SetETag(c, version)
	etag := weakETag(version)

	for _, candidate := range strings.Split(c.GetHeader("If-None-Match"), ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == etag || candidate == "*" {
			c.Status(http.StatusNotModified)
			c.Abort()
			return true
		}
	}
	return false
}
