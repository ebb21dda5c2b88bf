package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// cacheWriter downgrades Cache-Control to no-store for non-2xx responses.
type cacheWriter struct {
	gin.ResponseWriter
}

func (w *cacheWriter) WriteHeader(code int) {
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.ResponseWriter.WriteHeader(code)
}

// CacheControl marks successful responses as publicly cacheable for
// maxAgeSeconds. Error responses are never cached.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", maxAgeSeconds)
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Writer = &cacheWriter{ResponseWriter: c.Writer}
		c.Next()
	}
}

// NoStore disables caching for responses that reflect live per-view state.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
