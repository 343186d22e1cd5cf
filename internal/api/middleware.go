package api

import (
	"net/http"
	"time"
	"wellity/backend/internal/logger"
	"wellity/backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no route, so 404 scans don't blow up
// metric cardinality.
const unmatchedRoute = "unmatched"

// RequestLogger logs one line per request once the handler chain has finished.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("Request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warnw("Request rejected", fields...)
		default:
			log.Infow("Request handled", fields...)
		}
	}
}

// Metrics records in-flight count, totals and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.TrackInFlight()
		defer done()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// Recovery turns panics into the standard 500 envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Errorw("Panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		abortWithError(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
	})
}
