package api

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"alcyxob/workout-tracker/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request once it has been served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(begin).String(),
			"ip":       c.ClientIP(),
		})
		if userID, err := getUserIDFromContext(c); err == nil {
			entry = entry.WithField("user_id", userID)
		}
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("request")
			return
		}
		entry.Debug("request")
	}
}

// RequestMetrics counts requests by method and status and observes their
// duration by route template.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		begin := time.Now()
		defer func() {
			m.GaugeRequests.Dec()
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.HistRequestDuration.WithLabelValues(route).Observe(time.Since(begin).Seconds())
			m.CounterRequests.With(prometheus.Labels{
				"method": c.Request.Method,
				"status": strconv.Itoa(c.Writer.Status()),
			}).Inc()
		}()
		c.Next()
	}
}

// PanicRecovery turns a handler panic into a 500 response.
func PanicRecovery(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				if m != nil {
					m.CounterHandleRequestPanic.Inc()
				}
				abortWithError(c, http.StatusInternalServerError, "Internal server error")
			}
		}()
		c.Next()
	}
}
