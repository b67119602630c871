package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"alcyxob/workout-tracker/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows allowedPerMin requests per minute per client, keyed by the
// authenticated user when known and by client IP otherwise. When the limiter
// itself fails the request is let through.
func RateLimit(limiter RequestRateLimiter, routerName string, allowedPerMin int, m *metrics.Manager) gin.HandlerFunc {
	limit := redis_rate.PerMinute(allowedPerMin)
	return func(c *gin.Context) {
		key := routerName + ":ip:" + c.ClientIP()
		if userID, err := getUserIDFromContext(c); err == nil {
			key = routerName + ":user:" + userID
		}

		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			log.WithError(err).WithField("key", key).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed > 0 {
			c.Next()
			return
		}

		if m != nil {
			m.CounterRateLimited.Inc()
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
		abortWithError(c, http.StatusTooManyRequests, fmt.Sprintf("retry after %.1f seconds", res.RetryAfter.Seconds()))
	}
}
