package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vidtube/vidtube/internal/errs"
	"github.com/vidtube/vidtube/internal/response"
	"github.com/vidtube/vidtube/pkg/cache"
	"github.com/vidtube/vidtube/pkg/logger"
)

// RateLimit allows limit requests per client IP in each fixed window.
// Redis errors fail closed.
func RateLimit(rdb *cache.RedisClient, scope string, limit int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || window <= 0 {
			c.Next()
			return
		}

		slot := time.Now().UnixMilli() / window.Milliseconds()
		count, err := rdb.IncrWindow(c.Request.Context(), cache.RateLimitKey(scope, c.ClientIP(), slot), window)
		if err != nil {
			log.WithError(err).WithField("scope", scope).Error("Rate limiter unavailable")
			response.Error(c, log, errs.New(errs.KindInternal, "Rate limiter unavailable"))
			return
		}
		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.Error(c, log, errs.New(errs.KindTooManyRequests, "Too many requests, please try again later"))
			return
		}
		c.Next()
	}
}
