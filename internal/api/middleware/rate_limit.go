package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/cache"
	"github.com/yoockh/jobportal/internal/utils"
)

// RateLimit allows max requests per client IP in each fixed window, keyed
// by scope. Counter errors let the request through.
func RateLimit(counter cache.Counter, scope string, max int, window time.Duration, log logrus.FieldLogger) gin.HandlerFunc {
	limit := strconv.Itoa(max)

	return func(c *gin.Context) {
		key := "ratelimit:" + scope + ":" + c.ClientIP()
		n, resetIn, err := counter.Hit(c.Request.Context(), key, window)
		if err != nil {
			log.WithError(err).WithField("scope", scope).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		remaining := int64(max) - n
		if remaining < 0 {
			remaining = 0
		}
		reset := strconv.Itoa(int(math.Ceil(resetIn.Seconds())))

		c.Header("RateLimit-Limit", limit)
		c.Header("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("RateLimit-Reset", reset)

		if n > int64(max) {
			c.Header("Retry-After", reset)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiError{
				Code:    utils.CodeRateLimited,
				Message: "too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
