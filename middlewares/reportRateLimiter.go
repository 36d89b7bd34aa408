package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ReportRateLimiter caps how many issues a user may submit per day, keyed
// by email in Redis. Passing a nil client disables the limiter so the
// service still runs without Redis configured.
func ReportRateLimiter(rdb *redis.Client, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		email := CurrentUserEmail(c)
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user email missing"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		userKey := "report_limit:" + email

		count, err := rdb.Incr(ctx, userKey).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error incrementing count"})
			c.Abort()
			return
		}

		// Set TTL only for the first increment (when count = 1)
		if count == 1 {
			if err := rdb.Expire(ctx, userKey, 24*time.Hour).Err(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error setting TTL"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := rdb.TTL(ctx, userKey).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
