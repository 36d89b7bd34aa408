package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityfix-be/middlewares"
)

func limiterRouter(rdb *redis.Client, limit int, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/report_issue",
		func(c *gin.Context) {
			if email != "" {
				c.Set(middlewares.CtxUserEmail, email)
			}
		},
		middlewares.ReportRateLimiter(rdb, limit),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func submit(r *gin.Engine) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/report_issue", nil))
	return rr
}

func TestReportRateLimiterBlocksOverLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := limiterRouter(rdb, 2, "alice@example.com")

	assert.Equal(t, http.StatusOK, submit(r).Code)
	assert.Equal(t, http.StatusOK, submit(r).Code)

	rr := submit(r)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "rate limit exceeded")
	assert.Contains(t, rr.Body.String(), "retry_after")

	// The window key expires a day after the first submission.
	require.True(t, mr.Exists("report_limit:alice@example.com"))
	assert.Greater(t, mr.TTL("report_limit:alice@example.com").Seconds(), 0.0)
}

func TestReportRateLimiterIsPerUser(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	alice := limiterRouter(rdb, 1, "alice@example.com")
	bob := limiterRouter(rdb, 1, "bob@example.com")

	assert.Equal(t, http.StatusOK, submit(alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, submit(alice).Code)
	assert.Equal(t, http.StatusOK, submit(bob).Code)
}

func TestReportRateLimiterRequiresIdentity(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := limiterRouter(rdb, 2, "")

	rr := submit(r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "user email missing")
}

func TestReportRateLimiterDisabledWithoutRedis(t *testing.T) {
	r := limiterRouter(nil, 1, "alice@example.com")

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, submit(r).Code)
	}
}
