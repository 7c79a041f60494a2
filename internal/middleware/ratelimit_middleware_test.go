package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mediavault/internal/redis"
	"mediavault/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	result *redis.RateLimitResult
	err    error

	uploadCalls  int
	commentCalls int
}

func (f *fakeLimiter) AllowUpload(ctx context.Context, userID string) (*redis.RateLimitResult, error) {
	f.uploadCalls++
	return f.result, f.err
}

func (f *fakeLimiter) AllowComment(ctx context.Context, userID string) (*redis.RateLimitResult, error) {
	f.commentCalls++
	return f.result, f.err
}

func limitedRouter(path string, mw gin.HandlerFunc, withIdentity bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if withIdentity {
		r.Use(func(c *gin.Context) {
			ctx := services.WithIdentity(c.Request.Context(), services.Identity{UserID: "user-1"})
			c.Request = c.Request.WithContext(ctx)
		})
	}
	r.POST(path, mw, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func post(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCommentRateLimitAllows(t *testing.T) {
	limiter := &fakeLimiter{
		result: &redis.RateLimitResult{Allowed: true, Remaining: 59, ResetIn: 30 * time.Second, Limit: 60},
	}
	r := limitedRouter("/api/comments", CommentRateLimit(limiter), true)

	w := post(r, "/api/comments")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, limiter.commentCalls)
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "59", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "30", w.Header().Get("X-RateLimit-Reset"))
}

func TestCommentRateLimitBlocks(t *testing.T) {
	limiter := &fakeLimiter{
		result: &redis.RateLimitResult{Allowed: false, Remaining: 0, ResetIn: 12 * time.Second, Limit: 60},
	}
	r := limitedRouter("/api/comments", CommentRateLimit(limiter), true)

	w := post(r, "/api/comments")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestUploadRateLimitBlocks(t *testing.T) {
	limiter := &fakeLimiter{
		result: &redis.RateLimitResult{Allowed: false, Remaining: 0, ResetIn: 5 * time.Second, Limit: 20},
	}
	r := limitedRouter("/api/mux/direct-upload", UploadRateLimit(limiter), true)

	w := post(r, "/api/mux/direct-upload")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 1, limiter.uploadCalls)
}

func TestRateLimitIsBestEffort(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	r := limitedRouter("/api/comments", CommentRateLimit(limiter), true)

	w := post(r, "/api/comments")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitSkipsAnonymousRequests(t *testing.T) {
	limiter := &fakeLimiter{}
	r := limitedRouter("/api/comments", CommentRateLimit(limiter), false)

	w := post(r, "/api/comments")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, limiter.commentCalls)
}
