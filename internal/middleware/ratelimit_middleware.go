package middleware

import (
	"context"
	"net/http"
	"strconv"

	"mediavault/internal/redis"
	"mediavault/internal/services"
	"mediavault/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// UploadLimiter checks the per-user budget for new upload destinations.
type UploadLimiter interface {
	AllowUpload(ctx context.Context, userID string) (*redis.RateLimitResult, error)
}

// CommentLimiter checks the per-user budget for new comments.
type CommentLimiter interface {
	AllowComment(ctx context.Context, userID string) (*redis.RateLimitResult, error)
}

// UploadRateLimit bounds how often a user can request new upload
// destinations; each one creates provider-side state.
func UploadRateLimit(limiter UploadLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := services.IdentityFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}
		enforce(c, limiter.AllowUpload, identity.UserID)
	}
}

// CommentRateLimit bounds how fast a user can post comments.
func CommentRateLimit(limiter CommentLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := services.IdentityFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}
		enforce(c, limiter.AllowComment, identity.UserID)
	}
}

func enforce(c *gin.Context, allow func(ctx context.Context, userID string) (*redis.RateLimitResult, error), userID string) {
	result, err := allow(c.Request.Context(), userID)
	if err != nil {
		// Rate limiting is best-effort; a redis failure never blocks
		// the request.
		c.Next()
		return
	}

	setRateLimitHeaders(c, result)
	if !result.Allowed {
		c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", "RATE_LIMITED"))
		c.Abort()
		return
	}
	c.Next()
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Writer.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(result.ResetIn.Seconds())))
}
