package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/logger"
	"github.com/colony/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key header
const MaxIdempotencyKeyLength = 128

// DefaultIdempotencyTTL is how long a claimed key is held when no ttl is given
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyKey claims the request's Idempotency-Key in store before the
// handler runs. A key seen within ttl is answered with 409
// ERR_DUPLICATE_REQUEST; a ttl <= 0 means DefaultIdempotencyTTL. Claims of
// requests that did not succeed are released so the client can retry with the
// same key. Requests without the header pass through.
//
// When the store cannot be reached the request is refused with 503: running a
// non-repeatable operation without the guard could duplicate it.
func IdempotencyKey(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		requestID := GetRequestID(c)
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", requestID))
			return
		}

		ctx := c.Request.Context()
		scoped := "idem:" + c.Request.Method + ":" + c.FullPath() + ":" + key
		claimed, err := store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			logger.Enrich(ctx, log).Error("Idempotency store unavailable",
				zap.String("idempotency_key", key), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnavailable, "Request could not be deduplicated, retry later", requestID))
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest, "Request with this Idempotency-Key was already processed", requestID))
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < 200 || status >= 300 {
			if err := store.Release(context.WithoutCancel(ctx), scoped); err != nil {
				logger.Enrich(ctx, log).Warn("Failed to release idempotency key",
					zap.String("idempotency_key", key), zap.Error(err))
			}
		}
	}
}
