package middleware

import (
	"net/http"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader is the client supplied key of a save request
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength caps the key so it cannot bloat the store
const maxIdempotencyKeyLength = 255

// Idempotency rejects a save request whose Idempotency-Key was already used
// on the same route within ttl. Requests without the header pass through.
// A request that does not succeed releases its key so the client can retry.
// If the store fails the request is let through and the failure logged.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if store == nil || key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		scoped := c.Request.Method + " " + c.FullPath() + " " + c.Param("id") + c.Param("sid") + " " + key
		ctx := c.Request.Context()
		log := logger.L(ctx)

		fresh, err := store.MarkProcessed(ctx, scoped, ttl)
		if err != nil {
			log.Warn("idempotency store unavailable, skipping check", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			log.Info("duplicate request rejected", zap.String("idempotency_key", key))
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed",
				GetRequestID(c),
			))
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < http.StatusOK || status >= http.StatusMultipleChoices {
			if err := store.Release(ctx, scoped); err != nil {
				log.Warn("failed to release idempotency key", zap.Error(err))
			}
		}
	}
}
