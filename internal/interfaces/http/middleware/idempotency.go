package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the client-supplied key for at-most-once posting
const IdempotencyKeyHeader = "Idempotency-Key"

const idempotencyKeyMaxLen = 255

// Idempotency enforces at-most-once semantics on mutating endpoints. A
// request that repeats a key within the TTL is rejected with 409 instead of
// being applied twice; the ledger never sees the duplicate. Requests
// without the header pass through untouched.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > idempotencyKeyMaxLen {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest,
					"Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		// Scope the key per org so tenants cannot collide or probe
		// each other's keys.
		scoped := "http:" + key
		if orgID, ok := GetOrgID(c); ok {
			scoped = "http:" + orgID.String() + ":" + key
		}

		isNew, err := store.MarkProcessed(c.Request.Context(), scoped, ttl)
		if err != nil {
			// The store being down must not block writes; log and
			// let the request through.
			log.Warn("idempotency store unavailable, processing anyway",
				zap.String("key", key),
				zap.Error(err))
			c.Next()
			return
		}

		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponseWithRequestID("DUPLICATE_REQUEST",
					"A request with this Idempotency-Key was already processed", GetRequestID(c)))
			return
		}

		c.Next()
	}
}
