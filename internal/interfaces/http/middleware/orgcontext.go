package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/infrastructure/logger"
	"github.com/ledgerline/backend/internal/interfaces/http/dto"
)

const (
	// OrgIDHeader carries the org when requests arrive without a token,
	// e.g. from a trusted gateway that already authenticated the caller.
	OrgIDHeader = "X-Org-ID"

	// ContextKeyOrgID holds the resolved org UUID
	ContextKeyOrgID = "org_id"
)

// OrgContext resolves the acting organization for the request. A validated
// JWT claim always wins; the X-Org-ID header is only consulted when no
// token was presented. Requests without either are rejected.
func OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if orgID, ok := GetJWTOrgID(c); ok {
			c.Set(ContextKeyOrgID, orgID)
			ctx, enriched := logger.WithOrgID(c.Request.Context(), logger.GetGinLogger(c), orgID.String())
			c.Request = c.Request.WithContext(ctx)
			c.Set("logger", enriched)
			c.Next()
			return
		}

		header := c.GetHeader(OrgIDHeader)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized,
					"No organization context", GetRequestID(c)))
			return
		}

		orgID, err := uuid.Parse(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest,
					"X-Org-ID must be a UUID", GetRequestID(c)))
			return
		}

		c.Set(ContextKeyOrgID, orgID)

		ctx, enriched := logger.WithOrgID(c.Request.Context(), logger.GetGinLogger(c), orgID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set("logger", enriched)

		c.Next()
	}
}

// GetOrgID returns the org resolved by OrgContext
func GetOrgID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextKeyOrgID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
