package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerline/backend/internal/infrastructure/auth"
	"github.com/ledgerline/backend/internal/interfaces/http/dto"
)

const (
	// ContextKeyJWTClaims holds the validated *auth.Claims
	ContextKeyJWTClaims = "jwt_claims"
	// ContextKeyJWTOrgID holds the org UUID from the token
	ContextKeyJWTOrgID = "jwt_org_id"
	// ContextKeyJWTUserID holds the user UUID from the token
	ContextKeyJWTUserID = "jwt_user_id"
)

// JWTConfig configures the bearer-token middleware
type JWTConfig struct {
	Service   *auth.JWTService
	Blacklist auth.TokenBlacklist // optional; revoked JTIs are rejected
	Logger    *zap.Logger
	SkipPaths []string // exact-match paths that bypass authentication
}

// JWTAuth validates the Authorization bearer token and stores the claims in
// the gin context. Tokens are verified here, never issued: provisioning is
// an external concern.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, "Missing or malformed Authorization header")
			return
		}

		claims, err := cfg.Service.ValidateToken(token)
		if err != nil {
			log.Debug("token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			abortUnauthorized(c, authErrorMessage(err))
			return
		}

		if cfg.Blacklist != nil {
			revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				log.Warn("token blacklist check failed", zap.Error(err))
				abortUnauthorized(c, "Unable to verify token")
				return
			}
			if revoked {
				abortUnauthorized(c, "Token has been revoked")
				return
			}
		}

		orgID, err := claims.GetOrgUUID()
		if err != nil {
			abortUnauthorized(c, "Token carries an invalid organization")
			return
		}
		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, "Token carries an invalid user")
			return
		}

		c.Set(ContextKeyJWTClaims, claims)
		c.Set(ContextKeyJWTOrgID, orgID)
		c.Set(ContextKeyJWTUserID, userID)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("malformed authorization header")
	}
	return parts[1], nil
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "Token is not yet valid"
	case errors.Is(err, auth.ErrMissingOrgID), errors.Is(err, auth.ErrMissingUserID):
		return "Token is missing required claims"
	default:
		return "Invalid token"
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

// GetJWTClaims returns the validated claims, if any
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ContextKeyJWTClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetJWTOrgID returns the org UUID from the validated token
func GetJWTOrgID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextKeyJWTOrgID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetJWTUserID returns the user UUID from the validated token
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextKeyJWTUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
