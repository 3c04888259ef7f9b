package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/interfaces/http/dto"
	"github.com/ledgerline/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides the response and binding helpers shared by all
// handlers. Handlers embed it by value.
type BaseHandler struct{}

// Success writes a 200 with the standard envelope
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created writes a 201 with the standard envelope
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 with pagination metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// NoContent writes an empty 204
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 with the given message
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, middleware.GetRequestID(c)))
}

// HandleError maps an error from the application layer onto an HTTP
// response. Domain errors carry their own code; anything else becomes an
// opaque 500 so internals never leak to clients.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status,
			dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, middleware.GetRequestID(c)))
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An internal error occurred", middleware.GetRequestID(c)))
}

// BindJSON binds the request body and writes a 400 on failure. Returns
// false when the caller should stop.
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, err.Error(), middleware.GetRequestID(c)))
		return false
	}
	return true
}

// BindJSONOptional binds the request body when one is present. An empty
// body leaves obj at its zero value; malformed JSON is still a 400.
func (h *BaseHandler) BindJSONOptional(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	return h.BindJSON(c, obj)
}

// BindQuery binds query parameters and writes a 400 on failure
func (h *BaseHandler) BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, err.Error(), middleware.GetRequestID(c)))
		return false
	}
	return true
}

// UUIDParam parses a UUID path parameter and writes a 400 on failure
func (h *BaseHandler) UUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// OrgID returns the organization resolved by the org-context middleware.
// Writes a 401 and returns false when no org is bound to the request.
func (h *BaseHandler) OrgID(c *gin.Context) (uuid.UUID, bool) {
	orgID, ok := middleware.GetOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "No organization context", middleware.GetRequestID(c)))
		return uuid.Nil, false
	}
	return orgID, true
}

// ActorID returns the acting user from the token, when present
func (h *BaseHandler) ActorID(c *gin.Context) *uuid.UUID {
	if userID, ok := middleware.GetJWTUserID(c); ok {
		return &userID
	}
	return nil
}
