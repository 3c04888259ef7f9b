package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/backend/internal/domain/shared"
	"github.com/ledgerline/backend/internal/interfaces/http/dto"
)

func performError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var base BaseHandler
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		base.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_DomainError(t *testing.T) {
	w := performError(t, shared.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestHandleError_WrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("loading sale: %w", shared.ErrCycleLocked)
	w := performError(t, wrapped)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CYCLE_LOCKED", decodeResponse(t, w).Error.Code)
}

func TestHandleError_UnknownErrorIsOpaque500(t *testing.T) {
	w := performError(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "pq:")
}

func TestHandleError_ValidationCode(t *testing.T) {
	w := performError(t, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_QUANTITY", decodeResponse(t, w).Error.Code)
}

func TestBindJSONOptional_EmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var base BaseHandler
	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req struct {
			Reason string `json:"reason"`
		}
		if !base.BindJSONOptional(c, &req) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"reason": req.Reason})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUUIDParam_Malformed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var base BaseHandler
	router := gin.New()
	router.GET("/:id", func(c *gin.Context) {
		if _, ok := base.UUIDParam(c, "id"); !ok {
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrgID_MissingContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var base BaseHandler
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		if _, ok := base.OrgID(c); !ok {
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
