package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrgTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), OrgContext())
	router.GET("/", func(c *gin.Context) {
		orgID, ok := GetOrgID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"org_id": orgID.String()})
	})
	return router
}

func TestOrgContext_FromHeader(t *testing.T) {
	router := newOrgTestRouter(t)
	orgID := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(OrgIDHeader, orgID.String())
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, orgID.String(), body["org_id"])
}

func TestOrgContext_MissingOrg(t *testing.T) {
	router := newOrgTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrgContext_MalformedHeader(t *testing.T) {
	router := newOrgTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(OrgIDHeader, "not-a-uuid")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrgContext_JWTClaimWinsOverHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtOrg := uuid.New()
	headerOrg := uuid.New()

	router := gin.New()
	// Simulate the JWT middleware having already bound an org.
	router.Use(func(c *gin.Context) {
		c.Set(ContextKeyJWTOrgID, jwtOrg)
	})
	router.Use(OrgContext())
	router.GET("/", func(c *gin.Context) {
		orgID, _ := GetOrgID(c)
		c.JSON(http.StatusOK, gin.H{"org_id": orgID.String()})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(OrgIDHeader, headerOrg.String())
	router.ServeHTTP(w, req)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, jwtOrg.String(), body["org_id"])
}
