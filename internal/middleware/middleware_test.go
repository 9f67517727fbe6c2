package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/models"
	"github.com/Prathams-org/AI-in-Edutech-sub000/internal/service"
	appErrors "github.com/Prathams-org/AI-in-Edutech-sub000/pkg/errors"
)

type stubValidator struct {
	claims map[string]*models.JWTClaims
}

func (s stubValidator) ValidateToken(_ context.Context, token string) (*models.JWTClaims, error) {
	if claims, ok := s.claims[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := CurrentClaims(c)
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID})
	})
	r.GET("/classrooms/:slug", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/classrooms/bio-9b-x1y2", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testValidator() stubValidator {
	return stubValidator{claims: map[string]*models.JWTClaims{
		"teacher-token": {UserID: "t-1", Role: models.RoleTeacher},
		"student-token": {UserID: "s-1", Role: models.RoleStudent},
	}}
}

func TestJWTRejectsMissingAndInvalidTokens(t *testing.T) {
	r := newRouter(JWT(testValidator()))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Token teacher-token").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer nope").Code)

	w := do(r, "Bearer teacher-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"t-1"`)
}

func TestRequireRoles(t *testing.T) {
	r := newRouter(JWT(testValidator()), RequireRoles(models.RoleTeacher))

	assert.Equal(t, http.StatusOK, do(r, "Bearer teacher-token").Code)
	w := do(r, "Bearer student-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	bare := newRouter(RequireRoles(models.RoleTeacher))
	assert.Equal(t, http.StatusUnauthorized, do(bare, "").Code)
}

func TestAuditLogsSuccessfulRequests(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newRouter(JWT(testValidator()), Audit(zap.New(core), "classroom.view"))

	do(r, "Bearer teacher-token")
	do(r, "Bearer nope")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "classroom.view", fields["action"])
	assert.Equal(t, "t-1", fields["user_id"])
	assert.Equal(t, "bio-9b-x1y2", fields["param_slug"])
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	metrics := service.NewMetricsService()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/classrooms/:slug", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/classrooms/a", "/classrooms/b", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	body := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(body, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, body.Body.String(), `path="/classrooms/:slug",status="204"} 2`)
	assert.Contains(t, body.Body.String(), `path="unmatched"`)
}
