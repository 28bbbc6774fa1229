package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"growpreen/pkg/config"
	"growpreen/pkg/identity"
	"growpreen/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
	gin.SetMode(gin.TestMode)
}

type okHealth struct{}

func (okHealth) Liveness(c *gin.Context)  { c.Status(http.StatusOK) }
func (okHealth) Readiness(c *gin.Context) { c.Status(http.StatusOK) }

func serve(r http.Handler, method, path string, headers map[string]string) int {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRouterGroups(t *testing.T) {
	cfg := config.Default()
	cfg.Admin.Key = "admin-secret"

	engine := gin.New()
	engine.Use(middleware.Error())
	router := NewRouter(engine, cfg)
	registerOpsEndpoints(engine, okHealth{})

	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	router.Public.GET("/ping", ok)
	router.User.GET("/me", ok)
	router.Admin.GET("/summary", ok)

	require.Equal(t, http.StatusNoContent, serve(engine, http.MethodGet, "/api/ping", nil))

	require.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/me", nil))
	require.Equal(t, http.StatusNoContent, serve(engine, http.MethodGet, "/api/me",
		map[string]string{identity.HeaderUserID: "u-1"}))

	require.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/admin/summary", nil))
	require.Equal(t, http.StatusNoContent, serve(engine, http.MethodGet, "/api/admin/summary",
		map[string]string{identity.HeaderAdminKey: "admin-secret"}))

	require.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/metrics", nil))
}
