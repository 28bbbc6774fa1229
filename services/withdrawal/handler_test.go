package withdrawal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"growpreen/pkg/config"
	"growpreen/pkg/httpapi"
	"growpreen/pkg/identity"
	"growpreen/pkg/middleware"
)

func newRouter(t *testing.T, f fixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Admin.Key = "admin"

	engine := gin.New()
	engine.Use(middleware.Error())
	RegisterRoutes(httpapi.NewRouter(engine, cfg), NewHandler(f.svc))
	return engine
}

func call(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerRequestAndReject(t *testing.T) {
	f := newFixture(t, funded(500))
	r := newRouter(t, f)
	user := map[string]string{identity.HeaderUserID: "u1"}
	admin := map[string]string{identity.HeaderAdminKey: "admin"}

	w := call(r, http.MethodPost, "/api/withdrawals/request", `{"amount":300,"method":"UPI","details":"u1@upi"}`, user)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Withdrawal Withdrawal `json:"withdrawal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, StatusPending, created.Withdrawal.Status)

	w = call(r, http.MethodGet, "/api/withdrawals/balance", "", user)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"balance":200}`, w.Body.String())

	w = call(r, http.MethodPost, "/api/withdrawals/request", `{"amount":300,"method":"UPI"}`, user)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), `"reason":"INSUFFICIENT_BALANCE"`)

	w = call(r, http.MethodPost, "/api/admin/withdrawals/"+created.Withdrawal.ID+"/reject", "", admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPost, "/api/admin/withdrawals/"+created.Withdrawal.ID+"/approve", "", admin)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), `"reason":"INVALID_TRANSITION"`)

	w = call(r, http.MethodGet, "/api/withdrawals/balance", "", user)
	require.JSONEq(t, `{"balance":500}`, w.Body.String())
}

func TestHandlerRequiresIdentity(t *testing.T) {
	r := newRouter(t, newFixture(t, funded(500)))

	require.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/withdrawals/my", "", nil).Code)
	require.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/api/admin/withdrawals", "", nil).Code)
}
