package task

import (
	"context"
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
	RegisterRoutes(httpapi.NewRouter(engine, cfg), NewHandler(HandlerParams{Service: f.svc}))
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

func TestHandlerSubmitAndApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, member("1"))
	tpl, err := f.svc.CreateTemplate(ctx, TemplateParams{Title: "Follow page", RewardAmount: 40, Period: "Daily"})
	require.NoError(t, err)

	r := newRouter(t, f)
	user := map[string]string{identity.HeaderUserID: "1"}
	admin := map[string]string{identity.HeaderAdminKey: "admin"}

	w := call(r, http.MethodPost, "/api/tasks/submit", `{"taskTemplateId":"`+tpl.ID+`","link":"https://x/p/1"}`, user)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = call(r, http.MethodPost, "/api/admin/tasks/"+created.ID+"/approve", "", admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPost, "/api/admin/tasks/"+created.ID+"/approve", "", admin)
	require.Equal(t, http.StatusConflict, w.Code)

	bal, err := f.ledger.Balance(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, int64(40), bal.TotalEarning)
	require.Equal(t, int64(40), bal.DailyEarning)
}

func TestHandlerProofUploadDisabled(t *testing.T) {
	r := newRouter(t, newFixture(t, member("1")))

	w := call(r, http.MethodPost, "/api/tasks/proof-upload", `{"filename":"shot.png"}`,
		map[string]string{identity.HeaderUserID: "1"})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
