package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"growpreen/pkg/errutil"
	"growpreen/pkg/identity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Error())
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": identity.UserID(c.Request.Context())})
	})
	r.GET("/fail", func(c *gin.Context) {
		c.Error(errutil.InsufficientBalance("insufficient funds"))
	})
	return r
}

func do(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorRendersBaseError(t *testing.T) {
	w := do(newEngine(), "/fail", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), `"reason":"INSUFFICIENT_BALANCE"`)
}

func TestRequireUser(t *testing.T) {
	r := newEngine(RequireUser())

	w := do(r, "/whoami", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "/whoami", map[string]string{identity.HeaderUserID: "u-1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"user":"u-1"}`, w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	r := newEngine(RequireAdmin("secret"))

	require.Equal(t, http.StatusForbidden, do(r, "/whoami", map[string]string{identity.HeaderAdminKey: "nope"}).Code)
	require.Equal(t, http.StatusOK, do(r, "/whoami", map[string]string{identity.HeaderAdminKey: "secret"}).Code)

	open := newEngine(RequireAdmin(""))
	require.Equal(t, http.StatusForbidden, do(open, "/whoami", map[string]string{identity.HeaderAdminKey: ""}).Code)
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 2)
	r := newEngine(RequireUser(), rl.Handler())

	alice := map[string]string{identity.HeaderUserID: "alice"}
	require.Equal(t, http.StatusOK, do(r, "/whoami", alice).Code)
	require.Equal(t, http.StatusOK, do(r, "/whoami", alice).Code)
	require.Equal(t, http.StatusTooManyRequests, do(r, "/whoami", alice).Code)

	bob := map[string]string{identity.HeaderUserID: "bob"}
	require.Equal(t, http.StatusOK, do(r, "/whoami", bob).Code)
}

func TestTraceRecordsServerSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	r := newEngine(Trace(tp))

	require.Equal(t, http.StatusOK, do(r, "/whoami", map[string]string{identity.HeaderUserID: "u-1"}).Code)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "GET /whoami", spans[0].Name())
	require.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
}
