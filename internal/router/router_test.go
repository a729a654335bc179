package router

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/todowa/api/handler"
	"github.com/fastygo/todowa/internal/config"
	"github.com/fastygo/todowa/internal/middleware"
	"github.com/fastygo/todowa/pkg/httpcontext"
	"github.com/fastygo/todowa/repository/memory"
	taskUC "github.com/fastygo/todowa/usecase/task"
	timerUC "github.com/fastygo/todowa/usecase/timer"
)

func newHandler(t *testing.T, secret string) fasthttp.RequestHandler {
	t.Helper()
	engine := taskUC.New(memory.NewTaskStore(), memory.NewSnapshotRepository(), nil, nil)
	adapter := httpcontext.NewAdapter(time.Second)
	timer := timerUC.New(25, memory.NewTimerRepository(), nil, nil, nil)

	return New(Handlers{
		Task:     apiHandler.NewTaskHandler(engine, adapter, nil),
		Progress: apiHandler.NewProgressHandler(engine, adapter, nil),
		Settings: apiHandler.NewSettingsHandler(engine, adapter, nil),
		Snapshot: apiHandler.NewSnapshotHandler(engine, adapter, nil),
		Timer:    apiHandler.NewTimerHandler(timer, timerUC.NewRotator(nil), adapter, nil),
		Health:   apiHandler.NewHealthHandler(nil, engine, config.DriverMemory, adapter, nil),
	}, middleware.JWTAuth(secret, "todowa", nil), middleware.AccessLog(nil))
}

func serve(h fasthttp.RequestHandler, method, uri, body, token string) *fasthttp.RequestCtx {
	var rc fasthttp.RequestCtx
	rc.Request.Header.SetMethod(method)
	rc.Request.SetRequestURI(uri)
	if body != "" {
		rc.Request.SetBodyString(body)
	}
	if token != "" {
		rc.Request.Header.Set("Authorization", "Bearer "+token)
	}
	h(&rc)
	return &rc
}

func TestRoutesResolve(t *testing.T) {
	h := newHandler(t, "")

	rc := serve(h, http.MethodPost, "/api/v1/tasks", `{"title":"Read"}`, "")
	require.Equal(t, http.StatusCreated, rc.Response.StatusCode())

	for _, route := range []struct{ method, uri string }{
		{http.MethodGet, "/health"},
		{http.MethodGet, "/api/v1/tasks"},
		{http.MethodGet, "/api/v1/today"},
		{http.MethodGet, "/api/v1/progress"},
		{http.MethodGet, "/api/v1/settings"},
		{http.MethodPost, "/api/v1/settings/theme"},
		{http.MethodGet, "/api/v1/snapshot"},
		{http.MethodGet, "/api/v1/timer"},
		{http.MethodPost, "/api/v1/timer/start"},
		{http.MethodPost, "/api/v1/timer/pause"},
		{http.MethodPost, "/api/v1/timer/reset"},
		{http.MethodGet, "/api/v1/quote"},
	} {
		rc := serve(h, route.method, route.uri, "", "")
		assert.Equal(t, http.StatusOK, rc.Response.StatusCode(), "%s %s", route.method, route.uri)
		assert.NotEmpty(t, rc.Response.Header.Peek("X-Request-ID"), "%s %s", route.method, route.uri)
	}

	rc = serve(h, http.MethodGet, "/api/v1/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rc.Response.StatusCode())
}

func TestAPIRequiresTokenWhenSecretSet(t *testing.T) {
	h := newHandler(t, "s3cret")

	rc := serve(h, http.MethodGet, "/api/v1/tasks", "", "")
	assert.Equal(t, http.StatusUnauthorized, rc.Response.StatusCode())

	rc = serve(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "me", "iss": "todowa"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	rc = serve(h, http.MethodGet, "/api/v1/tasks", "", token)
	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())
}
