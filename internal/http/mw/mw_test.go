package mw

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitByIP(t *testing.T) {
	h := RateLimitByIP(2, discardLogger())(okHandler)

	serve := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bulbs", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve("192.0.2.1:1000").Code)
	assert.Equal(t, http.StatusOK, serve("192.0.2.1:1001").Code)

	limited := serve("192.0.2.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "application/problem+json", limited.Header().Get("Content-Type"))
	var problem map[string]any
	require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &problem))
	assert.EqualValues(t, http.StatusTooManyRequests, problem["status"])

	// Another client has its own budget
	assert.Equal(t, http.StatusOK, serve("192.0.2.2:1000").Code)
}

func TestRateLimitByIP_Disabled(t *testing.T) {
	h := RateLimitByIP(0, discardLogger())(okHandler)
	for range 10 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequestLogging_WarnsOnServerErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	failing := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	rec := httptest.NewRecorder()
	RequestLogging(logger)(failing).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bulbs/x/status", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, buf.String(), "status=503")

	buf.Reset()
	RequestLogging(logger)(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, buf.String())
}

type echoInput struct {
	Name string `path:"name"`
}

type echoOutput struct {
	Body struct {
		Name string `json:"name"`
	}
}

func echo(_ context.Context, in *echoInput) (*echoOutput, error) {
	out := &echoOutput{}
	out.Body.Name = in.Name
	return out, nil
}

func TestRegisterHelpers(t *testing.T) {
	_, api := humatest.New(t, huma.DefaultConfig("test", "1.0.0"))

	Get(api, "/echo/{name}", echo,
		WithTags("Echo"),
		WithSummary("Echo a name"),
		WithDescription("Returns the name"),
		WithOperationID("echo"),
		WithErrors(http.StatusNotFound),
	)
	Post(api, "/echo/{name}", echo, WithOperationID("echo-post"), WithDefaultStatus(http.StatusCreated))
	HiddenGet(api, "/hidden/{name}", echo)

	resp := api.Get("/echo/desk")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"name":"desk"`)

	resp = api.Post("/echo/desk")
	assert.Equal(t, http.StatusCreated, resp.Code)

	resp = api.Get("/hidden/desk")
	assert.Equal(t, http.StatusOK, resp.Code)

	spec := api.OpenAPI()
	op := spec.Paths["/echo/{name}"].Get
	require.NotNil(t, op)
	assert.Equal(t, []string{"Echo"}, op.Tags)
	assert.Equal(t, "Echo a name", op.Summary)
	assert.Equal(t, "echo", op.OperationID)
	assert.NotContains(t, spec.Paths, "/hidden/{name}")
}
