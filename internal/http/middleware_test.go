package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type httpObservation struct {
	method, route string
	status        int
}

type recordingHTTPMetrics struct {
	seen []httpObservation
}

func (m *recordingHTTPMetrics) RecordHTTPRequest(_ context.Context, method, route string, status int, _ float64) {
	m.seen = append(m.seen, httpObservation{method, route, status})
}

func TestRequestID_KeepsCallerValue(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", got)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Generates(t *testing.T) {
	rec := httptest.NewRecorder()
	RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestAccessLog_UsesRouteTemplate(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := &recordingHTTPMetrics{}

	r := mux.NewRouter()
	r.Use(AccessLog(zap.New(core), metrics))
	r.HandleFunc("/patients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/42", nil))

	require.Len(t, metrics.seen, 1)
	assert.Equal(t, httpObservation{http.MethodGet, "/patients/{id}", http.StatusTeapot}, metrics.seen[0])

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/patients/42", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
}

func TestRecovery_Returns500(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := Recovery(zap.New(core))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	assert.Equal(t, "boom", logs.All()[0].ContextMap()["panic"])
}
