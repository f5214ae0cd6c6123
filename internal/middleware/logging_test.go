package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMiddlewareRecordsStatus(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := LogMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rooms", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/rooms", entry.Data["path"])
	assert.Equal(t, http.MethodGet, entry.Data["method"])
}

func TestLogMiddlewareDefaultsToOK(t *testing.T) {
	logger, hook := test.NewNullLogger()
	h := LogMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, hook.LastEntry().Data["status"])
}

func TestHijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rec.Hijack()
	assert.Error(t, err)
}

func TestWebSocketLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()

	LogWebSocketConnect(logger, "1.2.3.4:5", "/ws", "c1")
	assert.Equal(t, "c1", hook.LastEntry().Data["conn"])
	assert.Equal(t, "WebSocket connected", hook.LastEntry().Message)

	LogWebSocketDisconnect(logger, "1.2.3.4:5", "/ws", "c1", errors.New("boom"))
	assert.Equal(t, "WebSocket disconnected", hook.LastEntry().Message)
	assert.NotNil(t, hook.LastEntry().Data["error"])

	LogWebSocketDisconnect(logger, "1.2.3.4:5", "/ws", "c1", nil)
	_, hasErr := hook.LastEntry().Data["error"]
	assert.False(t, hasErr)
}
