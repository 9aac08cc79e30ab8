package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLast(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestInitWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("events-service", "warn", &buf)

	Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	Warn().Msg("visible")
	entry := decodeLast(t, &buf)
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "events-service", entry["service"])
}

func TestInitWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("events-service", "loud", &buf)

	Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestCtx_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("events-service", "info", &buf)

	ctx := WithRequestID(context.Background(), "req-42")
	Ctx(ctx).Info().Msg("with id")

	entry := decodeLast(t, &buf)
	assert.Equal(t, "req-42", entry["request_id"])
}

func TestGinLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	InitWithWriter("events-service", "info", &buf)

	router := gin.New()
	router.Use(GinLoggerMiddleware())
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	})

	t.Run("keeps incoming request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		req.Header.Set(RequestIDHeader, "abc")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
		entry := decodeLast(t, &buf)
		assert.Equal(t, "warn", entry["level"])
		assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	})

	t.Run("generates request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})
}
