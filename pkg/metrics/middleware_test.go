package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinPrometheusMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-test"))
	router.GET("/events/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "c"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/"+id, nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, float64(3), testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("metrics-test", "GET", "/events/:id", "200")))
	assert.Equal(t, float64(0), testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("metrics-test", "GET", "/health", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("metrics-test", "GET", "unmatched", "404")))
}

func TestDbTimer_ObserveResultCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(DbErrors.WithLabelValues("metrics-test", "insert"))

	NewDbTimer("metrics-test", DbOpInsert, "events").ObserveResult(nil)
	NewDbTimer("metrics-test", DbOpInsert, "events").ObserveResult(assert.AnError)

	assert.Equal(t, before+1, testutil.ToFloat64(DbErrors.WithLabelValues("metrics-test", "insert")))
}
