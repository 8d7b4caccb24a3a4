package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func newMetricsRouter(t *testing.T) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("vault")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "vault"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/v1/subjects/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	router.POST("/v1/deletion-requests", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{})
	})

	return router, provider
}

func serve(router *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	t.Run("labels by route pattern", func(t *testing.T) {
		router, provider := newMetricsRouter(t)

		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/subjects/0199b7a4-1111-7000-8000-000000000001"))
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/subjects/0199b7a4-2222-7000-8000-000000000002"))
		assert.Equal(t, http.StatusAccepted, serve(router, http.MethodPost, "/v1/deletion-requests"))

		output := scrape(t, provider)
		assertBizMetricLine(t, output, "vault_http_requests_total",
			`method="GET".*path="/v1/subjects/:id".*status_code="200"`, "2")
		assertBizMetricLine(t, output, "vault_http_requests_total",
			`method="POST".*path="/v1/deletion-requests".*status_code="202"`, "1")
		assert.NotContains(t, output, "0199b7a4")
		assert.Contains(t, output, "vault_http_request_duration_seconds_bucket")
	})

	t.Run("unmatched routes collapse to unknown", func(t *testing.T) {
		router, provider := newMetricsRouter(t)

		assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/v1/nope"))
		assert.Contains(t, scrape(t, provider), `path="unknown"`)
	})

	t.Run("health probes are skipped", func(t *testing.T) {
		router, provider := newMetricsRouter(t)

		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health"))
		assert.NotContains(t, scrape(t, provider), `path="/health"`)
	})

	t.Run("in flight returns to zero", func(t *testing.T) {
		router, provider := newMetricsRouter(t)

		serve(router, http.MethodGet, "/v1/subjects/x")
		assert.Contains(t, scrape(t, provider), `vault_http_requests_in_flight{method="GET"`)
		assert.Regexp(t, `vault_http_requests_in_flight\{[^}]*\} 0`, scrape(t, provider))
	})
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v1/subjects/:id", routeLabel("/v1/subjects/:id"))
	assert.Equal(t, "unknown", routeLabel(""))
}
