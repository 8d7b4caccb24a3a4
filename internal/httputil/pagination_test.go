package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/allisson/piivault/internal/httputil"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		url        string
		wantOffset int
		wantLimit  int
		wantErr    string
	}{
		{url: "/v1/audit-events", wantOffset: 0, wantLimit: httputil.DefaultLimit},
		{url: "/v1/audit-events?offset=10&limit=20", wantOffset: 10, wantLimit: 20},
		{url: "/v1/audit-events?limit=100", wantLimit: httputil.MaxLimit},
		{url: "/v1/audit-events?offset=-1", wantErr: "invalid offset"},
		{url: "/v1/audit-events?offset=abc", wantErr: "invalid offset"},
		{url: "/v1/audit-events?offset=", wantErr: "invalid offset"},
		{url: "/v1/audit-events?limit=0", wantErr: "invalid limit"},
		{url: "/v1/audit-events?limit=101", wantErr: "between 1 and 100"},
		{url: "/v1/audit-events?limit=ten", wantErr: "invalid limit"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tt.url, nil)

			offset, limit, err := httputil.ParsePagination(c)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Zero(t, offset)
				assert.Zero(t, limit)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParseUUIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.Must(uuid.NewV7())

	t.Run("valid", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		got, err := httputil.ParseUUIDParam(c, "id")
		assert.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("invalid", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		got, err := httputil.ParseUUIDParam(c, "id")
		assert.EqualError(t, err, "invalid id parameter: must be a valid UUID")
		assert.Equal(t, uuid.Nil, got)
	})
}
