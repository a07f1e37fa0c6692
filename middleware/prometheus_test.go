package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestShouldCollectMetrics(t *testing.T) {
	assert.False(t, shouldCollectMetrics("/health"))
	assert.False(t, shouldCollectMetrics("/metrics"))
	assert.True(t, shouldCollectMetrics("/account/profile/"))
}

func TestPrometheusMiddlewareCountsByRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/api/v1/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := requestTotal.WithLabelValues(http.MethodGet, "/api/v1/users/:id", "200")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/users/"+id, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestResponseBytesClampsUnwrittenBody(t *testing.T) {
	r := gin.New()
	var size int
	r.POST("/account/profile/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/account/profile/")
		size = c.Writer.Size()
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/account/profile/", nil))

	assert.Equal(t, -1, size)
	assert.Equal(t, float64(0), responseBytes(size))
	assert.Equal(t, float64(512), responseBytes(512))
}
