package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/infrastructure/metrics"
)

func TestMiddleware_CuentaPorRuta(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/stock/:itemId", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/metrics", m.Handler())

	for _, id := range []string{"1", "2", "3"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/stock/"+id, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/stock/:itemId", "200")))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "storefront_http_requests_total")
}

func TestObserve_NilEsSeguro(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveReservation("created")
		m.ObservePurge(3)
		m.ObserveShipping("ok")
		m.ObserveCache("hit")
	})
}

func TestObserve_Contadores(t *testing.T) {
	m := metrics.New(nil)
	m.ObserveReservation("insufficient")
	m.ObservePurge(4)
	m.ObservePurge(0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reservations.WithLabelValues("insufficient")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ReservationsPurged))
}
