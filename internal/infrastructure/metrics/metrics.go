package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics métricas Prometheus del servicio. Un puntero nil es válido y no registra nada.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec   // method, route, status
	HTTPDuration *prometheus.HistogramVec // method, route

	// Reservations resultado de POST /api/reservations: created, insufficient, not_found, error.
	Reservations       *prometheus.CounterVec
	ReservationsPurged prometheus.Counter

	// ShippingResolutions ok | unavailable.
	ShippingResolutions *prometheus.CounterVec

	// CacheRequests caché del catálogo de envíos: hit, miss, error.
	CacheRequests *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registra las métricas en reg (nil = registry nuevo, no el global, para que los tests no choquen).
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_http_requests_total",
				Help: "Requests HTTP por método, ruta y status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "Latencia de requests HTTP",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Reservations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_stock_reservations_total",
				Help: "Intentos de reserva de stock por resultado",
			},
			[]string{"result"},
		),
		ReservationsPurged: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_stock_reservations_purged_total",
				Help: "Reservas vencidas eliminadas por el job de limpieza",
			},
		),
		ShippingResolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_shipping_resolutions_total",
				Help: "Resoluciones de tarifa de envío por resultado",
			},
			[]string{"result"},
		),
		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_shipping_cache_requests_total",
				Help: "Lecturas del catálogo de envíos en Redis por resultado",
			},
			[]string{"result"},
		),
		gatherer: reg,
	}
}

func (m *Metrics) ObserveReservation(result string) {
	if m == nil {
		return
	}
	m.Reservations.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePurge(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.ReservationsPurged.Add(float64(n))
}

func (m *Metrics) ObserveShipping(result string) {
	if m == nil {
		return
	}
	m.ShippingResolutions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// Middleware cuenta requests y latencia. Usa la ruta registrada (/api/stock/:itemId), no la URL,
// para no disparar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}
