package cache

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/storefront-api/pkg/logger"
)

// ErrCircuitOpen Redis marcado como caído; se va directo a Postgres.
var ErrCircuitOpen = errors.New("cache: circuit breaker abierto")

// BreakerConfig umbrales del circuit breaker de Redis.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // requests permitidos en half-open
	Interval         time.Duration // ventana para limpiar contadores (0 = nunca)
	Timeout          time.Duration // tiempo en open antes de pasar a half-open
	FailureThreshold uint32        // fallos consecutivos para abrir
}

// DefaultBreakerConfig valores por defecto para la caché de envíos.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

// Breaker envuelve gobreaker registrando los cambios de estado.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker crea el breaker.
func NewBreaker(cfg BreakerConfig, log *logger.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker cambió de estado")
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute corre fn a través del breaker. Open/too-many se traducen a ErrCircuitOpen.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return out, err
}

// State estado actual (closed, half-open, open).
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
