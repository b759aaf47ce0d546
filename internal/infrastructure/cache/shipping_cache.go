package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/infrastructure/metrics"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// Claves del catálogo de envíos en Redis. Zonas y tarifas se guardan juntas bajo
// shipping:catalog:v<gen>; Invalidate incrementa la generación y las entradas viejas expiran por TTL.
const (
	KeyShippingCatalog    = "shipping:catalog"
	KeyShippingCatalogGen = "shipping:catalog:gen"
)

var _ repository.ShippingRepository = (*ShippingCache)(nil)

// ShippingCache decora un ShippingRepository con caché en Redis (read-through).
// Si Redis falla o el breaker está abierto se lee de la fuente; nunca se inventa una tarifa.
// Las escrituras van a la fuente y luego avanzan la generación.
type ShippingCache struct {
	next    repository.ShippingRepository
	rdb     redis.Cmdable
	ttl     time.Duration
	breaker *Breaker
	log     *logger.Logger
	metrics *metrics.Metrics
}

type catalogSnapshot struct {
	Zones []entity.ShippingZone           `json:"zones"`
	Rates map[int64][]entity.ShippingRate `json:"rates"`
}

// NewShippingCache construye el decorador. m puede ser nil.
func NewShippingCache(next repository.ShippingRepository, rdb redis.Cmdable, ttl time.Duration, log *logger.Logger, m *metrics.Metrics) *ShippingCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("shipping-cache")
	return &ShippingCache{
		next:    next,
		rdb:     rdb,
		ttl:     ttl,
		breaker: NewBreaker(DefaultBreakerConfig("redis-shipping"), log),
		log:     log,
		metrics: m,
	}
}

// LoadCatalog zonas y tarifas de una misma generación.
// Una lectura que empezó antes de Invalidate escribe en la generación anterior, que ya nadie lee.
func (c *ShippingCache) LoadCatalog(ctx context.Context) ([]entity.ShippingZone, map[int64][]entity.ShippingRate, error) {
	gen, cacheable := c.generation(ctx)
	key := catalogKey(gen)
	if cacheable {
		var snap catalogSnapshot
		if c.get(ctx, key, &snap) {
			return snap.Zones, snap.Rates, nil
		}
	}
	zones, err := c.next.ListZones(ctx)
	if err != nil {
		return nil, nil, err
	}
	rates, err := c.next.ListRates(ctx)
	if err != nil {
		return nil, nil, err
	}
	if cacheable {
		c.set(ctx, key, catalogSnapshot{Zones: zones, Rates: rates})
	}
	return zones, rates, nil
}

func (c *ShippingCache) ListZones(ctx context.Context) ([]entity.ShippingZone, error) {
	zones, _, err := c.LoadCatalog(ctx)
	return zones, err
}

func (c *ShippingCache) ListRates(ctx context.Context) (map[int64][]entity.ShippingRate, error) {
	_, rates, err := c.LoadCatalog(ctx)
	return rates, err
}

func (c *ShippingCache) CreateZone(ctx context.Context, z *entity.ShippingZone) error {
	if err := c.next.CreateZone(ctx, z); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *ShippingCache) CreateRate(ctx context.Context, r *entity.ShippingRate) error {
	if err := c.next.CreateRate(ctx, r); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Invalidate avanza la generación del catálogo. Un fallo solo se registra: el TTL acota la inconsistencia.
func (c *ShippingCache) Invalidate(ctx context.Context) {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.rdb.Incr(ctx, KeyShippingCatalogGen).Err()
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("no se pudo invalidar el catálogo de envíos en Redis")
	}
}

// generation lee la generación vigente; sin clave es 0. false si Redis no responde.
func (c *ShippingCache) generation(ctx context.Context) (int64, bool) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		n, err := c.rdb.Get(ctx, KeyShippingCatalogGen).Int64()
		if errors.Is(err, redis.Nil) {
			return int64(0), nil
		}
		return n, err
	})
	if err != nil {
		c.metrics.ObserveCache("error")
		c.log.Debug().Err(err).Msg("generación del catálogo no disponible, se usa Postgres")
		return 0, false
	}
	return out.(int64), true
}

func catalogKey(gen int64) string {
	return KeyShippingCatalog + ":v" + strconv.FormatInt(gen, 10)
}

// get devuelve true si encontró la clave y pudo decodificarla.
func (c *ShippingCache) get(ctx context.Context, key string, dst any) bool {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		b, err := c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// miss no cuenta como fallo del breaker
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		c.metrics.ObserveCache("error")
		c.log.Debug().Err(err).Str("key", key).Msg("lectura de caché fallida, se usa Postgres")
		return false
	}
	b, _ := out.([]byte)
	if b == nil {
		c.metrics.ObserveCache("miss")
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		c.metrics.ObserveCache("error")
		c.log.Warn().Err(err).Str("key", key).Msg("entrada de caché corrupta")
		return false
	}
	c.metrics.ObserveCache("hit")
	return true
}

func (c *ShippingCache) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.rdb.Set(ctx, key, b, c.ttl).Err()
	})
	if err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("no se pudo escribir la caché")
	}
}
