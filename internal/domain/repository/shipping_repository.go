package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// ShippingRepository define el puerto para la configuración de zonas y tarifas.
type ShippingRepository interface {
	// ListZones devuelve las zonas en orden almacenado (position, id).
	ListZones(ctx context.Context) ([]entity.ShippingZone, error)
	// ListRates devuelve todas las tarifas agrupadas por zona, en orden (min_weight_grams, position, id).
	ListRates(ctx context.Context) (map[int64][]entity.ShippingRate, error)
	CreateZone(ctx context.Context, z *entity.ShippingZone) error
	CreateRate(ctx context.Context, r *entity.ShippingRate) error
}
