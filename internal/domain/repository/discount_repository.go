package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// DiscountRepository define el puerto de persistencia de códigos de descuento.
type DiscountRepository interface {
	// GetByCode devuelve nil, nil si el código no existe. La búsqueda no distingue mayúsculas.
	GetByCode(ctx context.Context, code string) (*entity.DiscountCode, error)
	// IncrementUses suma un uso si no se supera max_uses; false si el código no admite más usos.
	IncrementUses(ctx context.Context, code string) (bool, error)
}
