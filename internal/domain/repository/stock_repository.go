package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// StockRepository define el puerto para leer el stock físico de productos/variantes.
type StockRepository interface {
	// Get devuelve nil, nil si el ítem no existe.
	Get(ctx context.Context, itemID int64) (*entity.StockItem, error)
	// GetMany devuelve solo los ítems existentes, indexados por ID.
	GetMany(ctx context.Context, itemIDs []int64) (map[int64]*entity.StockItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, itemID int64) (*entity.StockItem, error)
	// SetPhysical fija el stock físico (edición de admin).
	SetPhysical(ctx context.Context, itemID int64, quantity int) error
}
