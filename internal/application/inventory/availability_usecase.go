package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// AvailabilityUseCase informa cuántas unidades de un ítem se pueden vender ahora.
// Solo lectura; un ítem desconocido vale 0 (no es error).
type AvailabilityUseCase struct {
	stockRepo       repository.StockRepository
	reservationRepo repository.ReservationRepository
}

// NewAvailabilityUseCase construye el caso de uso.
func NewAvailabilityUseCase(stockRepo repository.StockRepository, reservationRepo repository.ReservationRepository) *AvailabilityUseCase {
	return &AvailabilityUseCase{stockRepo: stockRepo, reservationRepo: reservationRepo}
}

// AvailableStock = max(0, stock físico - reservas vigentes).
func (uc *AvailabilityUseCase) AvailableStock(ctx context.Context, itemID int64) (int, error) {
	if itemID <= 0 {
		return 0, domain.ErrInvalidInput
	}
	now := time.Now()
	item, err := uc.stockRepo.Get(ctx, itemID)
	if err != nil {
		return 0, err
	}
	physical := 0
	if item != nil {
		physical = item.PhysicalStock
	}
	reserved, err := uc.reservationRepo.SumActive(ctx, itemID, now)
	if err != nil {
		return 0, err
	}
	return inventory.Available(physical, reserved), nil
}

// AvailableStockBatch misma fórmula en lote: una lectura de stock físico y una agregación
// de reservas, ambas con el mismo now. Todo ID solicitado aparece en el resultado.
// Un ID no positivo invalida el lote entero, igual que en AvailableStock.
func (uc *AvailabilityUseCase) AvailableStockBatch(ctx context.Context, itemIDs []int64) (map[int64]int, error) {
	for _, id := range itemIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: item_id %d", domain.ErrInvalidInput, id)
		}
	}
	ids := uniqueIDs(itemIDs)
	if len(ids) == 0 {
		return map[int64]int{}, nil
	}
	now := time.Now()
	items, err := uc.stockRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	reserved, err := uc.reservationRepo.SumActiveMany(ctx, ids, now)
	if err != nil {
		return nil, err
	}
	physical := make(map[int64]int, len(items))
	for id, it := range items {
		physical[id] = it.PhysicalStock
	}
	return inventory.AvailableBatch(ids, physical, reserved), nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
