package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// StockAdminUseCase edición de stock físico desde el panel de administración.
type StockAdminUseCase struct {
	txRunner TxRunner
}

// NewStockAdminUseCase construye el caso de uso.
func NewStockAdminUseCase(txRunner TxRunner) *StockAdminUseCase {
	return &StockAdminUseCase{txRunner: txRunner}
}

// SetPhysicalStock fija el stock físico bajo bloqueo de fila y devuelve la disponibilidad resultante.
// Si las reservas vigentes superan el nuevo stock, la disponibilidad queda en 0 (no se rechaza).
func (uc *StockAdminUseCase) SetPhysicalStock(ctx context.Context, itemID int64, in dto.SetStockRequest) (*dto.StockAvailabilityResponse, error) {
	if itemID <= 0 || in.PhysicalStock == nil || *in.PhysicalStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	var available int
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		item, err := stockRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if err := stockRepo.SetPhysical(ctx, itemID, *in.PhysicalStock); err != nil {
			return err
		}
		reserved, err := reservationRepo.SumActive(ctx, itemID, time.Now())
		if err != nil {
			return err
		}
		available = inventory.Available(*in.PhysicalStock, reserved)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StockAvailabilityResponse{ItemID: itemID, Available: available}, nil
}
