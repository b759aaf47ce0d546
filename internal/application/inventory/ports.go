package inventory

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el chequeo de stock + inserción de reserva.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		reservationRepo repository.ReservationRepository,
	) error) error
}

// ReservationEvents publica cambios de reservas hacia otros servicios.
// Las implementaciones no deben bloquear ni fallar el request.
type ReservationEvents interface {
	Reserved(ctx context.Context, r entity.Reservation)
	// items: unidades vigentes devueltas por ítem.
	Released(ctx context.Context, sessionID string, count int64, items map[int64]int)
}

type noopEvents struct{}

func (noopEvents) Reserved(context.Context, entity.Reservation) {}
func (noopEvents) Released(context.Context, string, int64, map[int64]int) {}
