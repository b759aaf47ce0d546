package repository

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// ReservationRepository define el puerto de persistencia de reservas de checkout.
type ReservationRepository interface {
	// SumActive suma las reservas de itemID con expires_at > now.
	SumActive(ctx context.Context, itemID int64, now time.Time) (int, error)
	// SumActiveMany agrega por ítem en una sola consulta; ítems sin reservas no aparecen.
	SumActiveMany(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]int, error)
	Create(ctx context.Context, r *entity.Reservation) error
	ListBySession(ctx context.Context, sessionID string) ([]*entity.Reservation, error)
	// DeleteBySession borra las reservas de la sesión y devuelve cuántas había.
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
	// DeleteExpired borra reservas con expires_at <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
