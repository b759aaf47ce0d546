package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// ReservationUseCase retiene inventario para sesiones de checkout sin sobreventa:
// bloquea la fila de stock (SELECT FOR UPDATE), recalcula disponibilidad e inserta en la misma tx.
type ReservationUseCase struct {
	txRunner        TxRunner
	reservationRepo repository.ReservationRepository
	events          ReservationEvents
	ttl             time.Duration
}

// NewReservationUseCase construye el caso de uso. events puede ser nil.
func NewReservationUseCase(
	txRunner TxRunner,
	reservationRepo repository.ReservationRepository,
	events ReservationEvents,
	ttl time.Duration,
) *ReservationUseCase {
	if events == nil {
		events = noopEvents{}
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &ReservationUseCase{
		txRunner:        txRunner,
		reservationRepo: reservationRepo,
		events:          events,
		ttl:             ttl,
	}
}

// Reserve crea una reserva si quantity <= disponible. ErrNotFound si el ítem no existe,
// ErrInsufficientStock si no alcanza.
func (uc *ReservationUseCase) Reserve(ctx context.Context, in dto.ReserveRequest) (*dto.ReservationResponse, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" || in.ItemID <= 0 || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	reservation := entity.Reservation{
		ID:        uuid.New().String(),
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		SessionID: sessionID,
		ExpiresAt: now.Add(uc.ttl),
		CreatedAt: now,
	}
	var remaining int

	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		// Bloquea la fila del ítem para serializar reservas concurrentes
		item, err := stockRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		reserved, err := reservationRepo.SumActive(ctx, in.ItemID, now)
		if err != nil {
			return err
		}
		available := inventory.Available(item.PhysicalStock, reserved)
		if in.Quantity > available {
			return domain.ErrInsufficientStock
		}
		if err := reservationRepo.Create(ctx, &reservation); err != nil {
			return err
		}
		remaining = available - in.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Reserved(ctx, reservation)
	return &dto.ReservationResponse{
		ID:        reservation.ID,
		SessionID: reservation.SessionID,
		ItemID:    reservation.ItemID,
		Quantity:  reservation.Quantity,
		ExpiresAt: reservation.ExpiresAt,
		Available: remaining,
	}, nil
}

// ReleaseSession borra las reservas de una sesión (checkout completado o abandonado).
func (uc *ReservationUseCase) ReleaseSession(ctx context.Context, sessionID string) (*dto.ReleaseResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var (
		n     int64
		items map[int64]int
	)
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockRepository,
		reservationRepo repository.ReservationRepository,
	) error {
		held, err := reservationRepo.ListBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		n, err = reservationRepo.DeleteBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		items = releasedByItem(held, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		uc.events.Released(ctx, sessionID, n, items)
	}
	return &dto.ReleaseResponse{SessionID: sessionID, Released: n}, nil
}

// releasedByItem unidades que vuelven a estar disponibles por ítem; las reservas vencidas ya no contaban.
func releasedByItem(held []*entity.Reservation, now time.Time) map[int64]int {
	flat := make([]entity.Reservation, 0, len(held))
	for _, r := range held {
		flat = append(flat, *r)
	}
	out := make(map[int64]int)
	for _, r := range flat {
		if _, done := out[r.ItemID]; done {
			continue
		}
		out[r.ItemID] = inventory.ReservedQuantity(flat, r.ItemID, now)
	}
	for id, q := range out {
		if q == 0 {
			delete(out, id)
		}
	}
	return out
}

// PurgeExpired limpia reservas vencidas. La disponibilidad no depende de esta limpieza.
func (uc *ReservationUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	return uc.reservationRepo.DeleteExpired(ctx, time.Now())
}
