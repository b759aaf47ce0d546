package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo reservas de stock con vencimiento (stock_reservations).
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// SumActive suma las cantidades con expires_at > now.
func (r *ReservationRepo) SumActive(ctx context.Context, itemID int64, now time.Time) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::int
		FROM stock_reservations
		WHERE item_id = $1 AND expires_at > $2`, itemID, now).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum reservations: %w", err)
	}
	return total, nil
}

// SumActiveMany una agregación agrupada para varios ítems. Los ítems sin reservas no aparecen.
func (r *ReservationRepo) SumActiveMany(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]int, error) {
	out := make(map[int64]int, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT item_id, SUM(quantity)::int
		FROM stock_reservations
		WHERE item_id = ANY($1) AND expires_at > $2
		GROUP BY item_id`, itemIDs, now)
	if err != nil {
		return nil, fmt.Errorf("sum reservations batch: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan reservation sum: %w", err)
		}
		out[id] = qty
	}
	return out, rows.Err()
}

// Create inserta la reserva.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_reservations (id, item_id, quantity, session_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.ItemID, res.Quantity, res.SessionID, res.ExpiresAt, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// ListBySession reservas de una sesión (vigentes o no), más recientes primero.
func (r *ReservationRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.Reservation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, item_id, quantity, session_id, expires_at, created_at
		FROM stock_reservations WHERE session_id = $1
		ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		if err := rows.Scan(&res.ID, &res.ItemID, &res.Quantity, &res.SessionID, &res.ExpiresAt, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

// DeleteBySession libera todas las reservas de la sesión.
func (r *ReservationRepo) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_reservations WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete session reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpired borra las reservas con expires_at <= now.
func (r *ReservationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_reservations WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purge reservations: %w", err)
	}
	return tag.RowsAffected(), nil
}
