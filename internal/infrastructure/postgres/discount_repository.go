package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.DiscountRepository = (*DiscountRepo)(nil)

// DiscountRepo códigos de descuento. Nunca se borran; se desactivan.
type DiscountRepo struct {
	q Querier
}

// NewDiscountRepository construye el adaptador.
func NewDiscountRepository(q Querier) *DiscountRepo {
	return &DiscountRepo{q: q}
}

// GetByCode búsqueda sin distinguir mayúsculas; nil, nil si no existe.
func (r *DiscountRepo) GetByCode(ctx context.Context, code string) (*entity.DiscountCode, error) {
	var d entity.DiscountCode
	err := r.q.QueryRow(ctx, `
		SELECT code, type, value, min_order_value, uses_count, max_uses, active, starts_at, expires_at
		FROM discount_codes WHERE upper(code) = upper($1)`, code).Scan(
		&d.Code, &d.Type, &d.Value, &d.MinOrderValue, &d.UsesCount, &d.MaxUses, &d.Active, &d.StartsAt, &d.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount code: %w", err)
	}
	return &d, nil
}

// IncrementUses suma un uso de forma atómica; la condición del UPDATE evita superar max_uses
// aunque dos checkouts canjeen a la vez, y rechaza códigos fuera de su vigencia.
func (r *DiscountRepo) IncrementUses(ctx context.Context, code string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE discount_codes SET uses_count = uses_count + 1
		WHERE upper(code) = upper($1) AND active
		  AND (starts_at IS NULL OR starts_at <= now())
		  AND (expires_at IS NULL OR expires_at > now())
		  AND (max_uses IS NULL OR uses_count < max_uses)`, code)
	if err != nil {
		return false, fmt.Errorf("redeem discount code: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
