package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.ShippingRepository = (*ShippingRepo)(nil)

// ShippingRepo zonas y tramos de envío sobre PostgreSQL.
type ShippingRepo struct {
	q Querier
}

// NewShippingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShippingRepository(q Querier) *ShippingRepo {
	return &ShippingRepo{q: q}
}

// ListZones en orden almacenado: position, id. La resolución toma la primera que contenga el país.
func (r *ShippingRepo) ListZones(ctx context.Context) ([]entity.ShippingZone, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, country_codes, position
		FROM shipping_zones
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list shipping zones: %w", err)
	}
	defer rows.Close()
	var out []entity.ShippingZone
	for rows.Next() {
		var z entity.ShippingZone
		if err := rows.Scan(&z.ID, &z.Name, &z.CountryCodes, &z.Position); err != nil {
			return nil, fmt.Errorf("scan shipping zone: %w", err)
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

// ListRates todas las tarifas agrupadas por zona, en orden min_weight_grams, position, id.
func (r *ShippingRepo) ListRates(ctx context.Context) (map[int64][]entity.ShippingRate, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, zone_id, name, min_weight_grams, max_weight_grams, price,
		       min_days, max_days, tracked, position
		FROM shipping_rates
		ORDER BY zone_id, min_weight_grams, position, id`)
	if err != nil {
		return nil, fmt.Errorf("list shipping rates: %w", err)
	}
	defer rows.Close()
	out := make(map[int64][]entity.ShippingRate)
	for rows.Next() {
		var rt entity.ShippingRate
		if err := rows.Scan(
			&rt.ID, &rt.ZoneID, &rt.Name, &rt.MinWeightGrams, &rt.MaxWeightGrams, &rt.Price,
			&rt.MinDays, &rt.MaxDays, &rt.Tracked, &rt.Position,
		); err != nil {
			return nil, fmt.Errorf("scan shipping rate: %w", err)
		}
		out[rt.ZoneID] = append(out[rt.ZoneID], rt)
	}
	return out, rows.Err()
}

// CreateZone inserta la zona y completa z.ID.
func (r *ShippingRepo) CreateZone(ctx context.Context, z *entity.ShippingZone) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO shipping_zones (name, country_codes, position)
		VALUES ($1, $2, $3)
		RETURNING id`, z.Name, z.CountryCodes, z.Position).Scan(&z.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipping zone: %w", err)
	}
	return nil
}

// CreateRate inserta el tramo y completa rt.ID. ErrNotFound si la zona no existe.
func (r *ShippingRepo) CreateRate(ctx context.Context, rt *entity.ShippingRate) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO shipping_rates (zone_id, name, min_weight_grams, max_weight_grams, price,
		                            min_days, max_days, tracked, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		rt.ZoneID, rt.Name, rt.MinWeightGrams, rt.MaxWeightGrams, rt.Price,
		rt.MinDays, rt.MaxDays, rt.Tracked, rt.Position,
	).Scan(&rt.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert shipping rate: %w", err)
	}
	return nil
}
