package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `item_id, kind, sku, name, physical_stock, weight_grams, price, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(&it.ItemID, &it.Kind, &it.SKU, &it.Name, &it.PhysicalStock, &it.WeightGrams, &it.Price, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Get obtiene el ítem; nil, nil si no existe.
func (r *StockRepo) Get(ctx context.Context, itemID int64) (*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE item_id = $1`
	it, err := scanStockItem(r.q.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return it, nil
}

// GetMany una sola consulta para todos los IDs.
func (r *StockRepo) GetMany(ctx context.Context, itemIDs []int64) (map[int64]*entity.StockItem, error) {
	out := make(map[int64]*entity.StockItem, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE item_id = ANY($1)`
	rows, err := r.q.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		out[it.ItemID] = it
	}
	return out, rows.Err()
}

// GetForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID int64) (*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE item_id = $1 FOR UPDATE`
	it, err := scanStockItem(r.q.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item for update: %w", err)
	}
	return it, nil
}

// SetPhysical fija el stock físico.
func (r *StockRepo) SetPhysical(ctx context.Context, itemID int64, quantity int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_items SET physical_stock = $2, updated_at = now() WHERE item_id = $1`,
		itemID, quantity)
	if err != nil {
		return fmt.Errorf("update physical stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
