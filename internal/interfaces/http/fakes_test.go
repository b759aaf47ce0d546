package http_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// ─── Stock + reservas ────────────────────────────────────────────────────────

type memInventory struct {
	mu           sync.Mutex
	items        map[int64]*entity.StockItem
	reservations []entity.Reservation
}

func (m *memInventory) Get(_ context.Context, id int64) (*entity.StockItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (m *memInventory) GetMany(ctx context.Context, ids []int64) (map[int64]*entity.StockItem, error) {
	out := map[int64]*entity.StockItem{}
	for _, id := range ids {
		it, _ := m.Get(ctx, id)
		if it != nil {
			out[id] = it
		}
	}
	return out, nil
}

func (m *memInventory) GetForUpdate(ctx context.Context, id int64) (*entity.StockItem, error) {
	return m.Get(ctx, id)
}

func (m *memInventory) SetPhysical(_ context.Context, id int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id].PhysicalStock = qty
	return nil
}

func (m *memInventory) SumActive(_ context.Context, id int64, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.reservations {
		if r.ItemID == id && r.ExpiresAt.After(now) {
			n += r.Quantity
		}
	}
	return n, nil
}

func (m *memInventory) SumActiveMany(ctx context.Context, ids []int64, now time.Time) (map[int64]int, error) {
	out := map[int64]int{}
	for _, id := range ids {
		n, _ := m.SumActive(ctx, id, now)
		out[id] = n
	}
	return out, nil
}

func (m *memInventory) Create(_ context.Context, r *entity.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = append(m.reservations, *r)
	return nil
}

func (m *memInventory) ListBySession(_ context.Context, sid string) ([]*entity.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Reservation
	for i := range m.reservations {
		if m.reservations[i].SessionID == sid {
			r := m.reservations[i]
			out = append(out, &r)
		}
	}
	return out, nil
}

func (m *memInventory) DeleteBySession(_ context.Context, sid string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.reservations[:0]
	var n int64
	for _, r := range m.reservations {
		if r.SessionID == sid {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.reservations = kept
	return n, nil
}

func (m *memInventory) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

func (m *memInventory) Run(_ context.Context, fn func(repository.StockRepository, repository.ReservationRepository) error) error {
	return fn(m, m)
}

// ─── Envíos ──────────────────────────────────────────────────────────────────

type memShipping struct {
	zones  []entity.ShippingZone
	rates  map[int64][]entity.ShippingRate
	nextID int64
}

func (m *memShipping) ListZones(context.Context) ([]entity.ShippingZone, error) { return m.zones, nil }
func (m *memShipping) ListRates(context.Context) (map[int64][]entity.ShippingRate, error) {
	return m.rates, nil
}

func (m *memShipping) CreateZone(_ context.Context, z *entity.ShippingZone) error {
	m.nextID++
	z.ID = m.nextID
	m.zones = append(m.zones, *z)
	return nil
}

func (m *memShipping) CreateRate(_ context.Context, r *entity.ShippingRate) error {
	m.nextID++
	r.ID = m.nextID
	m.rates[r.ZoneID] = append(m.rates[r.ZoneID], *r)
	return nil
}

// ─── Settings y descuentos ───────────────────────────────────────────────────

type memSettings struct {
	mu   sync.Mutex
	rows map[string]string
}

func (m *memSettings) GetAll(context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for k, v := range m.rows {
		out[k] = v
	}
	return out, nil
}

func (m *memSettings) Upsert(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.rows[k] = v
	}
	return nil
}

type memDiscounts map[string]*entity.DiscountCode

func (m memDiscounts) GetByCode(_ context.Context, code string) (*entity.DiscountCode, error) {
	return m[strings.ToUpper(code)], nil
}

func (m memDiscounts) IncrementUses(_ context.Context, code string) (bool, error) {
	d := m[strings.ToUpper(code)]
	if d == nil || (d.MaxUses != nil && d.UsesCount >= *d.MaxUses) {
		return false, nil
	}
	d.UsesCount++
	return true, nil
}
