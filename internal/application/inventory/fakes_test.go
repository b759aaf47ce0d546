package inventory_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// memStore implementa StockRepository y ReservationRepository en memoria.
type memStore struct {
	mu           sync.Mutex
	items        map[int64]*entity.StockItem
	reservations []*entity.Reservation
	failSum      error
}

func newMemStore(stock map[int64]int) *memStore {
	s := &memStore{items: map[int64]*entity.StockItem{}}
	for id, qty := range stock {
		s.items[id] = &entity.StockItem{ItemID: id, Kind: entity.ItemKindProduct, PhysicalStock: qty}
	}
	return s
}

func (s *memStore) addReservation(itemID int64, qty int, session string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations = append(s.reservations, &entity.Reservation{
		ID: session + "-r", ItemID: itemID, Quantity: qty, SessionID: session, ExpiresAt: expiresAt,
	})
}

func (s *memStore) Get(_ context.Context, itemID int64) (*entity.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[itemID]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) GetMany(_ context.Context, itemIDs []int64) (map[int64]*entity.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64]*entity.StockItem{}
	for _, id := range itemIDs {
		if it, ok := s.items[id]; ok {
			cp := *it
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *memStore) GetForUpdate(ctx context.Context, itemID int64) (*entity.StockItem, error) {
	return s.Get(ctx, itemID)
}

func (s *memStore) SetPhysical(_ context.Context, itemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[itemID].PhysicalStock = quantity
	return nil
}

func (s *memStore) SumActive(_ context.Context, itemID int64, now time.Time) (int, error) {
	if s.failSum != nil {
		return 0, s.failSum
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, r := range s.reservations {
		if r.ItemID == itemID && r.ExpiresAt.After(now) {
			total += r.Quantity
		}
	}
	return total, nil
}

func (s *memStore) SumActiveMany(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]int, error) {
	out := map[int64]int{}
	for _, id := range itemIDs {
		n, err := s.SumActive(ctx, id, now)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (s *memStore) Create(_ context.Context, r *entity.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.reservations = append(s.reservations, &cp)
	return nil
}

func (s *memStore) ListBySession(_ context.Context, sessionID string) ([]*entity.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range s.reservations {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) DeleteBySession(_ context.Context, sessionID string) (int64, error) {
	return s.deleteWhere(func(r *entity.Reservation) bool { return r.SessionID == sessionID }), nil
}

func (s *memStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	return s.deleteWhere(func(r *entity.Reservation) bool { return !r.ExpiresAt.After(now) }), nil
}

func (s *memStore) deleteWhere(match func(*entity.Reservation) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.reservations[:0]
	var n int64
	for _, r := range s.reservations {
		if match(r) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.reservations = kept
	return n
}

// serialTx emula el bloqueo de fila serializando las transacciones.
type serialTx struct {
	mu    sync.Mutex
	store *memStore
}

func (t *serialTx) Run(_ context.Context, fn func(
	stockRepo repository.StockRepository,
	reservationRepo repository.ReservationRepository,
) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.store, t.store)
}

// recordingEvents guarda los eventos publicados.
type recordingEvents struct {
	mu       sync.Mutex
	reserved []entity.Reservation
	released map[string]int64
	items    map[string]map[int64]int
}

func (e *recordingEvents) Reserved(_ context.Context, r entity.Reservation) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reserved = append(e.reserved, r)
}

func (e *recordingEvents) Released(_ context.Context, sessionID string, count int64, items map[int64]int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released == nil {
		e.released = map[string]int64{}
		e.items = map[string]map[int64]int{}
	}
	e.released[sessionID] = count
	e.items[sessionID] = items
}
