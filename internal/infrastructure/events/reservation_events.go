package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// Tipos de evento publicados en el topic de reservas.
const (
	EventStockReserved = "stock.reserved"
	EventStockReleased = "stock.released"
)

var _ inventory.ReservationEvents = (*ReservationPublisher)(nil)

// Envelope formato común de los eventos.
type Envelope struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// StockReservedPayload payload de stock.reserved.
type StockReservedPayload struct {
	ReservationID string    `json:"reservation_id"`
	SessionID     string    `json:"session_id"`
	ItemID        int64     `json:"item_id"`
	Quantity      int       `json:"quantity"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// StockReleasedPayload payload de stock.released.
type StockReleasedPayload struct {
	SessionID string        `json:"session_id"`
	Released  int64         `json:"released"`
	Items     map[int64]int `json:"items"` // unidades devueltas a la disponibilidad por item_id
}

// ReservationPublisher implementa inventory.ReservationEvents sobre el Producer.
type ReservationPublisher struct {
	p *Producer
}

// NewReservationPublisher construye el publicador.
func NewReservationPublisher(p *Producer) *ReservationPublisher {
	return &ReservationPublisher{p: p}
}

// Reserved la clave es el item_id para que los eventos de un ítem queden en orden en la partición.
func (r *ReservationPublisher) Reserved(_ context.Context, res entity.Reservation) {
	r.publish(strconv.FormatInt(res.ItemID, 10), EventStockReserved, StockReservedPayload{
		ReservationID: res.ID,
		SessionID:     res.SessionID,
		ItemID:        res.ItemID,
		Quantity:      res.Quantity,
		ExpiresAt:     res.ExpiresAt,
	})
}

func (r *ReservationPublisher) Released(_ context.Context, sessionID string, count int64, items map[int64]int) {
	r.publish(sessionID, EventStockReleased, StockReleasedPayload{SessionID: sessionID, Released: count, Items: items})
}

func (r *ReservationPublisher) publish(key, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		r.p.log.Error().Err(err).Str("type", eventType).Msg("serializar payload")
		return
	}
	env, err := json.Marshal(Envelope{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
	if err != nil {
		r.p.log.Error().Err(err).Str("type", eventType).Msg("serializar evento")
		return
	}
	r.p.Publish([]byte(key), env, kafka.Header{Key: "type", Value: []byte(eventType)})
}
