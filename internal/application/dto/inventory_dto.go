package dto

import "time"

// StockAvailabilityResponse respuesta de GET /api/stock/:itemId.
type StockAvailabilityResponse struct {
	ItemID    int64 `json:"item_id"`
	Available int   `json:"available"`
}

// BatchAvailabilityRequest body para POST /api/stock/availability.
type BatchAvailabilityRequest struct {
	ItemIDs []int64 `json:"item_ids" validate:"required,min=1,max=200,dive,gt=0"`
}

// BatchAvailabilityResponse disponibilidad por ítem. Todo ID solicitado aparece (0 si es desconocido).
type BatchAvailabilityResponse struct {
	Items map[int64]int `json:"items"`
}

// ReserveRequest body para POST /api/reservations.
type ReserveRequest struct {
	SessionID string `json:"session_id" validate:"required,max=200"`
	ItemID    int64  `json:"item_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// ReservationResponse reserva creada.
type ReservationResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	ItemID    int64     `json:"item_id"`
	Quantity  int       `json:"quantity"`
	ExpiresAt time.Time `json:"expires_at"`
	Available int       `json:"available"` // disponibilidad restante tras reservar
}

// ReleaseResponse resultado de liberar una sesión.
type ReleaseResponse struct {
	SessionID string `json:"session_id"`
	Released  int64  `json:"released"`
}

// SetStockRequest body para PUT /api/admin/stock/:itemId (edición de stock físico).
type SetStockRequest struct {
	PhysicalStock *int `json:"physical_stock" validate:"required,gte=0"`
}
