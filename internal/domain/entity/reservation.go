package entity

import "time"

// Reservation retiene inventario mientras una sesión de checkout está en curso.
// Una reserva con ExpiresAt <= now deja de contar aunque la fila siga existiendo.
type Reservation struct {
	ID        string
	ItemID    int64
	Quantity  int
	SessionID string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsActiveAt indica si la reserva sigue reteniendo stock en el instante dado.
func (r Reservation) IsActiveAt(now time.Time) bool {
	return r.ExpiresAt.After(now)
}
