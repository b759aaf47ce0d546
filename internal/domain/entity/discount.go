package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de descuento.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// DiscountCode código promocional. Nunca se borra físicamente; se desactiva.
type DiscountCode struct {
	Code          string
	Type          string
	Value         decimal.Decimal // porcentaje (0-100) o monto fijo
	MinOrderValue decimal.Decimal
	UsesCount     int
	MaxUses       *int // nil = ilimitado
	Active        bool
	StartsAt      *time.Time
	ExpiresAt     *time.Time
}
