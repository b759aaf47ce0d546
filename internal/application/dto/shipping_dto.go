package dto

import "github.com/shopspring/decimal"

// ShippingRateQuery parámetros de GET /api/shipping/rate.
type ShippingRateQuery struct {
	Country     string `query:"country" validate:"required,len=2,alpha"`
	WeightGrams *int   `query:"weight" validate:"required,gte=0"` // puntero: 0 g es un peso válido, ausente no
}

// ShippingRateResponse tarifa resuelta.
type ShippingRateResponse struct {
	ZoneName string          `json:"zone_name"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	MinDays  int             `json:"min_days"`
	MaxDays  int             `json:"max_days"`
	Tracked  bool            `json:"tracked"`
}

// CreateZoneRequest body para POST /api/admin/shipping/zones.
type CreateZoneRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	CountryCodes []string `json:"country_codes" validate:"required,min=1,dive,len=2,alpha"`
	Position     int      `json:"position" validate:"gte=0"`
}

// CreateRateRequest body para POST /api/admin/shipping/zones/:id/rates.
type CreateRateRequest struct {
	Name           string          `json:"name" validate:"required,max=100"`
	MinWeightGrams int             `json:"min_weight_grams" validate:"gte=0"`
	MaxWeightGrams *int            `json:"max_weight_grams,omitempty" validate:"omitempty,gte=0"`
	Price          decimal.Decimal `json:"price"`
	MinDays        int             `json:"min_days" validate:"gte=0"`
	MaxDays        int             `json:"max_days" validate:"gte=0"`
	Tracked        bool            `json:"tracked"`
	Position       int             `json:"position" validate:"gte=0"`
}

// RateResponse tarifa configurada.
type RateResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	MinWeightGrams int             `json:"min_weight_grams"`
	MaxWeightGrams *int            `json:"max_weight_grams"`
	Price          decimal.Decimal `json:"price"`
	MinDays        int             `json:"min_days"`
	MaxDays        int             `json:"max_days"`
	Tracked        bool            `json:"tracked"`
}

// ZoneResponse zona con sus tarifas.
type ZoneResponse struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	CountryCodes []string       `json:"country_codes"`
	Position     int            `json:"position"`
	Rates        []RateResponse `json:"rates"`
}
