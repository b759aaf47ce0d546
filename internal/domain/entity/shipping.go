package entity

import "github.com/shopspring/decimal"

// ShippingZone agrupa países de destino que comparten la misma tabla de tarifas.
// Position define el orden almacenado (la resolución usa el primer match).
type ShippingZone struct {
	ID           int64
	Name         string
	CountryCodes []string // ISO 3166-1 alfa-2 en mayúsculas
	Position     int
}

// Contains indica si el código de país pertenece a la zona.
func (z ShippingZone) Contains(countryCode string) bool {
	for _, c := range z.CountryCodes {
		if c == countryCode {
			return true
		}
	}
	return false
}

// ShippingRate es un tramo de peso dentro de una zona.
// MaxWeightGrams nil = sin límite superior.
type ShippingRate struct {
	ID             int64
	ZoneID         int64
	Name           string
	MinWeightGrams int
	MaxWeightGrams *int
	Price          decimal.Decimal
	MinDays        int
	MaxDays        int
	Tracked        bool
	Position       int
}

// Covers indica si el tramo cubre el peso dado (límites inclusivos).
func (r ShippingRate) Covers(weightGrams int) bool {
	if weightGrams < r.MinWeightGrams {
		return false
	}
	return r.MaxWeightGrams == nil || weightGrams <= *r.MaxWeightGrams
}
