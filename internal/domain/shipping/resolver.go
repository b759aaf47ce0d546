package shipping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// Catalog zonas en orden almacenado y sus tarifas agrupadas por zona.
type Catalog struct {
	Zones []entity.ShippingZone
	Rates map[int64][]entity.ShippingRate
}

// Quote resultado de resolver una tarifa.
type Quote struct {
	ZoneID   int64
	ZoneName string
	Rate     entity.ShippingRate
}

// NormalizeCountry deja el código ISO en mayúsculas y sin espacios.
func NormalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FindZone devuelve la primera zona (orden almacenado) que contiene el país.
func FindZone(zones []entity.ShippingZone, countryCode string) (entity.ShippingZone, bool) {
	for _, z := range zones {
		if z.Contains(countryCode) {
			return z, true
		}
	}
	return entity.ShippingZone{}, false
}

// SelectRate recorre las tarifas por MinWeightGrams ascendente (estable respecto al orden almacenado)
// y devuelve la primera que cubre el peso.
func SelectRate(rates []entity.ShippingRate, weightGrams int) (entity.ShippingRate, bool) {
	ordered := make([]entity.ShippingRate, len(rates))
	copy(ordered, rates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MinWeightGrams < ordered[j].MinWeightGrams
	})
	for _, r := range ordered {
		if r.Covers(weightGrams) {
			return r, true
		}
	}
	return entity.ShippingRate{}, false
}

// Resolve elige zona y tramo para el país y peso dados.
// Sin zona o sin tramo devuelve domain.ErrShippingUnavailable; nunca un precio por defecto.
func Resolve(c Catalog, countryCode string, weightGrams int) (Quote, error) {
	if weightGrams < 0 {
		return Quote{}, domain.ErrInvalidInput
	}
	country := NormalizeCountry(countryCode)
	zone, ok := FindZone(c.Zones, country)
	if !ok {
		return Quote{}, fmt.Errorf("país %s sin zona: %w", country, domain.ErrShippingUnavailable)
	}
	rate, ok := SelectRate(c.Rates[zone.ID], weightGrams)
	if !ok {
		return Quote{}, fmt.Errorf("zona %s sin tramo para %dg: %w", zone.Name, weightGrams, domain.ErrShippingUnavailable)
	}
	return Quote{ZoneID: zone.ID, ZoneName: zone.Name, Rate: rate}, nil
}
