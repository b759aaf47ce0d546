package shipping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/pkg/country"
)

// Overlap un país presente en más de una zona. Zones en orden almacenado; la primera gana al resolver.
type Overlap struct {
	Country string
	Zones   []string
}

// ValidationReport resultado de validar la configuración de zonas.
type ValidationReport struct {
	Overlaps         []Overlap
	InvalidCountries []string // "zona:código"
}

// OK indica que la configuración es disjunta y bien formada.
func (r ValidationReport) OK() bool {
	return len(r.Overlaps) == 0 && len(r.InvalidCountries) == 0
}

// Error resume el reporte en un solo mensaje.
func (r ValidationReport) Error() string {
	var parts []string
	for _, o := range r.Overlaps {
		parts = append(parts, fmt.Sprintf("%s en %s", o.Country, strings.Join(o.Zones, ",")))
	}
	if len(r.InvalidCountries) > 0 {
		parts = append(parts, "códigos inválidos: "+strings.Join(r.InvalidCountries, ","))
	}
	return "zonas de envío: " + strings.Join(parts, "; ")
}

// ValidateZones detecta países repetidos entre zonas y códigos ISO mal formados.
// No modifica la resolución (primer match); solo reporta.
func ValidateZones(zones []entity.ShippingZone) ValidationReport {
	var report ValidationReport
	owners := make(map[string][]string)
	var order []string
	for _, z := range zones {
		seen := make(map[string]bool, len(z.CountryCodes))
		for _, raw := range z.CountryCodes {
			code, err := country.Validate(raw)
			if err != nil {
				report.InvalidCountries = append(report.InvalidCountries, z.Name+":"+raw)
				continue
			}
			if seen[code] {
				continue
			}
			seen[code] = true
			if _, ok := owners[code]; !ok {
				order = append(order, code)
			}
			owners[code] = append(owners[code], z.Name)
		}
	}
	for _, code := range order {
		if names := owners[code]; len(names) > 1 {
			report.Overlaps = append(report.Overlaps, Overlap{Country: code, Zones: names})
		}
	}
	sort.SliceStable(report.Overlaps, func(i, j int) bool {
		return report.Overlaps[i].Country < report.Overlaps[j].Country
	})
	return report
}

// Conflicts devuelve los países de candidate que ya pertenecen a alguna de las zonas existentes.
func Conflicts(existing []entity.ShippingZone, candidate []string) []string {
	var out []string
	for _, raw := range candidate {
		code := NormalizeCountry(raw)
		if _, ok := FindZone(existing, code); ok {
			out = append(out, code)
		}
	}
	return out
}
