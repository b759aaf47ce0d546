package shipping

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	domainshipping "github.com/jhoicas/storefront-api/internal/domain/shipping"
	"github.com/jhoicas/storefront-api/pkg/country"
)

// ShippingUseCase resolución de tarifas y administración de zonas/tramos.
type ShippingUseCase struct {
	repo repository.ShippingRepository
}

// NewShippingUseCase construye el caso de uso.
func NewShippingUseCase(repo repository.ShippingRepository) *ShippingUseCase {
	return &ShippingUseCase{repo: repo}
}

// catalogLoader lo implementa la caché: zonas y tarifas leídas de una misma generación.
type catalogLoader interface {
	LoadCatalog(ctx context.Context) ([]entity.ShippingZone, map[int64][]entity.ShippingRate, error)
}

// Catalog lee zonas y tarifas tal como están almacenadas.
func (uc *ShippingUseCase) Catalog(ctx context.Context) (domainshipping.Catalog, error) {
	if l, ok := uc.repo.(catalogLoader); ok {
		zones, rates, err := l.LoadCatalog(ctx)
		if err != nil {
			return domainshipping.Catalog{}, err
		}
		return domainshipping.Catalog{Zones: zones, Rates: rates}, nil
	}
	zones, err := uc.repo.ListZones(ctx)
	if err != nil {
		return domainshipping.Catalog{}, err
	}
	rates, err := uc.repo.ListRates(ctx)
	if err != nil {
		return domainshipping.Catalog{}, err
	}
	return domainshipping.Catalog{Zones: zones, Rates: rates}, nil
}

// Resolve devuelve la tarifa para país y peso. ErrShippingUnavailable si no hay zona o tramo.
func (uc *ShippingUseCase) Resolve(ctx context.Context, countryCode string, weightGrams int) (domainshipping.Quote, error) {
	catalog, err := uc.Catalog(ctx)
	if err != nil {
		return domainshipping.Quote{}, err
	}
	return domainshipping.Resolve(catalog, countryCode, weightGrams)
}

// ResolveRate versión para el endpoint público.
func (uc *ShippingUseCase) ResolveRate(ctx context.Context, in dto.ShippingRateQuery) (*dto.ShippingRateResponse, error) {
	if in.WeightGrams == nil {
		return nil, fmt.Errorf("%w: falta el peso", domain.ErrInvalidInput)
	}
	q, err := uc.Resolve(ctx, in.Country, *in.WeightGrams)
	if err != nil {
		return nil, err
	}
	out := ToRateQuoteResponse(q)
	return &out, nil
}

// ValidateCatalog reporta países en varias zonas y códigos mal formados (se registra al arrancar).
func (uc *ShippingUseCase) ValidateCatalog(ctx context.Context) (domainshipping.ValidationReport, error) {
	zones, err := uc.repo.ListZones(ctx)
	if err != nil {
		return domainshipping.ValidationReport{}, err
	}
	return domainshipping.ValidateZones(zones), nil
}

// ListZones zonas en orden almacenado con sus tarifas.
func (uc *ShippingUseCase) ListZones(ctx context.Context) ([]dto.ZoneResponse, error) {
	catalog, err := uc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ZoneResponse, 0, len(catalog.Zones))
	for _, z := range catalog.Zones {
		out = append(out, toZoneResponse(z, catalog.Rates[z.ID]))
	}
	return out, nil
}

// CreateZone crea una zona. Rechaza con ErrConflict si algún país ya pertenece a otra zona,
// así la resolución por primer match nunca depende del orden.
func (uc *ShippingUseCase) CreateZone(ctx context.Context, in dto.CreateZoneRequest) (*dto.ZoneResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(in.CountryCodes) == 0 || in.Position < 0 {
		return nil, domain.ErrInvalidInput
	}
	codes := make([]string, 0, len(in.CountryCodes))
	seen := make(map[string]bool, len(in.CountryCodes))
	for _, raw := range in.CountryCodes {
		code, err := country.Validate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	existing, err := uc.repo.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	if dup := domainshipping.Conflicts(existing, codes); len(dup) > 0 {
		return nil, fmt.Errorf("países ya asignados a otra zona (%s): %w", strings.Join(dup, ","), domain.ErrConflict)
	}
	zone := &entity.ShippingZone{Name: name, CountryCodes: codes, Position: in.Position}
	if err := uc.repo.CreateZone(ctx, zone); err != nil {
		return nil, err
	}
	out := toZoneResponse(*zone, nil)
	return &out, nil
}

// CreateRate agrega un tramo a una zona existente.
func (uc *ShippingUseCase) CreateRate(ctx context.Context, zoneID int64, in dto.CreateRateRequest) (*dto.RateResponse, error) {
	if zoneID <= 0 || strings.TrimSpace(in.Name) == "" || in.MinWeightGrams < 0 || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MaxWeightGrams != nil && *in.MaxWeightGrams < in.MinWeightGrams {
		return nil, fmt.Errorf("%w: max_weight_grams menor que min_weight_grams", domain.ErrInvalidInput)
	}
	if in.MinDays < 0 || in.MaxDays < in.MinDays {
		return nil, fmt.Errorf("%w: rango de días inválido", domain.ErrInvalidInput)
	}
	zones, err := uc.repo.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, z := range zones {
		if z.ID == zoneID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	rate := &entity.ShippingRate{
		ZoneID:         zoneID,
		Name:           strings.TrimSpace(in.Name),
		MinWeightGrams: in.MinWeightGrams,
		MaxWeightGrams: in.MaxWeightGrams,
		Price:          in.Price.Round(2),
		MinDays:        in.MinDays,
		MaxDays:        in.MaxDays,
		Tracked:        in.Tracked,
		Position:       in.Position,
	}
	if err := uc.repo.CreateRate(ctx, rate); err != nil {
		return nil, err
	}
	out := toRateResponse(*rate)
	return &out, nil
}

// ToRateQuoteResponse convierte la tarifa resuelta al DTO público.
func ToRateQuoteResponse(q domainshipping.Quote) dto.ShippingRateResponse {
	return dto.ShippingRateResponse{
		ZoneName: q.ZoneName,
		Name:     q.Rate.Name,
		Price:    q.Rate.Price,
		MinDays:  q.Rate.MinDays,
		MaxDays:  q.Rate.MaxDays,
		Tracked:  q.Rate.Tracked,
	}
}

// FreeRateResponse misma tarifa con precio 0 (envío gratis aplicado por checkout).
func FreeRateResponse(q domainshipping.Quote) dto.ShippingRateResponse {
	out := ToRateQuoteResponse(q)
	out.Price = decimal.Zero
	return out
}

func toZoneResponse(z entity.ShippingZone, rates []entity.ShippingRate) dto.ZoneResponse {
	out := dto.ZoneResponse{
		ID:           z.ID,
		Name:         z.Name,
		CountryCodes: z.CountryCodes,
		Position:     z.Position,
		Rates:        make([]dto.RateResponse, 0, len(rates)),
	}
	for _, r := range rates {
		out.Rates = append(out.Rates, toRateResponse(r))
	}
	return out
}

func toRateResponse(r entity.ShippingRate) dto.RateResponse {
	return dto.RateResponse{
		ID:             r.ID,
		Name:           r.Name,
		MinWeightGrams: r.MinWeightGrams,
		MaxWeightGrams: r.MaxWeightGrams,
		Price:          r.Price,
		MinDays:        r.MinDays,
		MaxDays:        r.MaxDays,
		Tracked:        r.Tracked,
	}
}
