package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	appshipping "github.com/jhoicas/storefront-api/internal/application/shipping"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/pricing"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/domain/shipping"
)

// RateResolver resuelve la tarifa de envío para país y peso.
type RateResolver interface {
	Resolve(ctx context.Context, countryCode string, weightGrams int) (shipping.Quote, error)
}

// SettingsLoader entrega la configuración tipada de la tienda.
type SettingsLoader interface {
	Load(ctx context.Context) (entity.StoreSettings, error)
}

// CheckoutUseCase calcula el total de un carrito: subtotal - descuento + envío + impuesto.
type CheckoutUseCase struct {
	stockRepo    repository.StockRepository
	discountRepo repository.DiscountRepository
	rates        RateResolver
	settings     SettingsLoader
	// freeShippingCountries destinos donde aplica el envío gratis (solo doméstico).
	freeShippingCountries []string
}

// NewCheckoutUseCase construye el caso de uso.
func NewCheckoutUseCase(
	stockRepo repository.StockRepository,
	discountRepo repository.DiscountRepository,
	rates RateResolver,
	settings SettingsLoader,
	freeShippingCountries []string,
) *CheckoutUseCase {
	countries := make([]string, 0, len(freeShippingCountries))
	for _, c := range freeShippingCountries {
		countries = append(countries, shipping.NormalizeCountry(c))
	}
	return &CheckoutUseCase{
		stockRepo:             stockRepo,
		discountRepo:          discountRepo,
		rates:                 rates,
		settings:              settings,
		freeShippingCountries: countries,
	}
}

// Quote calcula el desglose. Ítem desconocido => ErrNotFound; código inválido => ErrInvalidDiscount;
// sin tarifa de envío => ErrShippingUnavailable (nunca se cotiza con envío 0 por defecto).
func (uc *CheckoutUseCase) Quote(ctx context.Context, in dto.CheckoutQuoteRequest) (*dto.CheckoutQuoteResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	qty := make(map[int64]int, len(in.Lines))
	ids := make([]int64, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ItemID <= 0 || l.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if _, ok := qty[l.ItemID]; !ok {
			ids = append(ids, l.ItemID)
		}
		qty[l.ItemID] += l.Quantity
	}

	items, err := uc.stockRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	subtotal := decimal.Zero
	weight := 0
	for _, id := range ids {
		it, ok := items[id]
		if !ok || it == nil {
			return nil, fmt.Errorf("ítem %d: %w", id, domain.ErrNotFound)
		}
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(qty[id]))))
		weight += it.WeightGrams * qty[id]
	}

	settings, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	if code := strings.TrimSpace(in.DiscountCode); code != "" {
		d, err := uc.discountRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		discount, err = pricing.DiscountAmount(d, subtotal, time.Now())
		if err != nil {
			return nil, err
		}
	}

	country := shipping.NormalizeCountry(in.CountryCode)
	quote, err := uc.rates.Resolve(ctx, country, weight)
	if err != nil {
		return nil, err
	}
	policy := pricing.FreeShippingPolicy{
		Enabled:   settings.FreeShippingEnabled,
		Threshold: settings.FreeShippingThreshold,
		Countries: uc.freeShippingCountries,
	}
	free := policy.Applies(subtotal, country)
	rate := appshipping.ToRateQuoteResponse(quote)
	if free {
		rate = appshipping.FreeRateResponse(quote)
	}

	totals := pricing.Compute(subtotal, discount, rate.Price, settings.TaxRate)
	return &dto.CheckoutQuoteResponse{
		Subtotal:     totals.Subtotal,
		Discount:     totals.Discount,
		Shipping:     totals.Shipping,
		Tax:          totals.Tax,
		Total:        totals.Total,
		WeightGrams:  weight,
		FreeShipping: free,
		ShippingRate: rate,
	}, nil
}

// Redeem consume un uso del código (checkout exitoso). ErrInvalidDiscount si no existe,
// está inactivo, fuera de su vigencia o agotó max_uses.
func (uc *CheckoutUseCase) Redeem(ctx context.Context, code string) (*dto.RedeemResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	d, err := uc.discountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := pricing.CheckRedeemable(d, time.Now()); err != nil {
		return nil, err
	}
	ok, err := uc.discountRepo.IncrementUses(ctx, d.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidDiscount
	}
	return &dto.RedeemResponse{Code: d.Code, Redeemed: true}, nil
}
