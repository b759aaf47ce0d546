// Package pricing contiene la aritmética del total de un pedido:
// subtotal - descuento + envío + impuesto.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals desglose de un pedido. Todos los montos redondeados a 2 decimales.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CheckRedeemable verifica que el código se pueda usar en el instante now: activo, dentro de
// [starts_at, expires_at), con usos disponibles y de un tipo conocido. No mira el subtotal.
func CheckRedeemable(d *entity.DiscountCode, now time.Time) error {
	if d == nil || !d.Active {
		return domain.ErrInvalidDiscount
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return domain.ErrInvalidDiscount
	}
	if d.ExpiresAt != nil && !now.Before(*d.ExpiresAt) {
		return domain.ErrInvalidDiscount
	}
	if d.MaxUses != nil && d.UsesCount >= *d.MaxUses {
		return domain.ErrInvalidDiscount
	}
	switch d.Type {
	case entity.DiscountTypePercentage, entity.DiscountTypeFixed:
		return nil
	}
	return domain.ErrInvalidDiscount
}

// CheckDiscount verifica que el código sea aplicable al subtotal en el instante now.
func CheckDiscount(d *entity.DiscountCode, subtotal decimal.Decimal, now time.Time) error {
	if err := CheckRedeemable(d, now); err != nil {
		return err
	}
	if subtotal.LessThan(d.MinOrderValue) {
		return domain.ErrInvalidDiscount
	}
	return nil
}

// DiscountAmount monto a descontar; nunca supera el subtotal.
// Porcentaje: subtotal * valor / 100. Fijo: min(valor, subtotal).
func DiscountAmount(d *entity.DiscountCode, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if err := CheckDiscount(d, subtotal, now); err != nil {
		return decimal.Zero, err
	}
	var amount decimal.Decimal
	if d.Type == entity.DiscountTypePercentage {
		amount = subtotal.Mul(d.Value).Div(hundred)
	} else {
		amount = d.Value
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount.Round(2), nil
}

// FreeShippingPolicy regla de envío gratis. Los países elegibles los fija quien llama
// (p. ej. solo GB); no se infieren del modelo de zonas.
type FreeShippingPolicy struct {
	Enabled   bool
	Threshold decimal.Decimal
	Countries []string
}

// Applies indica si el envío debe cobrarse a 0 para el subtotal y país dados.
func (p FreeShippingPolicy) Applies(subtotal decimal.Decimal, countryCode string) bool {
	if !p.Enabled || subtotal.LessThan(p.Threshold) {
		return false
	}
	for _, c := range p.Countries {
		if c == countryCode {
			return true
		}
	}
	return false
}

// Compute arma el total: impuesto = (subtotal - descuento) * taxRate.
func Compute(subtotal, discount, shipping, taxRate decimal.Decimal) Totals {
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Shipping: shipping.Round(2),
		Tax:      tax,
		Total:    taxable.Add(shipping).Add(tax).Round(2),
	}
}
