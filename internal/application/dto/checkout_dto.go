package dto

import "github.com/shopspring/decimal"

// CheckoutLine línea del carrito.
type CheckoutLine struct {
	ItemID   int64 `json:"item_id" validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

// CheckoutQuoteRequest body para POST /api/checkout/quote.
type CheckoutQuoteRequest struct {
	Lines        []CheckoutLine `json:"lines" validate:"required,min=1,max=100,dive"`
	CountryCode  string         `json:"country_code" validate:"required,len=2,alpha"`
	DiscountCode string         `json:"discount_code,omitempty" validate:"omitempty,max=64"`
}

// CheckoutQuoteResponse desglose del total.
type CheckoutQuoteResponse struct {
	Subtotal     decimal.Decimal      `json:"subtotal"`
	Discount     decimal.Decimal      `json:"discount"`
	Shipping     decimal.Decimal      `json:"shipping"`
	Tax          decimal.Decimal      `json:"tax"`
	Total        decimal.Decimal      `json:"total"`
	WeightGrams  int                  `json:"weight_grams"`
	FreeShipping bool                 `json:"free_shipping"`
	ShippingRate ShippingRateResponse `json:"shipping_rate"`
}

// RedeemResponse resultado de consumir un código de descuento.
type RedeemResponse struct {
	Code     string `json:"code"`
	Redeemed bool   `json:"redeemed"`
}
