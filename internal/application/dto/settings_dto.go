package dto

import "github.com/shopspring/decimal"

// StoreSettingsResponse configuración tipada de la tienda.
type StoreSettingsResponse struct {
	FreeShippingEnabled   bool            `json:"free_shipping_enabled"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	AnnouncementText      string          `json:"announcement_text"`
	TaxRate               decimal.Decimal `json:"tax_rate"`
}

// UpdateSettingsRequest body para PUT /api/admin/settings. Solo se actualizan los campos presentes.
type UpdateSettingsRequest struct {
	FreeShippingEnabled   *bool            `json:"free_shipping_enabled,omitempty"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold,omitempty"`
	AnnouncementText      *string          `json:"announcement_text,omitempty" validate:"omitempty,max=500"`
	TaxRate               *decimal.Decimal `json:"tax_rate,omitempty"`
}
