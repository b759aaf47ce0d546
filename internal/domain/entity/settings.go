package entity

import "github.com/shopspring/decimal"

// Claves de store_settings.
const (
	SettingFreeShippingEnabled   = "free_shipping_enabled"
	SettingFreeShippingThreshold = "free_shipping_threshold"
	SettingAnnouncementText      = "announcement_text"
	SettingTaxRate               = "tax_rate"
)

// StoreSettings configuración global de la tienda, tipada.
// Se carga una vez por request desde filas clave/valor con valores por defecto explícitos.
type StoreSettings struct {
	FreeShippingEnabled   bool
	FreeShippingThreshold decimal.Decimal
	AnnouncementText      string
	TaxRate               decimal.Decimal // fracción: 0.20 = 20%
}

// DefaultStoreSettings valores usados cuando falta una clave.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		FreeShippingEnabled:   false,
		FreeShippingThreshold: decimal.NewFromInt(50),
		AnnouncementText:      "",
		TaxRate:               decimal.Zero,
	}
}
