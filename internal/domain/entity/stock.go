package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ítem vendible. Productos y variantes comparten el mismo espacio de IDs en stock_items.
const (
	ItemKindProduct = "product"
	ItemKindVariant = "variant"
)

// StockItem representa el stock físico de un producto o variante (tabla stock_items).
// PhysicalStock lo modifican las ediciones de admin y el despacho de pedidos.
type StockItem struct {
	ItemID        int64
	Kind          string
	SKU           string
	Name          string
	PhysicalStock int
	WeightGrams   int             // peso unitario usado para el peso cobrable
	Price         decimal.Decimal // precio unitario de venta
	UpdatedAt     time.Time
}
