package inventory

import (
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// Available calcula las unidades vendibles: max(0, físico - reservado).
// Nunca devuelve negativo aunque las reservas superen transitoriamente el stock.
func Available(physical, reserved int) int {
	if n := physical - reserved; n > 0 {
		return n
	}
	return 0
}

// ReservedQuantity suma las cantidades de las reservas de itemID vigentes en now.
// Las reservas con ExpiresAt <= now no cuentan.
func ReservedQuantity(reservations []entity.Reservation, itemID int64, now time.Time) int {
	total := 0
	for _, r := range reservations {
		if r.ItemID == itemID && r.IsActiveAt(now) {
			total += r.Quantity
		}
	}
	return total
}

// AvailableBatch aplica Available a cada ID solicitado.
// Un ID sin stock físico conocido vale 0; todo ID solicitado aparece en el resultado.
func AvailableBatch(itemIDs []int64, physical, reserved map[int64]int) map[int64]int {
	out := make(map[int64]int, len(itemIDs))
	for _, id := range itemIDs {
		out[id] = Available(physical[id], reserved[id])
	}
	return out
}
