package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/infrastructure/metrics"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// StockHandler disponibilidad, reservas de checkout y edición de stock físico.
type StockHandler struct {
	availability *inventory.AvailabilityUseCase
	reservations *inventory.ReservationUseCase
	admin        *inventory.StockAdminUseCase
	metrics      *metrics.Metrics
	log          *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(
	availability *inventory.AvailabilityUseCase,
	reservations *inventory.ReservationUseCase,
	admin *inventory.StockAdminUseCase,
	m *metrics.Metrics,
	log *logger.Logger,
) *StockHandler {
	return &StockHandler{availability: availability, reservations: reservations, admin: admin, metrics: m, log: log}
}

func parseItemID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("itemId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GetAvailable godoc
// @Summary      Stock disponible de un producto o variante
// @Description  max(0, stock físico - reservas vigentes). Un ítem desconocido devuelve 0.
// @Tags         stock
// @Produce      json
// @Param        itemId  path  int  true  "ID del producto o variante"
// @Success      200  {object}  dto.StockAvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/{itemId} [get]
func (h *StockHandler) GetAvailable(c *fiber.Ctx) error {
	id, ok := parseItemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "itemId debe ser un entero positivo"})
	}
	n, err := h.availability.AvailableStock(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.StockAvailabilityResponse{ItemID: id, Available: n})
}

// BatchAvailable godoc
// @Summary      Stock disponible en lote
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchAvailabilityRequest  true  "item_ids"
// @Success      200  {object}  dto.BatchAvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/availability [post]
func (h *StockHandler) BatchAvailable(c *fiber.Ctx) error {
	var in dto.BatchAvailabilityRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	items, err := h.availability.AvailableStockBatch(c.Context(), in.ItemIDs)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.BatchAvailabilityResponse{Items: items})
}

// Reserve godoc
// @Summary      Reservar stock para una sesión de checkout
// @Description  Falla con 409 si la cantidad supera lo disponible. La reserva vence sola.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "session_id, item_id, quantity"
// @Success      201  {object}  dto.ReservationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.reservations.Reserve(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			h.metrics.ObserveReservation("insufficient")
		case errors.Is(err, domain.ErrNotFound):
			h.metrics.ObserveReservation("not_found")
		default:
			h.metrics.ObserveReservation("error")
		}
		return respondError(c, h.log, err)
	}
	h.metrics.ObserveReservation("created")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Release godoc
// @Summary      Liberar las reservas de una sesión
// @Tags         stock
// @Param        sessionId  path  string  true  "ID de sesión de checkout"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reservations/{sessionId} [delete]
func (h *StockHandler) Release(c *fiber.Ctx) error {
	if _, err := h.reservations.ReleaseSession(c.Context(), c.Params("sessionId")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPhysical godoc
// @Summary      Fijar stock físico (admin)
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  int                  true  "ID del producto o variante"
// @Param        body    body  dto.SetStockRequest  true  "physical_stock"
// @Success      200  {object}  dto.StockAvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/stock/{itemId} [put]
func (h *StockHandler) SetPhysical(c *fiber.Ctx) error {
	id, ok := parseItemID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "itemId debe ser un entero positivo"})
	}
	var in dto.SetStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.admin.SetPhysicalStock(c.Context(), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Str("admin", GetUserID(c)).Int64("item_id", id).Int("physical_stock", *in.PhysicalStock).Msg("stock físico actualizado")
	return c.JSON(out)
}
