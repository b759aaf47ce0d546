package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/shipping"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/infrastructure/metrics"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// ShippingHandler tarifa pública y configuración de zonas (admin).
type ShippingHandler struct {
	uc      *shipping.ShippingUseCase
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewShippingHandler construye el handler.
func NewShippingHandler(uc *shipping.ShippingUseCase, m *metrics.Metrics, log *logger.Logger) *ShippingHandler {
	return &ShippingHandler{uc: uc, metrics: m, log: log}
}

// ResolveRate godoc
// @Summary      Tarifa de envío para país y peso
// @Description  Sin zona o sin tramo responde 422 SHIPPING_UNAVAILABLE; nunca un precio 0 por defecto.
// @Tags         shipping
// @Produce      json
// @Param        country  query  string  true  "ISO 3166-1 alpha-2"
// @Param        weight   query  int     true  "peso cobrable en gramos"
// @Success      200  {object}  dto.ShippingRateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/shipping/rate [get]
func (h *ShippingHandler) ResolveRate(c *fiber.Ctx) error {
	var q dto.ShippingRateQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.ResolveRate(c.Context(), q)
	if err != nil {
		if errors.Is(err, domain.ErrShippingUnavailable) {
			h.metrics.ObserveShipping("unavailable")
		}
		return respondError(c, h.log, err)
	}
	h.metrics.ObserveShipping("ok")
	return c.JSON(out)
}

// ListZones godoc
// @Summary      Zonas de envío con sus tramos
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ZoneResponse
// @Router       /api/admin/shipping/zones [get]
func (h *ShippingHandler) ListZones(c *fiber.Ctx) error {
	zones, err := h.uc.ListZones(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(zones)
}

// CreateZone godoc
// @Summary      Crear zona de envío
// @Description  409 si algún país ya pertenece a otra zona.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateZoneRequest  true  "name, country_codes, position"
// @Success      201  {object}  dto.ZoneResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/shipping/zones [post]
func (h *ShippingHandler) CreateZone(c *fiber.Ctx) error {
	var in dto.CreateZoneRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateZone(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Str("admin", GetUserID(c)).Int64("zone_id", out.ID).Strs("countries", out.CountryCodes).Msg("zona de envío creada")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateRate godoc
// @Summary      Agregar tramo de peso a una zona
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID de zona"
// @Param        body  body  dto.CreateRateRequest  true  "tramo"
// @Success      201  {object}  dto.RateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/shipping/zones/{id}/rates [post]
func (h *ShippingHandler) CreateRate(c *fiber.Ctx) error {
	zoneID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || zoneID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de zona inválido"})
	}
	var in dto.CreateRateRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateRate(c.Context(), zoneID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Str("admin", GetUserID(c)).Int64("zone_id", zoneID).Int64("rate_id", out.ID).Msg("tarifa de envío creada")
	return c.Status(fiber.StatusCreated).JSON(out)
}
