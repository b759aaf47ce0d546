package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/checkout"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// CheckoutHandler cotización de totales y canje de descuentos.
type CheckoutHandler struct {
	uc  *checkout.CheckoutUseCase
	log *logger.Logger
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(uc *checkout.CheckoutUseCase, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, log: log}
}

// Quote godoc
// @Summary      Totales del carrito
// @Description  subtotal - descuento + envío + impuesto. 422 si no hay envío o el código no aplica.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutQuoteRequest  true  "líneas, país, código"
// @Success      200  {object}  dto.CheckoutQuoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/checkout/quote [post]
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	var in dto.CheckoutQuoteRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Quote(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Redeem godoc
// @Summary      Consumir un uso de un código de descuento
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "código"
// @Success      200  {object}  dto.RedeemResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/admin/discounts/{code}/redeem [post]
func (h *CheckoutHandler) Redeem(c *fiber.Ctx) error {
	out, err := h.uc.Redeem(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Str("admin", GetUserID(c)).Str("code", out.Code).Msg("código de descuento canjeado")
	return c.JSON(out)
}
