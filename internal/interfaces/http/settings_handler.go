package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/settings"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// SettingsHandler configuración de la tienda (admin).
type SettingsHandler struct {
	uc  *settings.SettingsUseCase
	log *logger.Logger
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *settings.SettingsUseCase, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Configuración de la tienda
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StoreSettingsResponse
// @Router       /api/admin/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar configuración (solo campos presentes)
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "campos a cambiar"
// @Success      200  {object}  dto.StoreSettingsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Str("admin", GetUserID(c)).Msg("configuración de tienda actualizada")
	return c.JSON(out)
}
