package settings

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// SettingsUseCase lee y actualiza la configuración tipada de la tienda.
type SettingsUseCase struct {
	repo repository.SettingsRepository
	log  *logger.Logger
}

// NewSettingsUseCase construye el caso de uso. log puede ser nil.
func NewSettingsUseCase(repo repository.SettingsRepository, log *logger.Logger) *SettingsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SettingsUseCase{repo: repo, log: log}
}

// Load arma StoreSettings desde las filas clave/valor. Claves ausentes toman el valor por defecto;
// valores que no se pueden interpretar también, y se registra un warning.
func (uc *SettingsUseCase) Load(ctx context.Context) (entity.StoreSettings, error) {
	rows, err := uc.repo.GetAll(ctx)
	if err != nil {
		return entity.StoreSettings{}, err
	}
	s := entity.DefaultStoreSettings()

	if raw, ok := rows[entity.SettingFreeShippingEnabled]; ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			s.FreeShippingEnabled = b
		} else {
			uc.invalid(entity.SettingFreeShippingEnabled, raw)
		}
	}
	if raw, ok := rows[entity.SettingFreeShippingThreshold]; ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil && !d.IsNegative() {
			s.FreeShippingThreshold = d
		} else {
			uc.invalid(entity.SettingFreeShippingThreshold, raw)
		}
	}
	if raw, ok := rows[entity.SettingAnnouncementText]; ok {
		s.AnnouncementText = raw
	}
	if raw, ok := rows[entity.SettingTaxRate]; ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil && !d.IsNegative() {
			s.TaxRate = d
		} else {
			uc.invalid(entity.SettingTaxRate, raw)
		}
	}
	return s, nil
}

func (uc *SettingsUseCase) invalid(key, raw string) {
	uc.log.Warn().Str("key", key).Str("value", raw).Msg("valor de configuración inválido, se usa el valor por defecto")
}

// Get versión DTO de Load.
func (uc *SettingsUseCase) Get(ctx context.Context) (*dto.StoreSettingsResponse, error) {
	s, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toResponse(s), nil
}

// Update guarda solo los campos presentes y devuelve la configuración resultante.
func (uc *SettingsUseCase) Update(ctx context.Context, in dto.UpdateSettingsRequest) (*dto.StoreSettingsResponse, error) {
	values := make(map[string]string, 4)
	if in.FreeShippingEnabled != nil {
		values[entity.SettingFreeShippingEnabled] = strconv.FormatBool(*in.FreeShippingEnabled)
	}
	if in.FreeShippingThreshold != nil {
		if in.FreeShippingThreshold.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		values[entity.SettingFreeShippingThreshold] = in.FreeShippingThreshold.String()
	}
	if in.AnnouncementText != nil {
		values[entity.SettingAnnouncementText] = *in.AnnouncementText
	}
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, domain.ErrInvalidInput
		}
		values[entity.SettingTaxRate] = in.TaxRate.String()
	}
	if len(values) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Upsert(ctx, values); err != nil {
		return nil, err
	}
	return uc.Get(ctx)
}

func toResponse(s entity.StoreSettings) *dto.StoreSettingsResponse {
	return &dto.StoreSettingsResponse{
		FreeShippingEnabled:   s.FreeShippingEnabled,
		FreeShippingThreshold: s.FreeShippingThreshold,
		AnnouncementText:      s.AnnouncementText,
		TaxRate:               s.TaxRate,
	}
}
