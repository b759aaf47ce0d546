package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/checkout"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/settings"
	"github.com/jhoicas/storefront-api/internal/application/shipping"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/storefront-api/internal/interfaces/http"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app       *fiber.App
	inventory *memInventory
	shipping  *memShipping
	settings  *memSettings
	discounts memDiscounts
	logs      *bytes.Buffer
}

func intPtr(n int) *int { return &n }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	inv := &memInventory{items: map[int64]*entity.StockItem{
		1: {ItemID: 1, Kind: entity.ItemKindProduct, Name: "Merino DK", PhysicalStock: 10, WeightGrams: 100, Price: decimal.RequireFromString("12.50")},
		2: {ItemID: 2, Kind: entity.ItemKindVariant, Name: "Merino DK Azul", PhysicalStock: 1, WeightGrams: 100, Price: decimal.RequireFromString("12.50")},
	}}
	inv.reservations = []entity.Reservation{
		{ID: "a", ItemID: 1, Quantity: 4, SessionID: "otra", ExpiresAt: time.Now().Add(time.Hour)},
		{ID: "b", ItemID: 1, Quantity: 3, SessionID: "otra", ExpiresAt: time.Now().Add(time.Hour)},
		{ID: "c", ItemID: 1, Quantity: 5, SessionID: "vieja", ExpiresAt: time.Now().Add(-time.Hour)},
	}
	ship := &memShipping{
		nextID: 100,
		zones:  []entity.ShippingZone{{ID: 1, Name: "UK", CountryCodes: []string{"GB"}}},
		rates: map[int64][]entity.ShippingRate{
			1: {{ID: 2, ZoneID: 1, Name: "Small Parcel", MinWeightGrams: 0, MaxWeightGrams: intPtr(2000), Price: decimal.RequireFromString("3.80"), MinDays: 2, MaxDays: 3, Tracked: true}},
		},
	}
	set := &memSettings{rows: map[string]string{"free_shipping_enabled": "true", "free_shipping_threshold": "50"}}
	discounts := memDiscounts{
		"LANA10": {Code: "LANA10", Type: entity.DiscountTypePercentage, Value: decimal.NewFromInt(10), Active: true, MaxUses: intPtr(1)},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("lana-merino"), bcrypt.MinCost)
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	settingsUC := settings.NewSettingsUseCase(set, nil)
	shippingUC := shipping.NewShippingUseCase(ship)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AvailabilityUC: inventory.NewAvailabilityUseCase(inv, inv),
		ReservationUC:  inventory.NewReservationUseCase(inv, inv, nil, time.Minute),
		StockAdminUC:   inventory.NewStockAdminUseCase(inv),
		ShippingUC:     shippingUC,
		CheckoutUC:     checkout.NewCheckoutUseCase(inv, discounts, shippingUC, settingsUC, []string{"GB"}),
		SettingsUC:     settingsUC,
		AuthUC: auth.NewAuthUseCase(
			auth.AdminCredentials{Email: testSubject, PasswordHash: string(hash)},
			auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		),
		Metrics:   metrics.New(nil),
		Log:       logger.New(logger.Config{Env: "test", Level: "info", Output: logs}),
		JWTSecret: testJWTSecret,
	})
	return &testEnv{app: app, inventory: inv, shipping: ship, settings: set, discounts: discounts, logs: logs}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, authHeader string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_DisponibleDescuentaReservasVigentes(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodGet, "/api/stock/1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.StockAvailabilityResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 3, out.Available, "10 - 4 - 3; la reserva vencida no cuenta")
}

func TestStock_ItemDesconocidoEsCero(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodGet, "/api/stock/999", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"item_id":999,"available":0}`, string(raw))
}

func TestStock_IDInvalido(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/stock/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStock_Lote(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodPost, "/api/stock/availability", dto.BatchAvailabilityRequest{ItemIDs: []int64{1, 2, 999}}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":{"1":3,"2":1,"999":0}}`, string(raw))

	resp, raw = env.do(t, http.MethodPost, "/api/stock/availability", dto.BatchAvailabilityRequest{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, raw).Code)

	resp, _ = env.do(t, http.MethodPost, "/api/stock/availability", dto.BatchAvailabilityRequest{ItemIDs: []int64{1, 0}}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReservas_CrearAgotarYLiberar(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/api/reservations", dto.ReserveRequest{SessionID: "s1", ItemID: 2, Quantity: 1}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodPost, "/api/reservations", dto.ReserveRequest{SessionID: "s2", ItemID: 2, Quantity: 1}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, raw).Code)

	resp, _ = env.do(t, http.MethodDelete, "/api/reservations/s1", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/reservations", dto.ReserveRequest{SessionID: "s2", ItemID: 2, Quantity: 1}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestReservas_ItemDesconocido404(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodPost, "/api/reservations", dto.ReserveRequest{SessionID: "s1", ItemID: 999, Quantity: 1}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Envíos
// ──────────────────────────────────────────────────────────────────────────────

func TestShipping_TarifaResuelta(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodGet, "/api/shipping/rate?country=gb&weight=1200", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out dto.ShippingRateResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "Small Parcel", out.Name)
	assert.True(t, out.Price.Equal(decimal.RequireFromString("3.80")))
	assert.Equal(t, 2, out.MinDays)
	assert.Equal(t, 3, out.MaxDays)
	assert.True(t, out.Tracked)
}

// Sin envío es un 422 distinguible, nunca un 200 con precio 0.
func TestShipping_SinEnvioEs422(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{
		"/api/shipping/rate?country=US&weight=100",
		"/api/shipping/rate?country=GB&weight=2001",
	} {
		resp, raw := env.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, path)
		assert.Equal(t, "SHIPPING_UNAVAILABLE", decodeError(t, raw).Code, path)
	}
}

func TestShipping_ParametrosInvalidos(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{
		"/api/shipping/rate?weight=100",
		"/api/shipping/rate?country=GB",
		"/api/shipping/rate?country=GBR&weight=100",
		"/api/shipping/rate?country=GB&weight=-1",
		"/api/shipping/rate?country=GB&weight=mucho",
	} {
		resp, _ := env.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

// weight=0 es válido y cae en el primer tramo.
func TestShipping_PesoCeroEsValido(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodGet, "/api/shipping/rate?country=GB&weight=0", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_QuoteConEnvioGratisYDescuento(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodPost, "/api/checkout/quote", dto.CheckoutQuoteRequest{
		Lines:        []dto.CheckoutLine{{ItemID: 1, Quantity: 4}},
		CountryCode:  "GB",
		DiscountCode: "lana10",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var out dto.CheckoutQuoteResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "50", out.Subtotal.String())
	assert.Equal(t, "5", out.Discount.String())
	assert.True(t, out.FreeShipping)
	assert.True(t, out.Shipping.IsZero())
	assert.Equal(t, "45", out.Total.String())
}

func TestCheckout_QuoteSinEnvio422(t *testing.T) {
	env := newTestEnv(t)
	resp, raw := env.do(t, http.MethodPost, "/api/checkout/quote", dto.CheckoutQuoteRequest{
		Lines: []dto.CheckoutLine{{ItemID: 1, Quantity: 1}}, CountryCode: "US",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "SHIPPING_UNAVAILABLE", decodeError(t, raw).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Admin
// ──────────────────────────────────────────────────────────────────────────────

func loginAdmin(t *testing.T, env *testEnv) string {
	t.Helper()
	resp, raw := env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: testSubject, Password: "lana-merino"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return "Bearer " + out.Token
}

func TestAuth_LoginIncorrecto(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: testSubject, Password: "otra"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdmin_RequiereToken(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/admin/settings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdmin_Settings(t *testing.T) {
	env := newTestEnv(t)
	token := loginAdmin(t, env)

	resp, raw := env.do(t, http.MethodGet, "/api/admin/settings", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.StoreSettingsResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, out.FreeShippingEnabled)
	assert.Equal(t, "", out.AnnouncementText)

	text := "Envío gratis a UK"
	resp, raw = env.do(t, http.MethodPut, "/api/admin/settings", dto.UpdateSettingsRequest{AnnouncementText: &text}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, text, env.settings.rows["announcement_text"])
	assert.Contains(t, env.logs.String(), `"admin":"`+testSubject+`"`, "el cambio queda registrado con el admin del token")
}

func TestAdmin_ZonaSolapadaEs409(t *testing.T) {
	env := newTestEnv(t)
	token := loginAdmin(t, env)

	resp, raw := env.do(t, http.MethodPost, "/api/admin/shipping/zones", dto.CreateZoneRequest{Name: "Islas", CountryCodes: []string{"GB", "IE"}}, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeError(t, raw).Code)

	resp, raw = env.do(t, http.MethodPost, "/api/admin/shipping/zones", dto.CreateZoneRequest{Name: "Irlanda", CountryCodes: []string{"IE"}, Position: 1}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var zone dto.ZoneResponse
	require.NoError(t, json.Unmarshal(raw, &zone))

	resp, raw = env.do(t, http.MethodPost, "/api/admin/shipping/zones/"+itoa(zone.ID)+"/rates", dto.CreateRateRequest{
		Name: "International Standard", MinWeightGrams: 0, Price: decimal.RequireFromString("11.25"), MinDays: 5, MaxDays: 10,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, _ = env.do(t, http.MethodGet, "/api/shipping/rate?country=IE&weight=5000", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = env.do(t, http.MethodGet, "/api/admin/shipping/zones", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var zones []dto.ZoneResponse
	require.NoError(t, json.Unmarshal(raw, &zones))
	assert.Len(t, zones, 2)
}

func TestAdmin_FijarStock(t *testing.T) {
	env := newTestEnv(t)
	token := loginAdmin(t, env)

	resp, raw := env.do(t, http.MethodPut, "/api/admin/stock/1", dto.SetStockRequest{PhysicalStock: intPtr(20)}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"item_id":1,"available":13}`, string(raw))

	resp, _ = env.do(t, http.MethodPut, "/api/admin/stock/1", dto.SetStockRequest{PhysicalStock: intPtr(-1)}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdmin_CanjeDescuento(t *testing.T) {
	env := newTestEnv(t)
	token := loginAdmin(t, env)

	resp, _ := env.do(t, http.MethodPost, "/api/admin/discounts/LANA10/redeem", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := env.do(t, http.MethodPost, "/api/admin/discounts/LANA10/redeem", nil, token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INVALID_DISCOUNT", decodeError(t, raw).Code)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
