package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/pkg/config"
)

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory and restores the previous one when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Minute, cfg.Checkout.ReservationTTL)
	assert.Equal(t, 5*time.Minute, cfg.Checkout.PurgeInterval)
	assert.Equal(t, []string{"GB"}, cfg.Checkout.FreeShippingCountries)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CHECKOUT_RESERVATION_TTL", "30m")
	t.Setenv("RESERVATION_PURGE_INTERVAL", "60")
	t.Setenv("FREE_SHIPPING_COUNTRIES", "gb, IE ,")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Checkout.ReservationTTL)
	assert.Equal(t, time.Minute, cfg.Checkout.PurgeInterval)
	assert.Equal(t, []string{"GB", "IE"}, cfg.Checkout.FreeShippingCountries)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_TTLInvalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CHECKOUT_RESERVATION_TTL", "-5m")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_PaisEnvioGratisInvalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FREE_SHIPPING_COUNTRIES", "GB,GBR")
	_, err := config.Load()
	assert.ErrorContains(t, err, "GBR")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "s", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/s?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}
