package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/checkout"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/settings"
	"github.com/jhoicas/storefront-api/internal/application/shipping"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/infrastructure/cache"
	"github.com/jhoicas/storefront-api/internal/infrastructure/events"
	"github.com/jhoicas/storefront-api/internal/infrastructure/metrics"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/storefront-api/internal/interfaces/http"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

const eventBuffer = 1024

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	m := metrics.New(nil)

	stockRepo := postgres.NewStockRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	discountRepo := postgres.NewDiscountRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Catálogo de envíos: Redis delante de Postgres si hay REDIS_ADDR.
	var shippingRepo repository.ShippingRepository = postgres.NewShippingRepository(pool)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, catálogo de envíos sin caché")
		} else {
			defer rdb.Close()
			shippingRepo = cache.NewShippingCache(shippingRepo, rdb, cfg.Redis.CacheTTL, log, m)
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("caché de envíos activa")
		}
	}

	var reservationEvents inventory.ReservationEvents
	var producer *events.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, eventBuffer, log)
		producer.Start()
		reservationEvents = events.NewReservationPublisher(producer)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("eventos de reservas activos")
	}

	availabilityUC := inventory.NewAvailabilityUseCase(stockRepo, reservationRepo)
	reservationUC := inventory.NewReservationUseCase(txRunner, reservationRepo, reservationEvents, cfg.Checkout.ReservationTTL)
	stockAdminUC := inventory.NewStockAdminUseCase(txRunner)
	shippingUC := shipping.NewShippingUseCase(shippingRepo)
	settingsUC := settings.NewSettingsUseCase(settingsRepo, log.Component("settings"))
	checkoutUC := checkout.NewCheckoutUseCase(stockRepo, discountRepo, shippingUC, settingsUC, cfg.Checkout.FreeShippingCountries)
	authUC := auth.NewAuthUseCase(
		auth.AdminCredentials{Email: cfg.Admin.Email, PasswordHash: cfg.Admin.PasswordHash},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)

	warnShippingCatalog(ctx, shippingUC, log)
	go purgeExpiredLoop(ctx, reservationUC, cfg.Checkout.PurgeInterval, m, log.Component("purge"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Storefront API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AvailabilityUC: availabilityUC,
		ReservationUC:  reservationUC,
		StockAdminUC:   stockAdminUC,
		ShippingUC:     shippingUC,
		CheckoutUC:     checkoutUC,
		SettingsUC:     settingsUC,
		AuthUC:         authUC,
		Metrics:        m,
		Log:            log.Component("http"),
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if producer != nil {
		producer.Close()
		producer.WaitClosed()
	}

	log.Info().Msg("aplicación detenida")
}

// warnShippingCatalog registra países repetidos entre zonas. La resolución sigue siendo primer match.
func warnShippingCatalog(ctx context.Context, uc *shipping.ShippingUseCase, log *logger.Logger) {
	report, err := uc.ValidateCatalog(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo validar el catálogo de envíos")
		return
	}
	for _, o := range report.Overlaps {
		log.Warn().Str("country", o.Country).Strs("zones", o.Zones).Msg("país en varias zonas de envío; se usa la primera")
	}
	for _, code := range report.InvalidCountries {
		log.Warn().Str("country", code).Msg("código de país inválido en zona de envío")
	}
}

func purgeExpiredLoop(ctx context.Context, uc *inventory.ReservationUseCase, every time.Duration, m *metrics.Metrics, log *logger.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := uc.PurgeExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("purga de reservas vencidas")
				continue
			}
			m.ObservePurge(n)
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("reservas vencidas purgadas")
			}
		}
	}
}
