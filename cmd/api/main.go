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
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/jcamargo/invenly-api/internal/application/analytics"
	"github.com/jcamargo/invenly-api/internal/application/auth"
	"github.com/jcamargo/invenly-api/internal/application/inventory"
	"github.com/jcamargo/invenly-api/internal/application/usecase"
	infracache "github.com/jcamargo/invenly-api/internal/infrastructure/cache"
	infrapdf "github.com/jcamargo/invenly-api/internal/infrastructure/pdf"
	"github.com/jcamargo/invenly-api/internal/infrastructure/postgres"
	httpRouter "github.com/jcamargo/invenly-api/internal/interfaces/http"
	"github.com/jcamargo/invenly-api/pkg/config"
	"github.com/jcamargo/invenly-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de perfiles opcional: sin REDIS_ADDR todo se resuelve en DB.
	var profileCache auth.ProfileCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, caché de perfiles deshabilitado")
		} else {
			profileCache = infracache.NewUserCache(client)
			defer client.Close()
		}
	}

	ledger := inventory.NewStockLedger(txRunner, supplierRepo)
	reportGen := infrapdf.NewMovementsReportGenerator()
	historyUC := inventory.NewHistoryUseCase(movementRepo, reportGen)
	authUC := auth.NewAuthUseCase(userRepo, profileCache, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, txRunner, ledger)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	dashboardUC := analytics.NewDashboardUseCase(dashboardRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invenly API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	// Login: 1 intento por segundo (ráfaga de 5) por IP.
	loginLimit := httpRouter.NewRateLimiter(rate.Limit(1), 5)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		SupplierUC:  supplierUC,
		UserUC:      userUC,
		Ledger:      ledger,
		HistoryUC:   historyUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		LoginLimit:  loginLimit,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
