package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/barstock/revisor/internal/auth"
	"github.com/barstock/revisor/internal/cache"
	"github.com/barstock/revisor/internal/config"
	"github.com/barstock/revisor/internal/dashboard"
	"github.com/barstock/revisor/internal/database"
	"github.com/barstock/revisor/internal/httpx"
	"github.com/barstock/revisor/internal/inventory"
	"github.com/barstock/revisor/internal/logger"
	"github.com/barstock/revisor/internal/revision"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	db, err := database.Open(cfg, zl)
	if err != nil {
		return err
	}

	store, closeCache := newCache(cfg, zl)
	defer closeCache()

	app := newApp(cfg, zl, db, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("http server listening", zap.String("port", cfg.HTTPPort))
		errCh <- app.Listen(":" + cfg.HTTPPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// newCache connects to Redis when REDIS_ADDR is set. A failed ping falls back
// to no caching rather than refusing to start.
func newCache(cfg *config.Config, zl *zap.Logger) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		zl.Info("REDIS_ADDR not set, caching disabled")
		return cache.Noop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zl.Warn("redis unreachable, caching disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return cache.Noop{}, func() {}
	}

	zl.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	return cache.NewRedisCache(client, cfg.CacheTTL, zl), func() { _ = client.Close() }
}

func newApp(cfg *config.Config, zl *zap.Logger, db *gorm.DB, c cache.Cache) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: httpx.ErrorHandler(zl),
	})

	app.Use(recover.New())
	app.Use(logger.RequestLogger(zl))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Database unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v := httpx.NewValidator()
	authSvc := auth.NewService(auth.NewGormStore(db), cfg.JWTSecret, cfg.JWTTTL, zl)
	inventorySvc := inventory.NewService(inventory.NewGormStore(db), c, zl)
	revisionSvc := revision.NewService(revision.NewGormRepository(db), c, zl)
	dashboardSvc := dashboard.NewService(dashboard.NewGormStore(db), c, zl)

	api := app.Group("/api")

	// Public auth, rate limited per IP
	limiter := httpx.NewRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst, 10*time.Minute)
	public := api.Group("/auth", limiter.Handler())
	public.Post("/sign-up", auth.SignUpHandler(authSvc, v))
	public.Post("/login", auth.LoginHandler(authSvc, v))

	protected := api.Group("", auth.JWTMiddleware(cfg.JWTSecret))
	protected.Get("/auth/me", auth.MeHandler(authSvc))

	inventory.RegisterRoutes(protected, inventorySvc, v)
	revision.RegisterRoutes(protected, revisionSvc, v)
	dashboard.RegisterRoutes(protected, dashboardSvc)

	return app
}
