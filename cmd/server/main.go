package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"

	"stock-predictor/internal/catalog"
	"stock-predictor/internal/config"
	"stock-predictor/internal/handlers"
	"stock-predictor/internal/services"
	applog "stock-predictor/pkg/logger"
	"stock-predictor/pkg/predictor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	l := applog.New(applog.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	applog.SetGlobalLogger(l)

	baseCtx, stopForecasts := context.WithCancel(context.Background())
	defer stopForecasts()

	loadCtx, cancelLoad := context.WithTimeout(baseCtx, 15*time.Second)
	cat, err := catalog.Load(loadCtx, cfg.FirestoreProject, cfg.FirestoreCredentials, l)
	cancelLoad()
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to load index catalog")
	}

	predictClient := predictor.NewClient(cfg.PredictionAPIURL, cfg.PredictTimeout)
	sessionService := services.NewSessionService(baseCtx, cat, predictClient, cfg.SessionTTL, cfg.ChartWindow, l)
	defer sessionService.Close()

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "Stock-Predictor",
		AppName:       "Stock Predictor v1.0",
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  time.Second * 10,
		BodyLimit:     64 * 1024,
		ErrorHandler:  handlers.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       3600,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	}))

	handlers.RegisterRoutes(app,
		handlers.NewHealthHandler(cfg.Environment, cat, cfg.PredictionAPIURL),
		handlers.NewCatalogHandler(cat),
		handlers.NewSessionHandler(sessionService),
	)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			l.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	l.Info().
		Str("port", cfg.Port).
		Str("environment", cfg.Environment).
		Str("prediction_api", cfg.PredictionAPIURL).
		Msg("Stock predictor API started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	l.Info().Msg("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		l.Error().Err(err).Msg("Server forced to shutdown")
	}
	stopForecasts()

	l.Info().Msg("Server shutdown complete")
}
