package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"tenkibot/internal/advisor"
	httpapi "tenkibot/internal/api/http"
	"tenkibot/internal/config"
	"tenkibot/internal/gemini"
	"tenkibot/internal/geocode"
	"tenkibot/internal/health"
	"tenkibot/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Upstream clients.
	geocoder := geocode.NewClient(httpClient)
	weatherClient := weather.NewClient(httpClient, cfg.OpenWeatherAPIKey)
	model := gemini.NewClient(httpClient, cfg.GeminiAPIKey)

	// Core resolution pipeline.
	pipeline := advisor.NewPipeline(geocoder, weatherClient, model, cfg.StepTimeout)

	// Periodic upstream reachability probes for /health.
	monitor := health.New(cfg.ProbeInterval)
	monitor.Register("openmeteo-geocoding", geocoder)
	monitor.Register("openweather", weatherClient)
	if err := monitor.Start(); err != nil {
		log.Fatalf("failed to start health monitor: %v", err)
	}
	defer monitor.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "tenkibot",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	httpapi.RegisterRoutes(app, pipeline, monitor)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
