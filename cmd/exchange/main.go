package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"matchbook/internal/exchange"
	"matchbook/internal/httpapi"
	"matchbook/internal/logger"
)

func main() {
	logger.InitLogger()
	log := logger.Component("exchange")

	log.Info().Msg("initializing order matching exchange")

	ex := exchange.New(log, nil)
	handler := httpapi.NewExchangeHandler(ex)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Error().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Int("status", code).
				Str("error", err.Error()).
				Msg("request error")

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	httpapi.SetupRoutes(app, handler)

	port := ":8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = ":" + envPort
	}

	serverError := make(chan error, 1)

	go func() {
		if err := app.Listen(port); err != nil {
			errStr := err.Error()
			if errStr != "server is shutting down" {
				serverError <- err
			}
		}
	}()

	select {
	case err := <-serverError:
		log.Fatal().
			Err(err).
			Str("port", port).
			Str("hint", "port may be already in use, try PORT=3000").
			Msg("server failed to start")
	default:
		log.Info().
			Str("port", port).
			Msg("order matching exchange started")

		log.Info().
			Strs("endpoints", []string{
				"POST   /api/v1/exchange/:ticker/list",
				"POST   /api/v1/exchange/:ticker/orders",
				"DELETE /api/v1/exchange/:ticker/orders/:id",
				"PUT    /api/v1/exchange/:ticker/orders/:id",
				"GET    /api/v1/exchange/:ticker/orders/:id",
				"GET    /api/v1/exchange/:ticker/quote",
				"GET    /health",
			}).
			Msg("API endpoints registered")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	log.Info().Msg("received shutdown signal, shutting down...")

	shutdownTimeout := 10 * time.Second
	if envTimeout := os.Getenv("SHUTDOWN_TIMEOUT"); envTimeout != "" {
		if parsed, err := time.ParseDuration(envTimeout); err == nil && parsed > 0 {
			shutdownTimeout = parsed
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn().
				Dur("timeout", shutdownTimeout).
				Msg("timeout exceeded, shutting down...")
		} else {
			log.Error().
				Err(err).
				Msg("error during shutdown")
		}
	} else {
		log.Info().Msg("shutdown complete")
	}

	ex.Shutdown()
	logger.CloseLogger()
}
