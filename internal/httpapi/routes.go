package httpapi

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"matchbook/internal/middleware"
)

// SetupRoutes lays the exchange multiplexer's routes out the way the
// teacher's routes.SetupRoutes does, extended with a leading :ticker
// segment so every order operation addresses the correct per-symbol
// MatchingCore (spec.md §4.9).
func SetupRoutes(app *fiber.App, handler *ExchangeHandler) {
	rateLimitDisabled := os.Getenv("RATE_LIMIT_DISABLED") == "1"

	maxRequests := 100
	if envMax := os.Getenv("RATE_LIMIT_MAX"); envMax != "" {
		if parsed, err := strconv.Atoi(envMax); err == nil && parsed > 0 {
			maxRequests = parsed
		}
	}

	windowDuration := time.Second
	if envWindow := os.Getenv("RATE_LIMIT_WINDOW"); envWindow != "" {
		if parsed, err := time.ParseDuration(envWindow); err == nil && parsed > 0 {
			windowDuration = parsed
		}
	}

	serviceAvailability := middleware.DefaultServiceAvailability()
	app.Use(serviceAvailability.Middleware())
	app.Use(middleware.RequestLogger())

	api := app.Group("/api/v1")

	if !rateLimitDisabled {
		rateLimiter := middleware.NewRateLimiter(maxRequests, windowDuration)
		api.Use(rateLimiter.Middleware())
	}

	exchangeGroup := api.Group("/exchange/:ticker")
	exchangeGroup.Post("/list", handler.ListTicker)
	exchangeGroup.Post("/orders", handler.SubmitOrder)
	exchangeGroup.Delete("/orders/:id", handler.CancelOrder)
	exchangeGroup.Put("/orders/:id", handler.EditOrder)
	exchangeGroup.Get("/orders/:id", handler.GetOrderStatus)
	exchangeGroup.Get("/quote", handler.GetQuote)

	app.Get("/health", handler.HealthCheck)
}
