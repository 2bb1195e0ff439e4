package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	// Set custom error handler for consistent JSON responses
	e.HTTPErrorHandler = NotFoundJSON()

	// Apply global middleware
	e.Use(SetJSONContentType) // Ensure all responses are JSON
	e.Use(SetNoCacheHeaders)  // Prevent caching of API responses

	// Optional API key authentication
	if cfg.APIKey != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key",
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil
			},
		}))
	}

	// API v1 routes
	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)
	v1.GET("/quote", h.Quote)              // Curve evaluation without settlement
	v1.GET("/swaps/recent", h.RecentSwaps) // Recent settled operations

	// Pool record endpoints
	poolGroup := v1.Group("/pools")
	poolGroup.GET("", h.PoolList)
	poolGroup.POST("", h.PoolCreate)
	poolGroup.GET("/:id", h.PoolGet)
	poolGroup.GET("/:id/reserves", h.PoolReserves)
	poolGroup.POST("/:id/lock", h.PoolLock) // Emergency halt toggle

	// Exchange endpoints with rate limiting: these settle balances
	exchange := v1.Group("")
	exchange.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(10), // 10 operations per second per client
		Burst:     20,
		ExpiresIn: 2 * time.Minute,
	})))
	exchange.POST("/swap", h.Swap)
	exchange.POST("/withdraw", h.Withdraw)

	// Dev-only balance faucet
	if cfg.DevMode {
		v1.POST("/dev/mint", h.Mint)
	}

	// Catch-all route for 404 responses
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
