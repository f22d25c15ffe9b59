package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit limits requests per client IP using an in-memory store.
// rate uses the limiter format, e.g. "10-M" for ten per minute.
func RateLimit(rate string) (echo.MiddlewareFunc, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("middleware.RateLimit: %w", err)
	}

	instance := limiter.New(memory.NewStore(), r)
	return echo.WrapMiddleware(stdlib.NewMiddleware(instance).Handler), nil
}
