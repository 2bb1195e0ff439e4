package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solanaforge/amm-engine/internal/curve"
	"github.com/solanaforge/amm-engine/internal/fixedmath"
	"github.com/solanaforge/amm-engine/internal/ledger"
	"github.com/solanaforge/amm-engine/internal/pool"
)

// NotFoundJSON returns a custom HTTP error handler that returns JSON responses
// This ensures all errors (including 404s) have consistent JSON format
func NotFoundJSON() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			_ = c.JSON(he.Code, ErrorResponse{
				Error: http.StatusText(he.Code),
				Code:  he.Code,
			})
			return
		}

		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  http.StatusInternalServerError,
		})
	}
}

// statusOf maps the core error taxonomy onto HTTP status codes so that
// automated clients can tell "adjust and resubmit" (4xx) apart from
// configuration faults (422).
func statusOf(err error) int {
	switch {
	case errors.Is(err, pool.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pool.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, pool.ErrPoolLocked):
		return http.StatusLocked
	case errors.Is(err, pool.ErrInvalidAmount),
		errors.Is(err, pool.ErrInsufficientBalance),
		errors.Is(err, pool.ErrLiquidityBelowMinimum),
		errors.Is(err, pool.ErrNoLiquidityInPool):
		return http.StatusBadRequest
	case errors.Is(err, curve.ErrSlippageExceeded),
		errors.Is(err, curve.ErrInsufficientLiquidity):
		return http.StatusConflict
	case errors.Is(err, curve.ErrZeroReserve),
		errors.Is(err, curve.ErrInvalidFeeRate),
		errors.Is(err, curve.ErrInvalidPrecision),
		errors.Is(err, pool.ErrCurve),
		errors.Is(err, fixedmath.ErrOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
