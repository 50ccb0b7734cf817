package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/IronwoodTC/quoteiq-webhook/internal/hook"
)

// webhookHandler accepts QuoteIQ lifecycle events. Routed events always ack
// 200 regardless of downstream outcome; only a malformed body yields 500.
func webhookHandler(disp *hook.Dispatcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "read body",
			})
		}

		if err := disp.Dispatch(c.Request().Context(), body); err != nil {
			log.Errorf("dispatch failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
		}

		return c.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"received": true,
		})
	}
}
