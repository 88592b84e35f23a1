package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type apiKeyError struct {
	Message string `json:"message"`
}

// APIKeyAuth guards the AI endpoints with a shared x-api-key header.
// An empty configured key disables the check, which is how local
// development runs.
func APIKeyAuth(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if apiKey == "" {
				return next(c)
			}

			provided := c.Request().Header.Get("x-api-key")
			if provided == "" {
				return c.JSON(http.StatusUnauthorized, apiKeyError{Message: "missing api key"})
			}

			if provided != apiKey {
				return c.JSON(http.StatusForbidden, apiKeyError{Message: "invalid api key"})
			}

			return next(c)
		}
	}
}
