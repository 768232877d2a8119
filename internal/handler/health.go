package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers and monitoring
// systems. It reports nothing about the booking backend: the gateway is
// healthy as long as it can serve its own flows.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
