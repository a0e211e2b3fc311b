package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers liveness probes. It confirms only that the process serves
// HTTP; it does not touch the database or Redis.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
