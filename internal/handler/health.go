package handler // declare the package name; contains HTTP handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds to GET / so load balancers and uptime checks can verify
// the API is running.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "server is running")
}
