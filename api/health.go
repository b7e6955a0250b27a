package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func init() {
	RegisterGET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
}
