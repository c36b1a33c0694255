package server

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed static/index.html
var staticFS embed.FS

func registerUI(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		page, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "ui unavailable")
		}
		return c.HTMLBlob(http.StatusOK, page)
	})
}
