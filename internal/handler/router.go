package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sumire/issuetracker/internal/service"
)

// RouterConfig holds the options applied to the echo instance.
type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter builds the echo instance serving the issue API.
func NewRouter(issues *service.IssueService, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(MaxBodySize))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderAccept, echo.HeaderContentType},
		ExposeHeaders: []string{echo.HeaderXRequestID},
		MaxAge:        300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h := NewIssueHandler(issues)
	g := e.Group("/api/issues")
	g.GET("/:project", h.List)
	g.POST("/:project", h.Create)
	g.PUT("/:project", h.Update)
	g.DELETE("/:project", h.Delete)

	return e
}
