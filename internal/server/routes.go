package server

import (
	"net/http"

	"pedidos/internal/handler"
	"pedidos/internal/middleware"
	"pedidos/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeRegistrar interface {
	RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc)
}

// RegisterRoutes は画面ごとのルートを登録する
func RegisterRoutes(e *echo.Echo, app *usecase.App, gatherer prometheus.Gatherer) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	guard := middleware.SessionGuard(app.Session)
	for _, h := range []routeRegistrar{
		handler.NewAuthHandler(app.Session),
		handler.NewProductHandler(app.Catalog),
		handler.NewCartHandler(app.Cart, app.Catalog),
		handler.NewOrderHandler(app.Orders, app.Cart),
		handler.NewDeliveryHandler(app.Deliveries),
		handler.NewProfileHandler(app.Profiles),
	} {
		h.RegisterRoutes(e, guard)
	}
}
