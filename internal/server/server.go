package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pedidos/internal/usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
)

// New はビュー用のechoを組み立てる
func New(app *usecase.App, gatherer prometheus.Gatherer, level string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(ParseLevel(level))

	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	RegisterRoutes(e, app, gatherer)
	return e
}

// Start はShutdownされるまでブロックする
func Start(e *echo.Echo, addr string) error {
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func Shutdown(ctx context.Context, e *echo.Echo) error {
	return e.Shutdown(ctx)
}

// ParseLevel はLOG_LEVELをgommonのレベルにする（不明はINFO）
func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
