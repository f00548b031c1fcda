package handler

import (
	"net/http"

	"pedidos/internal/domain/model"
	"pedidos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /pedidos のHTTP。注文はカートの中身から作る
type OrderHandler struct {
	orders *usecase.OrderStore
	cart   *usecase.CartStore
}

// DI
func NewOrderHandler(orders *usecase.OrderStore, cart *usecase.CartStore) *OrderHandler {
	return &OrderHandler{orders: orders, cart: cart}
}

type OrderStatusRequest struct {
	Status model.OrderStatus `json:"estado" form:"estado"`
}

type OrderListResponse struct {
	Items []model.Order `json:"items"`
	Error string        `json:"error,omitempty"`
}

// 権限（誰がどのステータスにできるか）はサーバーが判断する
func (h *OrderHandler) RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc) {
	g := e.Group("/pedidos")
	g.Use(guard)

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/reporte", h.report)
	g.PATCH("/:id", h.updateStatus)
	g.DELETE("/:id", h.delete)
}

func (h *OrderHandler) list(c echo.Context) error {
	h.orders.FetchAll(c.Request().Context())
	return h.render(c, http.StatusOK)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req usecase.OrderMeta
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.orders.Create(c.Request().Context(), req, h.cart.Lines()); err != nil {
		return writeError(c, err)
	}
	return h.render(c, http.StatusCreated)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.orders.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		return writeError(c, err)
	}
	return h.render(c, http.StatusOK)
}

func (h *OrderHandler) delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.orders.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return h.render(c, http.StatusOK)
}

func (h *OrderHandler) report(c echo.Context) error {
	out, err := h.orders.Report(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderListResponse{Items: out})
}

func (h *OrderHandler) render(c echo.Context, status int) error {
	return c.JSON(status, OrderListResponse{
		Items: h.orders.Orders(),
		Error: h.orders.Err(),
	})
}
