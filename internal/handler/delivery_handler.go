package handler

import (
	"net/http"

	"pedidos/internal/domain/model"
	"pedidos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /entregas のHTTP
type DeliveryHandler struct {
	deliveries *usecase.DeliveryStore
}

// DI
func NewDeliveryHandler(deliveries *usecase.DeliveryStore) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries}
}

type DeliveryListResponse struct {
	Items []model.Delivery `json:"items"`
	Error string           `json:"error,omitempty"`
}

type CourierListResponse struct {
	Items []model.Profile `json:"items"`
}

func (h *DeliveryHandler) RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc) {
	g := e.Group("/entregas")
	g.Use(guard)

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/repartidores", h.couriers)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *DeliveryHandler) list(c echo.Context) error {
	h.deliveries.FetchAll(c.Request().Context())
	return h.render(c, http.StatusOK)
}

func (h *DeliveryHandler) create(c echo.Context) error {
	var req model.DeliveryInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.deliveries.Create(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return h.render(c, http.StatusCreated)
}

// 送ったフィールドだけ変える
func (h *DeliveryHandler) update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req model.DeliveryPatch
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.deliveries.Update(c.Request().Context(), id, req); err != nil {
		return writeError(c, err)
	}
	return h.render(c, http.StatusOK)
}

func (h *DeliveryHandler) delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.deliveries.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return h.render(c, http.StatusOK)
}

// 失敗しても空の一覧で200
func (h *DeliveryHandler) couriers(c echo.Context) error {
	return c.JSON(http.StatusOK, CourierListResponse{
		Items: h.deliveries.ListEligibleCouriers(c.Request().Context()),
	})
}

func (h *DeliveryHandler) render(c echo.Context, status int) error {
	return c.JSON(status, DeliveryListResponse{
		Items: h.deliveries.Deliveries(),
		Error: h.deliveries.Err(),
	})
}
