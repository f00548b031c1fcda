package handler

import (
	"net/http"

	"pedidos/internal/domain/model"
	"pedidos/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /carrito のHTTP
type CartHandler struct {
	cart    *usecase.CartStore
	catalog *usecase.CatalogStore
}

// DI
func NewCartHandler(cart *usecase.CartStore, catalog *usecase.CatalogStore) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog}
}

type AddCartRequest struct {
	ProductID int64 `json:"producto_id" form:"producto_id"`
	Quantity  int64 `json:"cantidad" form:"cantidad"`
}

type UpdateCartLineRequest struct {
	Quantity int64 `json:"cantidad" form:"cantidad"`
}

type CartResponse struct {
	Items     []model.CartLine `json:"items"`
	Total     decimal.Decimal  `json:"total"`
	ItemCount int64            `json:"item_count"`
}

// /carrito, /carrito/:id を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc) {
	g := e.Group("/carrito")
	g.Use(guard)

	g.GET("", h.get)
	g.POST("", h.add)
	g.DELETE("", h.clear)
	g.PATCH("/:id", h.patchLine)
	g.DELETE("/:id", h.deleteLine)
}

func (h *CartHandler) get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.render())
}

func (h *CartHandler) add(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	//カタログに無ければ一度取り直す
	p, ok := h.catalog.Find(req.ProductID)
	if !ok {
		h.catalog.FetchAll(c.Request().Context())
		p, ok = h.catalog.Find(req.ProductID)
	}
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not found"})
	}

	if err := h.cart.Add(c.Request().Context(), p, req.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.render())
}

// 0以下は削除
func (h *CartHandler) patchLine(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCartLineRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.cart.SetQuantity(c.Request().Context(), id, req.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.render())
}

func (h *CartHandler) deleteLine(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.cart.Remove(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.render())
}

func (h *CartHandler) clear(c echo.Context) error {
	if err := h.cart.Clear(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.render())
}

func (h *CartHandler) render() CartResponse {
	return CartResponse{
		Items:     h.cart.Lines(),
		Total:     h.cart.Total(),
		ItemCount: h.cart.ItemCount(),
	}
}
