package handler

import (
	"net/http"

	"pedidos/internal/domain/model"
	"pedidos/internal/middleware"
	"pedidos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ProductListResponse struct {
	Items []model.Product `json:"items"`
	Error string          `json:"error,omitempty"`
}

// /productos（一覧）と /gestion-productos（admin）
type ProductHandler struct {
	catalog *usecase.CatalogStore
}

// DI
func NewProductHandler(catalog *usecase.CatalogStore) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc) {
	e.GET("/productos", h.list, guard)

	admin := e.Group("/gestion-productos")
	admin.Use(guard)
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("", h.list)
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

// 表示のたびに取り直す（失敗したら前の一覧）
func (h *ProductHandler) list(c echo.Context) error {
	h.catalog.FetchAll(c.Request().Context())
	return h.render(c, http.StatusOK)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req model.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.catalog.Create(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return h.render(c, http.StatusCreated)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req model.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.catalog.Update(c.Request().Context(), id, req); err != nil {
		return writeError(c, err)
	}
	return h.render(c, http.StatusOK)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.catalog.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return h.render(c, http.StatusOK)
}

func (h *ProductHandler) render(c echo.Context, status int) error {
	return c.JSON(status, ProductListResponse{
		Items: h.catalog.Products(),
		Error: h.catalog.Err(),
	})
}
