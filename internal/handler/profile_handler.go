package handler

import (
	"net/http"

	"pedidos/internal/domain/model"
	"pedidos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /perfiles のHTTP（?rol= で絞り込み）
type ProfileHandler struct {
	profiles *usecase.ProfileStore
}

// DI
func NewProfileHandler(profiles *usecase.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type ProfileListResponse struct {
	Items []model.Profile `json:"items"`
	Error string          `json:"error,omitempty"`
}

func (h *ProfileHandler) RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc) {
	e.GET("/perfiles", h.list, guard)
}

func (h *ProfileHandler) list(c echo.Context) error {
	role := model.Role(c.QueryParam("rol"))
	if role != "" && !role.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid rol"})
	}

	h.profiles.FetchAll(c.Request().Context(), role)
	return c.JSON(http.StatusOK, ProfileListResponse{
		Items: h.profiles.Profiles(),
		Error: h.profiles.Err(),
	})
}
