package handler

import (
	"net/http"
	"strings"

	"pedidos/internal/domain/model"
	"pedidos/internal/middleware"
	"pedidos/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ログイン後にブラウザを送る先
const CatalogPath = "/productos"

// /login と /logout
type AuthHandler struct {
	session *usecase.SessionStore
}

// DI
func NewAuthHandler(session *usecase.SessionStore) *AuthHandler {
	return &AuthHandler{session: session}
}

// JSONでもフォームでも受ける
type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// トークンは返さない
type SessionResponse struct {
	Username string     `json:"username"`
	ID       int64      `json:"id"`
	Role     model.Role `json:"rol"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, guard echo.MiddlewareFunc) {
	e.POST(middleware.LoginPath, h.login)
	e.POST("/logout", h.logout)
	e.GET("/sesion", h.current, guard)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ok, err := h.session.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	}

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML) {
		return c.Redirect(http.StatusSeeOther, CatalogPath)
	}
	identity, _ := h.session.Current()
	return c.JSON(http.StatusOK, toSessionResponse(identity))
}

func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.session.Logout(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

func (h *AuthHandler) current(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	return c.JSON(http.StatusOK, toSessionResponse(identity))
}

func toSessionResponse(identity model.Identity) SessionResponse {
	return SessionResponse{
		Username: identity.Username,
		ID:       identity.ID,
		Role:     identity.Role,
	}
}
