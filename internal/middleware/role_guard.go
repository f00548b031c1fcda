package middleware

import (
	"net/http"

	"pedidos/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// contextに入っているrolが roles のどれかかを確認します。
// SessionGuard の後ろで使う
func RoleGuard(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if !identity.HasRole(roles...) {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}
			return next(c)
		}
	}
}

// 商品管理はadminだけ
func AdminRoleGuard() echo.MiddlewareFunc {
	return RoleGuard(model.RoleAdmin)
}
