package middleware

import (
	"net/http"
	"strings"

	"pedidos/internal/domain/model"

	"github.com/labstack/echo/v4"
)

const (
	CtxIdentityKey = "identity" // model.Identity

	LoginPath = "/login"
)

// IdentitySource はログイン中のIdentityを返す
type IdentitySource interface {
	Current() (model.Identity, bool)
}

// ログインしていないと通さない。
// ブラウザ（Accept: text/html）は /login へ、それ以外は401
func SessionGuard(session IdentitySource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := session.Current()
			if !ok || identity.Token == "" {
				if wantsHTML(c.Request()) {
					return c.Redirect(http.StatusSeeOther, LoginPath)
				}
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxIdentityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom はSessionGuardが入れたIdentity
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	identity, ok := c.Get(CtxIdentityKey).(model.Identity)
	return identity, ok
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
