package usecase

import (
	"errors"
	"net/http"

	"pedidos/internal/infra/api"
)

var (
	//ログインしていない
	ErrAuthRequired = errors.New("authentication required")
	//カートが空
	ErrCartEmpty = errors.New("cart is empty")
	//数量は1以上
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	//カートに無い商品
	ErrLineNotFound = errors.New("cart line not found")
	//不明なステータス
	ErrInvalidStatus = errors.New("invalid status")
	//入力不足（validatorが返す）
	ErrValidation = errors.New("validation error")
)

// UserError は画面に出すメッセージと、ビューが返すステータス。
// Err に元のエラー（api.Error など）を残す
type UserError struct {
	Status  int
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func NewUserError(status int, message string, err error) error {
	return &UserError{
		Status:  status,
		Message: message,
		Err:     err,
	}
}

func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// failure は書き込み失敗をメッセージにする。
//   - 401: セッション切れ
//   - 403: 権限なし
//   - サーバーのdetail
//   - それ以外は what を使った汎用メッセージ
func failure(what string, err error) error {
	if errors.Is(err, ErrValidation) {
		return NewUserError(http.StatusBadRequest, err.Error(), err)
	}
	if errors.Is(err, ErrAuthRequired) {
		return NewUserError(http.StatusUnauthorized, "You must be logged in to "+what+".", err)
	}

	if ae, ok := api.AsError(err); ok {
		switch {
		case ae.Status == http.StatusUnauthorized:
			return NewUserError(http.StatusUnauthorized, "Your session has expired. Please log in again.", err)
		case ae.Status == http.StatusForbidden:
			return NewUserError(http.StatusForbidden, "You do not have permission to "+what+".", err)
		case ae.Detail != "":
			return NewUserError(http.StatusBadRequest, ae.Detail, err)
		}
	}
	return NewUserError(http.StatusBadRequest, "Could not "+what+". Please try again.", err)
}
