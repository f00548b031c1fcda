package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// 通信そのものの失敗（タイムアウト・接続断など）
	ErrTransport = errors.New("api transport error")

	// 2xxだがボディが読めない
	ErrDecode = errors.New("api decode error")
)

// Error はAPIが2xx以外を返したときのエラー。
// Detail はサーバーの {"detail": "..."}（無ければ空）
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("%d: %s", e.Status, http.StatusText(e.Status))
}

func AsError(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}

// StatusOf はAPIエラーのステータス（APIエラーでなければ0）
func StatusOf(err error) int {
	if ae, ok := AsError(err); ok {
		return ae.Status
	}
	return 0
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

func newError(status int, body []byte) *Error {
	e := &Error{Status: status}

	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		return e
	}

	//detailは文字列のときだけ使う
	var detail string
	if len(b.Detail) > 0 && json.Unmarshal(b.Detail, &detail) == nil {
		e.Detail = detail
	} else if b.Error != "" {
		e.Detail = b.Error
	}
	return e
}
