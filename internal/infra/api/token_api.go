package api

import (
	"context"
	"net/http"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"
)

const tokenPath = "/api/token/"

// TokenAPI は /api/token/ でログインする
type TokenAPI struct {
	client *Client
}

var _ repo.TokenRepository = (*TokenAPI)(nil)

func NewTokenAPI(client *Client) *TokenAPI {
	return &TokenAPI{client: client}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *TokenAPI) Obtain(ctx context.Context, username string, password string) (model.TokenPair, error) {
	var out model.TokenPair
	err := a.client.DoPublic(ctx, http.MethodPost, tokenPath, tokenRequest{
		Username: username,
		Password: password,
	}, &out)
	if err != nil {
		//400/401はユーザー名かパスワードの誤り
		switch StatusOf(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return model.TokenPair{}, repo.ErrInvalidCredentials
		}
		return model.TokenPair{}, err
	}
	if out.Access == "" {
		return model.TokenPair{}, ErrDecode
	}
	return out, nil
}
