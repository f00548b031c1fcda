package api

import (
	"context"
	"net/http"
	"net/url"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"
)

const profilesPath = "/api/perfiles/"

type ProfileAPI struct {
	client *Client
}

var _ repo.ProfileRepository = (*ProfileAPI)(nil)

func NewProfileAPI(client *Client) *ProfileAPI {
	return &ProfileAPI{client: client}
}

// rolの絞り込みはサーバー側
func (a *ProfileAPI) List(ctx context.Context, role model.Role) ([]model.Profile, error) {
	path := profilesPath
	if role != "" {
		path += "?rol=" + url.QueryEscape(string(role))
	}

	var out []model.Profile
	if err := a.client.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
