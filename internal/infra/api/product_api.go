package api

import (
	"context"
	"fmt"
	"net/http"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"
)

const productsPath = "/api/productos/"

type ProductAPI struct {
	client *Client
}

var _ repo.ProductRepository = (*ProductAPI)(nil)

func NewProductAPI(client *Client) *ProductAPI {
	return &ProductAPI{client: client}
}

func productPath(id int64) string {
	return fmt.Sprintf("%s%d/", productsPath, id)
}

func (a *ProductAPI) List(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := a.client.Do(ctx, http.MethodGet, productsPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ProductAPI) Create(ctx context.Context, in model.ProductInput) (model.Product, error) {
	var out model.Product
	if err := a.client.Do(ctx, http.MethodPost, productsPath, in, &out); err != nil {
		return model.Product{}, err
	}
	return out, nil
}

// 商品の更新は全項目を送る（PUT）
func (a *ProductAPI) Update(ctx context.Context, id int64, in model.ProductInput) (model.Product, error) {
	var out model.Product
	if err := a.client.Do(ctx, http.MethodPut, productPath(id), in, &out); err != nil {
		return model.Product{}, err
	}
	return out, nil
}

func (a *ProductAPI) Delete(ctx context.Context, id int64) error {
	return a.client.Do(ctx, http.MethodDelete, productPath(id), nil, nil)
}
