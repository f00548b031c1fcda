package api

import (
	"context"
	"fmt"
	"net/http"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"
)

const (
	ordersPath          = "/api/pedidos/"
	orderWithItemsPath  = "/api/pedidos/crear-con-items/"
	orderReportJSONPath = "/api/pedidos/reporte/json/"
)

type OrderAPI struct {
	client *Client
}

var _ repo.OrderRepository = (*OrderAPI)(nil)

func NewOrderAPI(client *Client) *OrderAPI {
	return &OrderAPI{client: client}
}

func orderPath(id int64) string {
	return fmt.Sprintf("%s%d/", ordersPath, id)
}

func (a *OrderAPI) List(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := a.client.Do(ctx, http.MethodGet, ordersPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *OrderAPI) CreateWithItems(ctx context.Context, draft model.OrderDraft) (model.Order, error) {
	var out model.Order
	if err := a.client.Do(ctx, http.MethodPost, orderWithItemsPath, draft, &out); err != nil {
		return model.Order{}, err
	}
	return out, nil
}

type orderStatusPatch struct {
	Status model.OrderStatus `json:"estado"`
}

func (a *OrderAPI) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	return a.client.Do(ctx, http.MethodPatch, orderPath(id), orderStatusPatch{Status: status}, nil)
}

func (a *OrderAPI) Delete(ctx context.Context, id int64) error {
	return a.client.Do(ctx, http.MethodDelete, orderPath(id), nil, nil)
}

func (a *OrderAPI) Report(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := a.client.Do(ctx, http.MethodGet, orderReportJSONPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
