package api

import (
	"context"
	"fmt"
	"net/http"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"
)

const deliveriesPath = "/api/entregas/"

type DeliveryAPI struct {
	client *Client
}

var _ repo.DeliveryRepository = (*DeliveryAPI)(nil)

func NewDeliveryAPI(client *Client) *DeliveryAPI {
	return &DeliveryAPI{client: client}
}

func deliveryPath(id int64) string {
	return fmt.Sprintf("%s%d/", deliveriesPath, id)
}

func (a *DeliveryAPI) List(ctx context.Context) ([]model.Delivery, error) {
	var out []model.Delivery
	if err := a.client.Do(ctx, http.MethodGet, deliveriesPath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *DeliveryAPI) Create(ctx context.Context, in model.DeliveryInput) (model.Delivery, error) {
	var out model.Delivery
	if err := a.client.Do(ctx, http.MethodPost, deliveriesPath, in, &out); err != nil {
		return model.Delivery{}, err
	}
	return out, nil
}

// 配送は部分更新（PATCH）
func (a *DeliveryAPI) Update(ctx context.Context, id int64, patch model.DeliveryPatch) (model.Delivery, error) {
	var out model.Delivery
	if err := a.client.Do(ctx, http.MethodPatch, deliveryPath(id), patch, &out); err != nil {
		return model.Delivery{}, err
	}
	return out, nil
}

func (a *DeliveryAPI) Delete(ctx context.Context, id int64) error {
	return a.client.Do(ctx, http.MethodDelete, deliveryPath(id), nil, nil)
}
