package repository

import (
	"context"

	"pedidos/internal/domain/model"
)

// 注文の一覧はサーバー側でログインユーザーに絞られる
type OrderRepository interface {
	List(ctx context.Context) ([]model.Order, error)
	//注文と明細を1リクエストで作成（在庫・価格チェックはサーバー）
	CreateWithItems(ctx context.Context, draft model.OrderDraft) (model.Order, error)
	//estadoだけ部分更新
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error
	Delete(ctx context.Context, id int64) error
	Report(ctx context.Context) ([]model.Order, error)
}
