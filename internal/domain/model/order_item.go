package model

import "github.com/shopspring/decimal"

// 購入時点の価格を持つ
type OrderItem struct {
	ID        int64           `json:"id,omitempty"`
	ProductID int64           `json:"producto"`
	Quantity  int64           `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_al_comprar"`
}
