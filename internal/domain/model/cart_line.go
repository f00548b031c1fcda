package model

import "github.com/shopspring/decimal"

// カートの明細
// 同一商品は1行だけ（数量を加算する）
type CartLine struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"nombre"`
	UnitPrice decimal.Decimal `json:"precio"`
	Quantity  int64           `json:"cantidad"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}
