package model

// /api/token/ のレスポンス
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
