package model

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleCliente    Role = "cliente"
	RoleRepartidor Role = "repartidor"
)

// ParseRole はトークンのrolクレームを解釈する（不明・空はcliente扱い）
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleRepartidor:
		return Role(s)
	default:
		return RoleCliente
	}
}

// Valid は既知のロールかどうか
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCliente, RoleRepartidor:
		return true
	}
	return false
}

// ログイン中のセッション情報（端末側に保存する）
type Identity struct {
	Username     string `json:"username"`
	ID           int64  `json:"id"`
	Role         Role   `json:"rol"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// HasRole は roles のどれかに一致するか
func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
