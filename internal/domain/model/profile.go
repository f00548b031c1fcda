package model

type Profile struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"usuario_id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"rol"`
	Phone    string `json:"telefono"`
	Address  string `json:"direccion"`
}
