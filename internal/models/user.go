package models

import "github.com/golang-jwt/jwt/v5"

// Requester roles understood by the allocation engine. An empty role is
// treated as unrestricted (administrator semantics).
const (
	RoleStudent   = "estudiante"
	RoleProfessor = "profesor"
	RoleAdmin     = "administrador"
)

// User is the read-only projection of the usuarios table consumed by the
// role lookup. User management itself lives in the legacy boundary.
type User struct {
	ID            int64  `db:"id" json:"id"`
	Nombre        string `db:"nombre" json:"nombre"`
	TipoDeUsuario string `db:"tipo_de_usuario" json:"tipo_de_usuario"`
}

// JWTClaims is the access-token payload issued by the legacy auth boundary.
type JWTClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
