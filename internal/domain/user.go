package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Perfis de acesso ao dashboard
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Claims são as informações carregadas no token JWT
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
