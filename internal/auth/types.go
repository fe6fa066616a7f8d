package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// represents JWT claims issued by the account service
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
