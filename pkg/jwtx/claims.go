package jwtx

import "github.com/golang-jwt/jwt/v5"

// Claims carries the identity fields embedded in a storefront API token.
type Claims struct {
	jwt.RegisteredClaims

	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}
