package model

import "github.com/golang-jwt/jwt/v5"

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleHR        Role = "hr"
)

// UserClaims are the JWT claims issued by the auth service. This service only
// validates them; it never issues tokens.
type UserClaims struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}
