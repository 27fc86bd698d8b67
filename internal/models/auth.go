package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorRole represents the available roles for route gating.
type OperatorRole string

const (
	RoleAdmin OperatorRole = "ADMIN"
)

// Operator describes the authenticated back-office identity.
type Operator struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Role     OperatorRole `json:"role"`
}

// LoginRequest holds credentials for authenticating an operator.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and operator info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	Operator    Operator  `json:"operator"`
}

// JWTClaims represents the JWT payload for access tokens. The token id
// (RegisteredClaims.ID) keys the server-side session flag.
type JWTClaims struct {
	OperatorID string       `json:"operator_id"`
	Username   string       `json:"username"`
	Role       OperatorRole `json:"role"`
	jwt.RegisteredClaims
}
