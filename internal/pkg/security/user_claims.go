package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims 身份服务签发的 Token 中携带的用户信息
type UserClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
