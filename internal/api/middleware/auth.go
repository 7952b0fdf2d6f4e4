package middleware

import (
	"Potluck/internal/pkg/consts"
	"Potluck/internal/pkg/response"
	"Potluck/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// RevokedTokens 已注销 Token 的签名记录，未命中返回空串
type RevokedTokens interface {
	Get(ctx context.Context, key string) (string, error)
}

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context，revoked 为 nil 时不检查注销
func AuthMiddleware(revoked RevokedTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		if revoked != nil {
			value, err := revoked.Get(c.Request.Context(), consts.RevokedTokenKey+signature)
			if err != nil {
				response.Fail(c, response.InternalServerError, "未知错误")
				c.Abort()
				return
			}
			if value != "" {
				response.Fail(c, response.Unauthorized, "Token 无效或已过期")
				c.Abort()
				return
			}
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *security.UserClaims) {
	c.Set(consts.UserIDKey, claims.UserID)
	c.Set(consts.UserNameKey, claims.Name)
	c.Set(consts.UserEmailKey, claims.Email)

	newCtx := context.WithValue(c.Request.Context(), consts.UserIDKey, claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}
