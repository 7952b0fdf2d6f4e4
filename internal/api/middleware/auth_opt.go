package middleware

import (
	"Potluck/internal/pkg/consts"
	"Potluck/internal/pkg/security"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则为匿名（空串）
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Set(consts.UserIDKey, "")
			c.Next()
			return
		}

		claims, err := security.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.Set(consts.UserIDKey, "")
		} else {
			setIdentity(c, claims)
		}

		c.Next()
	}
}
