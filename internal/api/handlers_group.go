package api

import (
	"Potluck/internal/api/handler"
	"Potluck/internal/api/middleware"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	RecipeHandler  *handler.RecipeHandler
	RatingHandler  *handler.RatingHandler
	CommentHandler *handler.CommentHandler
	CookHandler    *handler.CookHandler
	AccountHandler *handler.AccountHandler
	CatalogHandler *handler.CatalogHandler

	// RevokedTokens 为 nil 时不检查 Token 注销
	RevokedTokens middleware.RevokedTokens
}
