package api

import (
	"Potluck/internal/api/config"
	"Potluck/internal/api/middleware"
	"Potluck/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup, server config.ServerConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS & Metrics
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware(server.AllowedOrigins))
	r.Use(middleware.MetricsMiddleware())
	logger.SetupGin(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.AuthMiddleware(group.RevokedTokens)
	authOpt := middleware.AuthOptionalMiddleware()

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		apiGroup.GET("/search", authOpt, group.RecipeHandler.Search)
		apiGroup.GET("/categories", group.CatalogHandler.GetCategories)
		apiGroup.GET("/tags", group.CatalogHandler.GetTags)

		recipeGroup := apiGroup.Group("/recipes")
		{
			// 可选登录：登录后附带本人评分并可见自己的草稿
			optGroup := recipeGroup.Group("")
			optGroup.Use(authOpt)
			{
				optGroup.GET("/feed", group.RecipeHandler.GetFeed)
				optGroup.GET("/search", group.RecipeHandler.Search)
				optGroup.GET("/:id", group.RecipeHandler.GetRecipe)
				optGroup.GET("/:id/comments", group.CommentHandler.GetComments)
			}

			authGroup := recipeGroup.Group("")
			authGroup.Use(auth)
			{
				authGroup.POST("", group.RecipeHandler.CreateRecipe)
				authGroup.PATCH("/:id", group.RecipeHandler.UpdateRecipe)
				authGroup.DELETE("/:id", group.RecipeHandler.DeleteRecipe)
				authGroup.POST("/:id/variations", group.RecipeHandler.CreateVariation)
				authGroup.GET("/:id/rate", group.RatingHandler.GetMyRating)
				authGroup.POST("/:id/rate", group.RatingHandler.Rate)
				authGroup.POST("/:id/comments", group.CommentHandler.CreateComment)
			}
		}

		apiGroup.GET("/cooks/recommended", authOpt, group.CookHandler.Recommended)

		accountGroup := apiGroup.Group("/account")
		accountGroup.Use(auth)
		{
			accountGroup.GET("", group.AccountHandler.GetAccount)
			accountGroup.PATCH("", group.AccountHandler.UpdateAccount)
			accountGroup.DELETE("", group.AccountHandler.DeleteAccount)
			accountGroup.GET("/recipes", group.RecipeHandler.GetMyRecipes)
			accountGroup.GET("/favorites", group.AccountHandler.GetFavorites)
			accountGroup.POST("/favorites/:recipeId", group.AccountHandler.AddFavorite)
			accountGroup.DELETE("/favorites/:recipeId", group.AccountHandler.RemoveFavorite)
		}

		userGroup := apiGroup.Group("/users")
		{
			userGroup.GET("/:id/profile", group.AccountHandler.GetProfile)
			userGroup.GET("/:id/recipes", authOpt, group.RecipeHandler.GetUserRecipes)
		}

		followGroup := apiGroup.Group("/follow")
		followGroup.Use(auth)
		{
			followGroup.POST("/:userId", group.AccountHandler.Follow)
			followGroup.DELETE("/:userId", group.AccountHandler.Unfollow)
		}
	}

	return r
}
