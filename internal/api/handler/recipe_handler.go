package handler

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/pkg/response"
	"Potluck/internal/pkg/util"
	"Potluck/internal/service"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	recipeSvc service.RecipeService
}

func NewRecipeHandler(recipeSvc service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeSvc: recipeSvc}
}

func (s *RecipeHandler) GetFeed(c *gin.Context) {
	var req dto.PageQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	recipes, err := s.recipeSvc.GetFeed(c.Request.Context(), viewerID(c), parseLimit(req.Limit), req.Cursor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipes)
}

func (s *RecipeHandler) Search(c *gin.Context) {
	var req dto.RecipeSearchDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	filters := parseFilters(req.Query, req.CategoryIDs, req.TagIDs)
	recipes, err := s.recipeSvc.Search(c.Request.Context(), viewerID(c), filters, parseLimit(req.Limit), req.Cursor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipes)
}

func (s *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := s.recipeSvc.GetByID(c.Request.Context(), viewerID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipe)
}

func (s *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req dto.RecipeCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	recipe, err := s.recipeSvc.Create(c.Request.Context(), viewerID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipe)
}

func (s *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req dto.RecipeUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	recipe, err := s.recipeSvc.Update(c.Request.Context(), viewerID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipe)
}

func (s *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := s.recipeSvc.Delete(c.Request.Context(), viewerID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *RecipeHandler) CreateVariation(c *gin.Context) {
	var req dto.RecipeCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	recipe, err := s.recipeSvc.CreateVariation(c.Request.Context(), viewerID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipe)
}

// GetMyRecipes 作者本人的食谱，可查看草稿
func (s *RecipeHandler) GetMyRecipes(c *gin.Context) {
	s.authorRecipes(c, viewerID(c))
}

// GetUserRecipes 他人主页，草稿由 service 按可见性过滤
func (s *RecipeHandler) GetUserRecipes(c *gin.Context) {
	s.authorRecipes(c, c.Param("id"))
}

func (s *RecipeHandler) authorRecipes(c *gin.Context, authorID string) {
	var req dto.AuthorRecipesQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}
	recipes, err := s.recipeSvc.GetByAuthor(c.Request.Context(), viewerID(c), authorID, req.Status, parseLimit(req.Limit), req.Cursor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recipes)
}
