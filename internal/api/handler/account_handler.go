package handler

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/pkg/response"
	"Potluck/internal/pkg/util"
	"Potluck/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler 个人资料、收藏与关注
type AccountHandler struct {
	socialSvc service.SocialService
}

func NewAccountHandler(socialSvc service.SocialService) *AccountHandler {
	return &AccountHandler{socialSvc: socialSvc}
}

func (s *AccountHandler) GetAccount(c *gin.Context) {
	user, err := s.socialSvc.GetAccount(c.Request.Context(), identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *AccountHandler) UpdateAccount(c *gin.Context) {
	var req dto.AccountUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	user, err := s.socialSvc.UpdateProfile(c.Request.Context(), viewerID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := s.socialSvc.DeleteAccount(c.Request.Context(), viewerID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AccountHandler) GetProfile(c *gin.Context) {
	user, err := s.socialSvc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *AccountHandler) GetFavorites(c *gin.Context) {
	var req dto.FavoritesQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	filters := parseFilters(req.Query, req.CategoryIDs, req.TagIDs)
	favorites, err := s.socialSvc.GetFavorites(c.Request.Context(), viewerID(c), filters, parseLimit(req.Limit))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, favorites)
}

func (s *AccountHandler) AddFavorite(c *gin.Context) {
	result, err := s.socialSvc.AddFavorite(c.Request.Context(), viewerID(c), c.Param("recipeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *AccountHandler) RemoveFavorite(c *gin.Context) {
	result, err := s.socialSvc.RemoveFavorite(c.Request.Context(), viewerID(c), c.Param("recipeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *AccountHandler) Follow(c *gin.Context) {
	result, err := s.socialSvc.Follow(c.Request.Context(), viewerID(c), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *AccountHandler) Unfollow(c *gin.Context) {
	followingID := c.Param("userId")
	if err := s.socialSvc.Unfollow(c.Request.Context(), viewerID(c), followingID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.FollowResultDTO{FollowerID: viewerID(c), FollowingID: followingID, Success: true})
}
