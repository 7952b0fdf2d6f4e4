package handler

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/pkg/response"
	"Potluck/internal/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingSvc service.RatingService
}

func NewRatingHandler(ratingSvc service.RatingService) *RatingHandler {
	return &RatingHandler{ratingSvc: ratingSvc}
}

func (s *RatingHandler) Rate(c *gin.Context) {
	var req dto.RateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.ratingSvc.Rate(c.Request.Context(), c.Param("id"), viewerID(c), req.Stars)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *RatingHandler) GetMyRating(c *gin.Context) {
	result, err := s.ratingSvc.GetMyRating(c.Request.Context(), c.Param("id"), viewerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
