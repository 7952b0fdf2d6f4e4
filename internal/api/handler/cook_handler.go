package handler

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/pkg/response"
	"Potluck/internal/service"

	"github.com/gin-gonic/gin"
)

type CookHandler struct {
	cookSvc service.CookService
}

func NewCookHandler(cookSvc service.CookService) *CookHandler {
	return &CookHandler{cookSvc: cookSvc}
}

func (s *CookHandler) Recommended(c *gin.Context) {
	var req dto.CookQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	cooks, err := s.cookSvc.Recommend(c.Request.Context(), viewerID(c), req.Query, parseLimit(req.Limit))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cooks)
}
