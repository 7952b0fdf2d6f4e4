package handler

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/pkg/response"
	"Potluck/internal/pkg/util"
	"Potluck/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

func (s *CommentHandler) GetComments(c *gin.Context) {
	var req dto.PageQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	threads, err := s.commentSvc.GetThreads(c.Request.Context(), viewerID(c), c.Param("id"), parseLimit(req.Limit), req.Cursor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, threads)
}

func (s *CommentHandler) CreateComment(c *gin.Context) {
	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.commentSvc.CreateComment(c.Request.Context(), viewerID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}
