package handler

import (
	"Potluck/internal/api/dto"
	"Potluck/internal/pkg/response"
	"Potluck/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogSvc service.CatalogService
}

func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

func (s *CatalogHandler) GetCategories(c *gin.Context) {
	items, err := s.catalogSvc.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ItemsDTO[dto.CatalogItemDTO]{Items: items})
}

func (s *CatalogHandler) GetTags(c *gin.Context) {
	items, err := s.catalogSvc.Tags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ItemsDTO[dto.CatalogItemDTO]{Items: items})
}
