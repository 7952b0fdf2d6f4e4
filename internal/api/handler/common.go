package handler

import (
	"Potluck/internal/pkg/consts"
	"Potluck/internal/pkg/pagination"
	"Potluck/internal/pkg/util"
	"Potluck/internal/service"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// parseLimit 非数字按默认值，超出上限截断
func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return pagination.DefaultLimit
	}
	return pagination.ClampLimit(n)
}

func parseFilters(query, categoryIDs, tagIDs string) service.Filters {
	return service.Filters{
		Query:       query,
		CategoryIDs: util.SplitList(categoryIDs, service.MaxFilterValues),
		TagIDs:      util.SplitList(tagIDs, service.MaxFilterValues),
	}
}

// viewerID 未登录时为空串
func viewerID(c *gin.Context) string {
	return c.GetString(consts.UserIDKey)
}

func identity(c *gin.Context) service.Identity {
	return service.Identity{
		UserID: c.GetString(consts.UserIDKey),
		Name:   c.GetString(consts.UserNameKey),
		Email:  c.GetString(consts.UserEmailKey),
	}
}
