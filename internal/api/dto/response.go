package dto

// Response 统一返回结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ListDTO 游标分页列表，NextCursor 为 null 表示没有下一页
type ListDTO[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}

// ItemsDTO 不分页的列表
type ItemsDTO[T any] struct {
	Items []T `json:"items"`
}

// PageQueryDTO 通用分页参数，limit 非数字时按默认值处理
type PageQueryDTO struct {
	Limit  string `form:"limit"`
	Cursor string `form:"cursor"`
}
