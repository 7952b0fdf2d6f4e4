package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid     = errors.New("参数错误")
	ErrUserNotFound     = errors.New("用户不存在")
	ErrRecipeNotFound   = errors.New("食谱不存在")
	ErrCommentNotFound  = errors.New("评论不存在")
	ErrNotFollowing     = errors.New("未关注该用户")
	ErrInvalidCategory  = errors.New("分类不存在")
	ErrInvalidTag       = errors.New("标签不存在")
	ErrInvalidParent    = errors.New("父评论无效")
	ErrInvalidStars     = errors.New("评分必须为 1 到 5 的整数")
	ErrFollowSelf       = errors.New("不能关注自己")
	ErrVariationOfDraft = errors.New("不能基于草稿创建变体")
	ErrForbidden        = errors.New("只有作者可以执行此操作")
	ErrActionDuplicate  = errors.New("重复操作")
	ErrRatingContention = errors.New("评分冲突，请稍后重试")
	UnauthorizedError   = errors.New("未登录")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:     BadRequest,
	ErrUserNotFound:     NotFound,
	ErrRecipeNotFound:   NotFound,
	ErrCommentNotFound:  NotFound,
	ErrNotFollowing:     NotFound,
	ErrInvalidCategory:  BadRequest,
	ErrInvalidTag:       BadRequest,
	ErrInvalidParent:    BadRequest,
	ErrInvalidStars:     BadRequest,
	ErrFollowSelf:       BadRequest,
	ErrVariationOfDraft: BadRequest,
	ErrForbidden:        Forbidden,
	ErrActionDuplicate:  Conflict,
	ErrRatingContention: Conflict,
	UnauthorizedError:   Unauthorized,
	UnExpectedError:     InternalServerError,
}
