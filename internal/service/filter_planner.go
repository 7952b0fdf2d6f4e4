package service

import (
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/util"
)

const (
	// MaxFilterValues 分类、标签各自最多参与过滤的 ID 数，多余部分直接丢弃
	MaxFilterValues = docstore.MaxMembershipValues
	// CombinedOverFetchFactor 分类+标签组合查询时按页大小放大的倍数
	CombinedOverFetchFactor = 5
	// RecentWindowSize 纯关键词搜索只扫描最近发布的 N 条
	RecentWindowSize = 500
)

type StrategyKind int

const (
	// StrategyEmpty 没有任何过滤条件，不做全量扫描
	StrategyEmpty StrategyKind = iota
	// StrategyRecentWindow 最近窗口内按标题子串过滤
	StrategyRecentWindow
	// StrategyCategory 分类成员查询，可叠加标题过滤
	StrategyCategory
	// StrategyTag 标签成员查询，可叠加标题过滤
	StrategyTag
	// StrategyCategoryThenTag 分类成员查询放大取数后，在内存中按标签与标题过滤
	StrategyCategoryThenTag
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyRecentWindow:
		return "recent_window"
	case StrategyCategory:
		return "category"
	case StrategyTag:
		return "tag"
	case StrategyCategoryThenTag:
		return "category_then_tag"
	}
	return "empty"
}

// Filters 原始搜索条件，由 Plan 负责归一化与截断
type Filters struct {
	Query       string
	CategoryIDs []string
	TagIDs      []string
}

// Strategy 一次搜索的执行计划
type Strategy struct {
	Kind StrategyKind
	// Query 归一化后的标题子串，空串表示不过滤
	Query string
	// Membership 交给存储执行的成员过滤，只有一个
	Membership *docstore.Membership
	// PostTags 内存中要求命中的标签集合
	PostTags []string
	// FetchFactor 单次取数相对页大小的倍数
	FetchFactor int
}

// Fetch 计算单次从存储读取的条数
func (s Strategy) Fetch(limit int) int {
	if s.FetchFactor > 1 {
		return limit * s.FetchFactor
	}
	return limit + 1
}

type Planner struct{}

func (Planner) Plan(f Filters) Strategy {
	query := util.NormalizeQuery(f.Query)
	categories := util.TruncateList(util.UniqueStrings(f.CategoryIDs), MaxFilterValues)
	tags := util.TruncateList(util.UniqueStrings(f.TagIDs), MaxFilterValues)

	switch {
	case len(categories) > 0 && len(tags) > 0:
		return Strategy{
			Kind:        StrategyCategoryThenTag,
			Query:       query,
			Membership:  &docstore.Membership{Field: "categories", Values: docstore.InValues(categories)},
			PostTags:    tags,
			FetchFactor: CombinedOverFetchFactor,
		}
	case len(categories) > 0:
		return Strategy{
			Kind:       StrategyCategory,
			Query:      query,
			Membership: &docstore.Membership{Field: "categories", Values: docstore.InValues(categories)},
		}
	case len(tags) > 0:
		return Strategy{
			Kind:       StrategyTag,
			Query:      query,
			Membership: &docstore.Membership{Field: "tags", Values: docstore.InValues(tags)},
		}
	case query != "":
		return Strategy{Kind: StrategyRecentWindow, Query: query}
	}
	return Strategy{Kind: StrategyEmpty}
}
