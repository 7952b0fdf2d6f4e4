package docstore

import (
	"context"
	"errors"
)

// MaxMembershipValues 单次成员过滤允许的最大取值个数
const MaxMembershipValues = 30

var (
	ErrNotFound           = errors.New("docstore: document not found")
	ErrConflict           = errors.New("docstore: precondition failed")
	ErrMembershipTooLarge = errors.New("docstore: membership filter exceeds 30 values")
)

// IDField 文档主键字段名
const IDField = "_id"

type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter 等值过滤，Value 为 nil 时匹配 null 或缺失字段
type Filter struct {
	Field string
	Value any
	// OrMissing 字段缺失或为 null 时也视为匹配
	OrMissing bool
}

// Membership 成员过滤：数组字段与 Values 有交集，或标量字段属于 Values
type Membership struct {
	Field  string
	Values []any
}

type Order struct {
	Field string
	Dir   Direction
}

// Query 单集合查询，After 为与 OrderBy 一一对应的排他性续读位置
type Query struct {
	Collection string
	Where      []Filter
	In         *Membership
	OrderBy    []Order
	Limit      int
	After      []any
}

type OpKind int

const (
	OpSet OpKind = iota
	OpUpdate
	OpDelete
)

// Op 批量写中的一条操作
// OpSet 整体覆盖写入 Doc；OpUpdate 对已存在文档执行 Fields 赋值与 Inc 自增，
// Precondition 不满足时整批以 ErrConflict 失败
type Op struct {
	Kind         OpKind
	Collection   string
	ID           string
	Doc          any
	Fields       map[string]any
	Inc          map[string]any
	Precondition *Filter
}

// Store 文档存储适配器
type Store interface {
	// Get 点查，不存在时返回 ErrNotFound
	Get(ctx context.Context, collection, id string, out any) error
	// GetAll 批量点查，out 为切片指针，缺失的 id 直接跳过，结果顺序不保证
	GetAll(ctx context.Context, collection string, ids []string, out any) error
	// Find 条件查询，out 为切片指针
	Find(ctx context.Context, q Query, out any) error
	// Commit 原子批量写，要么全部可见要么全部不可见
	Commit(ctx context.Context, ops []Op) error
	NewID() string
}

// InValues 将字符串切片转换为成员过滤取值
func InValues(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func validateQuery(q Query) error {
	if q.Collection == "" {
		return errors.New("docstore: collection is required")
	}
	if q.In != nil && len(q.In.Values) > MaxMembershipValues {
		return ErrMembershipTooLarge
	}
	if len(q.After) > 0 && len(q.After) != len(q.OrderBy) {
		return errors.New("docstore: resume tuple does not match sort order")
	}
	return nil
}
