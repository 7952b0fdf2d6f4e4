package pagination

import (
	"Potluck/internal/pkg/docstore"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// ClampLimit 非正数取默认值，超过上限截断，从不报错
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Page 一页结果，NextCursor 为 nil 表示没有下一页
type Page[T any] struct {
	Items      []T
	NextCursor *string
	HasMore    bool
}

// Codec 游标即上一页最后一条的 ID，解码时点查该文档取回排序键
type Codec struct {
	store docstore.Store
}

func NewCodec(store docstore.Store) *Codec {
	return &Codec{store: store}
}

func (c *Codec) Encode(lastID string) string {
	return lastID
}

// Decode 返回与 order 对应的排他续读位置；游标为空或已不存在时返回 nil，即从头开始
func (c *Codec) Decode(ctx context.Context, collection, cursor string, order []docstore.Order) ([]any, error) {
	if cursor == "" {
		return nil, nil
	}
	var doc bson.M
	err := c.store.Get(ctx, collection, cursor, &doc)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve cursor: %w", err)
	}
	tuple := make([]any, len(order))
	for i, o := range order {
		tuple[i] = doc[o.Field]
	}
	return tuple, nil
}

// Split 对按 limit+1 取回的结果切页
func Split[T any](items []T, limit int, id func(T) string) Page[T] {
	if len(items) <= limit {
		return Page[T]{Items: items}
	}
	items = items[:limit]
	next := id(items[len(items)-1])
	return Page[T]{Items: items, NextCursor: &next, HasMore: true}
}

// FindPage 解码游标、多取一条查询并切页
// q.OrderBy 应以 _id 结尾，保证排序键相同的文档之间不重不漏
func FindPage[T any](ctx context.Context, codec *Codec, q docstore.Query, cursor string, limit int, id func(T) string) (Page[T], error) {
	limit = ClampLimit(limit)
	after, err := codec.Decode(ctx, q.Collection, cursor, q.OrderBy)
	if err != nil {
		return Page[T]{}, err
	}
	q.After = after
	q.Limit = limit + 1

	var items []T
	if err = codec.store.Find(ctx, q, &items); err != nil {
		return Page[T]{}, err
	}
	return Split(items, limit, id), nil
}
