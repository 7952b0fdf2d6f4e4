package repository

import (
	"Potluck/internal/pkg/docstore"
	"Potluck/internal/pkg/pagination"
	"context"
)

// docRepo 单集合的通用读写
type docRepo[T any] struct {
	store      docstore.Store
	codec      *pagination.Codec
	collection string
}

func newDocRepo[T any](store docstore.Store, collection string) docRepo[T] {
	return docRepo[T]{store: store, codec: pagination.NewCodec(store), collection: collection}
}

func (r docRepo[T]) get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.store.Get(ctx, r.collection, id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r docRepo[T]) getAll(ctx context.Context, ids []string) ([]*T, error) {
	var out []*T
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.store.GetAll(ctx, r.collection, ids, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r docRepo[T]) find(ctx context.Context, q docstore.Query) ([]*T, error) {
	q.Collection = r.collection
	var out []*T
	if err := r.store.Find(ctx, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// findAfter 从游标之后最多取 n 条，游标无法解析时从头开始
func (r docRepo[T]) findAfter(ctx context.Context, q docstore.Query, cursor string, n int) ([]*T, error) {
	q.Collection = r.collection
	after, err := r.codec.Decode(ctx, r.collection, cursor, q.OrderBy)
	if err != nil {
		return nil, err
	}
	q.After = after
	q.Limit = n
	return r.find(ctx, q)
}

func (r docRepo[T]) page(ctx context.Context, q docstore.Query, cursor string, limit int, id func(*T) string) (pagination.Page[*T], error) {
	q.Collection = r.collection
	return pagination.FindPage[*T](ctx, r.codec, q, cursor, limit, id)
}

func (r docRepo[T]) set(ctx context.Context, id string, doc *T) error {
	return r.store.Commit(ctx, []docstore.Op{{Kind: docstore.OpSet, Collection: r.collection, ID: id, Doc: doc}})
}

func (r docRepo[T]) update(ctx context.Context, id string, fields map[string]any) error {
	return r.store.Commit(ctx, []docstore.Op{{Kind: docstore.OpUpdate, Collection: r.collection, ID: id, Fields: fields}})
}

func (r docRepo[T]) delete(ctx context.Context, id string) error {
	return r.store.Commit(ctx, []docstore.Op{{Kind: docstore.OpDelete, Collection: r.collection, ID: id}})
}
