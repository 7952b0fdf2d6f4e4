package metrics

import (
	"Potluck/internal/pkg/docstore"
	"context"
	"errors"
	"time"
)

// InstrumentedStore 为 docstore.Store 的每次调用记录耗时与错误
type InstrumentedStore struct {
	next docstore.Store
}

func InstrumentStore(next docstore.Store) *InstrumentedStore {
	return &InstrumentedStore{next: next}
}

func (s *InstrumentedStore) Get(ctx context.Context, collection, id string, out any) error {
	start := time.Now()
	err := s.next.Get(ctx, collection, id, out)
	RecordStoreOperation("get", collection, time.Since(start), ignoreNotFound(err))
	return err
}

func (s *InstrumentedStore) GetAll(ctx context.Context, collection string, ids []string, out any) error {
	start := time.Now()
	err := s.next.GetAll(ctx, collection, ids, out)
	RecordStoreOperation("get_all", collection, time.Since(start), err)
	return err
}

func (s *InstrumentedStore) Find(ctx context.Context, q docstore.Query, out any) error {
	start := time.Now()
	err := s.next.Find(ctx, q, out)
	RecordStoreOperation("find", q.Collection, time.Since(start), err)
	return err
}

func (s *InstrumentedStore) Commit(ctx context.Context, ops []docstore.Op) error {
	start := time.Now()
	err := s.next.Commit(ctx, ops)
	collection := "batch"
	if len(ops) == 1 {
		collection = ops[0].Collection
	}
	RecordStoreOperation("commit", collection, time.Since(start), err)
	return err
}

func (s *InstrumentedStore) NewID() string {
	return s.next.NewID()
}

func ignoreNotFound(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	return err
}
