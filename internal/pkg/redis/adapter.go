package redis

import (
	"context"
	"time"
)

// Adapter 以方法形式暴露包级工具函数，供业务层按接口注入
type Adapter struct{}

func NewAdapter() *Adapter {
	return &Adapter{}
}

func (a *Adapter) TryLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return TryLock(ctx, key, value, ttl, 0)
}

func (a *Adapter) UnLock(ctx context.Context, key, value string) {
	UnLock(ctx, key, value)
}

func (a *Adapter) Get(ctx context.Context, key string) (string, error) {
	return GetValue(ctx, key)
}

func (a *Adapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return SetWithExpiration(ctx, key, value, ttl)
}

func (a *Adapter) Delete(ctx context.Context, keys ...string) error {
	return DeleteKey(ctx, keys...)
}

func (a *Adapter) Mark(ctx context.Context, key string, members ...string) error {
	return AddToSet(ctx, key, members...)
}

// Drain 将脏集合改名为 processing 后读出，done 在处理完成后删除 processing 键
func (a *Adapter) Drain(ctx context.Context, key string) ([]string, func(context.Context) error, error) {
	processingKey := key + ":processing"
	if err := Rename(ctx, key, processingKey); err != nil {
		if IsNoSuchKey(err) {
			return nil, func(context.Context) error { return nil }, nil
		}
		return nil, nil, err
	}
	members, err := GetSet(ctx, processingKey)
	if err != nil {
		return nil, nil, err
	}
	return members, func(ctx context.Context) error {
		return DeleteKey(ctx, processingKey)
	}, nil
}
