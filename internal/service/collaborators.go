package service

import (
	"Potluck/internal/model"
	"context"
	"time"
)

// Locker 短期互斥锁，value 用于安全释放
type Locker interface {
	TryLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	UnLock(ctx context.Context, key, value string)
}

// Cache 字符串缓存，未命中返回空串
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// DirtySet 待重算热度的食谱集合
type DirtySet interface {
	Mark(ctx context.Context, key string, members ...string) error
	Drain(ctx context.Context, key string) ([]string, func(context.Context) error, error)
}

// ActivityPublisher 尽力投递，失败只记录日志不影响主流程
type ActivityPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent)
}

// MediaResolver 将对象键转换为可公开访问的 URL
type MediaResolver interface {
	PublicURL(ref string) string
}

type noopActivityPublisher struct{}

func (noopActivityPublisher) Publish(context.Context, model.ActivityEvent) {}

// NoopActivityPublisher Kafka 未启用时使用
func NoopActivityPublisher() ActivityPublisher {
	return noopActivityPublisher{}
}

type passthroughResolver struct{}

func (passthroughResolver) PublicURL(ref string) string { return ref }

// PassthroughResolver 未配置对象存储时原样返回
func PassthroughResolver() MediaResolver {
	return passthroughResolver{}
}
