package logger

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisHook 记录缓存、锁与脏集合命令的异常和慢调用
type RedisHook struct {
	slowThreshold time.Duration
}

func NewRedisLogger(slowThreshold time.Duration) *RedisHook {
	if slowThreshold <= 0 {
		slowThreshold = 100 * time.Millisecond
	}
	return &RedisHook{slowThreshold: slowThreshold}
}

func (h *RedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis dial failed",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (h *RedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		if err != nil && isExpectedRedisError(cmd.Name(), err) {
			return err
		}
		if err == nil && elapsed <= h.slowThreshold {
			return nil
		}

		fields := []any{
			log.String("command", cmd.Name()),
			log.String("args", redactArgs(cmd)),
			log.Duration("latency", elapsed),
		}
		if err != nil {
			log.ErrorContext(ctx, "Redis command failed", append(fields, log.Any("err", err))...)
		} else {
			log.WarnContext(ctx, "Redis command slow", fields...)
		}
		return err
	}
}

func (h *RedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		elapsed := time.Since(start)

		switch {
		case err != nil && !errors.Is(err, redis.Nil):
			log.ErrorContext(ctx, "Redis pipeline failed",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", elapsed),
				log.Any("err", err))
		case elapsed > h.slowThreshold:
			log.WarnContext(ctx, "Redis pipeline slow",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", elapsed))
		}
		return err
	}
}

// isExpectedRedisError 缓存未命中、脏集合不存在等属于正常分支
func isExpectedRedisError(name string, err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	msg := err.Error()
	if strings.Contains(msg, "no such key") {
		return true
	}
	return name == "client" && strings.Contains(msg, "setinfo")
}

func redactArgs(cmd redis.Cmder) string {
	switch cmd.Name() {
	case "auth", "hello":
		return "[PROTECTED]"
	}
	return fmt.Sprint(cmd.Args()...)
}
