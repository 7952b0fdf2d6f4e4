package logger

import (
	"Potluck/internal/pkg/metrics"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const maxLoggedCommand = 1000

// NewMongoMonitor 记录文档存储的命令耗时，超过 slowThreshold 的命令以 Warn 输出
func NewMongoMonitor(slowThreshold time.Duration) *event.CommandMonitor {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			if !log.Default().Enabled(ctx, log.LevelDebug) {
				return
			}
			cmd := evt.Command.String()
			if len(cmd) > maxLoggedCommand {
				cmd = cmd[:maxLoggedCommand] + "...[truncated]"
			}
			log.DebugContext(ctx, "Mongo command started",
				log.String("command", evt.CommandName),
				log.String("database", evt.DatabaseName),
				log.Int64("request_id", evt.RequestID),
				log.String("cmd_detail", cmd),
			)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			metrics.MongoCommandDuration.WithLabelValues(evt.CommandName, "success").Observe(evt.Duration.Seconds())
			if evt.Duration > slowThreshold {
				log.WarnContext(ctx, "Mongo command slow",
					log.String("command", evt.CommandName),
					log.Duration("latency", evt.Duration),
					log.Int64("request_id", evt.RequestID),
				)
			}
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			metrics.MongoCommandDuration.WithLabelValues(evt.CommandName, "error").Observe(evt.Duration.Seconds())
			log.ErrorContext(ctx, "Mongo command failed",
				log.String("command", evt.CommandName),
				log.Duration("latency", evt.Duration),
				log.Int64("request_id", evt.RequestID),
				log.Any("err", evt.Failure),
			)
		},
	}
}
