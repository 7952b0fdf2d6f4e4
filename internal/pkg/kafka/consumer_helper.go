package kafka

import (
	"Potluck/internal/model"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	batchSize    = 64
	batchTimeout = 1 * time.Second

	retryInitial = 100 * time.Millisecond
	retryMax     = 5 * time.Second
)

// BatchFunc 处理一批消息，返回错误时整批重试
type BatchFunc func(ctx context.Context, batch []*sarama.ConsumerMessage) error

// pullMessageBatch 按数量或时间攒批，成功后只提交批内最后一条的 offset
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, fn BatchFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()

	flush := func() bool {
		if len(batch) == 0 {
			return true
		}
		if !processBatch(session, batch, fn) {
			return false
		}
		batch = batch[:0]
		return true
	}

	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				if !flush() {
					return nil
				}
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if !flush() {
				return nil
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 指数退避重试直到成功或会话结束，会话结束时不提交
func processBatch(session sarama.ConsumerGroupSession, batch []*sarama.ConsumerMessage, fn BatchFunc) bool {
	ctx := session.Context()
	wait := retryInitial
	for {
		err := fn(ctx, batch)
		if err == nil {
			break
		}
		last := batch[len(batch)-1]
		log.ErrorContext(ctx, "process batch error", "topic", last.Topic, "partition", last.Partition,
			"offset", last.Offset, "size", len(batch), "err", err)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
		wait = min(wait*2, retryMax)
	}

	session.MarkMessage(batch[len(batch)-1], "")
	return true
}

// decodeActivity 解析活动事件，格式错误的消息无法通过重试恢复
func decodeActivity(msg *sarama.ConsumerMessage) (*model.ActivityEvent, error) {
	var event model.ActivityEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return nil, errors.Wrapf(err, "decode activity at %s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	}
	if event.Type == "" {
		return nil, errors.Errorf("activity at %s/%d/%d has no type", msg.Topic, msg.Partition, msg.Offset)
	}
	return &event, nil
}
