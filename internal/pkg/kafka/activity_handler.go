package kafka

import (
	"Potluck/internal/pkg/consts"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// DirtyMarker 记录待重算热度的食谱
type DirtyMarker interface {
	Mark(ctx context.Context, key string, members ...string) error
}

// ActivityHandler 消费活动事件，把受影响的食谱加入热度脏集合
type ActivityHandler struct {
	dirty DirtyMarker
}

func NewActivityHandler(dirty DirtyMarker) *ActivityHandler {
	return &ActivityHandler{dirty: dirty}
}

func (h *ActivityHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer setup")
	return nil
}

func (h *ActivityHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer cleanup")
	return nil
}

func (h *ActivityHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("activity consume claim", "topic", claim.Topic(), "partition", claim.Partition())
	if err := pullMessageBatch(session, claim, h.markBatch); err != nil {
		log.Error("activity process batch error", "err", err)
		return err
	}
	return nil
}

// markBatch 收集批内受影响的食谱，去重后一次写入脏集合
func (h *ActivityHandler) markBatch(ctx context.Context, batch []*sarama.ConsumerMessage) error {
	seen := make(map[string]struct{}, len(batch))
	ids := make([]string, 0, len(batch))
	for _, msg := range batch {
		id := affectedRecipe(msg)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	return h.dirty.Mark(ctx, consts.RecipeDirtyKey, ids...)
}

func affectedRecipe(msg *sarama.ConsumerMessage) string {
	event, err := decodeActivity(msg)
	if err != nil {
		// 坏消息直接跳过，避免阻塞整个分区
		log.Warn("skip malformed activity", "err", err)
		return ""
	}
	switch event.Type {
	case consts.ActivityRecipeRated, consts.ActivityCommentAdded:
		return event.RecipeID
	default:
		return ""
	}
}
