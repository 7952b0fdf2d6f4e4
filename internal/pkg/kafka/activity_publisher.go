package kafka

import (
	"Potluck/internal/api/config"
	"Potluck/internal/model"
	"Potluck/internal/pkg/metrics"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
)

// ActivityPublisher 将活动事件写入 Kafka，连续失败后熔断，熔断期间直接丢弃
type ActivityPublisher struct {
	producer sarama.SyncProducer
	topic    string
	breaker  *gobreaker.CircuitBreaker[interface{}]
}

// NewActivityPublisher 连接 broker 并创建同步生产者
func NewActivityPublisher(kafkaCfg config.KafkaConfig, topic string) (*ActivityPublisher, error) {
	producer, err := sarama.NewSyncProducer(kafkaCfg.Brokers, newSaramaConfig(kafkaCfg))
	if err != nil {
		return nil, err
	}
	return newActivityPublisher(producer, topic, kafkaCfg.Producer), nil
}

func newActivityPublisher(producer sarama.SyncProducer, topic string, producerCfg config.ProducerConfig) *ActivityPublisher {
	failures := producerCfg.BreakerFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	timeout := time.Duration(producerCfg.BreakerTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}

	breaker := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        "activity-producer",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Kafka producer breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &ActivityPublisher{producer: producer, topic: topic, breaker: breaker}
}

// Publish 尽力投递，失败只记录日志与指标
func (p *ActivityPublisher) Publish(ctx context.Context, event model.ActivityEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "Encode activity event failed", "type", event.Type, "err", err)
		metrics.ActivityEventsPublished.WithLabelValues(event.Type, "failed").Inc()
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(partitionKey(event)),
		Value: sarama.ByteEncoder(payload),
	}
	_, err = p.breaker.Execute(func() (interface{}, error) {
		_, _, sendErr := p.producer.SendMessage(msg)
		return nil, sendErr
	})

	switch {
	case err == nil:
		metrics.ActivityEventsPublished.WithLabelValues(event.Type, "sent").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ActivityEventsPublished.WithLabelValues(event.Type, "dropped").Inc()
		log.DebugContext(ctx, "Activity event dropped while breaker is open", "type", event.Type)
	default:
		metrics.ActivityEventsPublished.WithLabelValues(event.Type, "failed").Inc()
		log.WarnContext(ctx, "Publish activity event failed", "type", event.Type, "err", err)
	}
}

// State 熔断器当前状态
func (p *ActivityPublisher) State() string {
	return p.breaker.State().String()
}

func (p *ActivityPublisher) Close() error {
	return p.producer.Close()
}

// partitionKey 同一食谱的事件进入同一分区
func partitionKey(event model.ActivityEvent) string {
	if event.RecipeID != "" {
		return event.RecipeID
	}
	if event.TargetID != "" {
		return event.TargetID
	}
	return event.UserID
}
