package kafka

import (
	"Inkwell/internal/api/config"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// Publisher 领域事件发布器，发布失败只记录日志，不影响主流程
type Publisher interface {
	Publish(ctx context.Context, event *Event)
	Close() error
}

type saramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher 未配置 broker 时返回空实现
func NewPublisher(cfg config.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		log.Info("kafka brokers not configured, domain events disabled")
		return NoopPublisher{}, nil
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}
	log.Info("kafka producer connected", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return NewPublisherWithProducer(producer, cfg.Topic), nil
}

// NewPublisherWithProducer 使用已有的 SyncProducer 构造发布器
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) Publisher {
	return &saramaPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (s *saramaPublisher) Publish(ctx context.Context, event *Event) {
	if event == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "marshal event error", "type", event.Type, "err", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.PostID, 10)),
		Value: sarama.ByteEncoder(payload),
	}
	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		log.WarnContext(ctx, "publish event failed", "type", event.Type, "postID", event.PostID, "err", err)
		return
	}
	log.DebugContext(ctx, "event published", "type", event.Type, "partition", partition, "offset", offset)
}

func (s *saramaPublisher) Close() error {
	return s.producer.Close()
}

// NoopPublisher 丢弃所有事件
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *Event) {}

func (NoopPublisher) Close() error { return nil }
