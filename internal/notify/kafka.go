package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"health_monitor/internal/logger"
	"health_monitor/internal/models"
	"health_monitor/internal/service"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the notification topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaWriteCloser interface {
	Close() error
}

var errNilWriter = errors.New("kafka sender requires a writer")

// KafkaSender publishes notification payloads to a Kafka topic for an SMS gateway
// to consume. Messages are keyed by phone number so one contact stays ordered.
type KafkaSender struct {
	writer kafkaMessageWriter
	closer kafkaWriteCloser
	topic  string
	log    *logger.Logger
}

var _ service.Sender = (*KafkaSender)(nil)

// NewKafkaSender builds a sender backed by a kafka.Writer.
func NewKafkaSender(cfg KafkaConfig, log *logger.Logger) (*KafkaSender, error) {
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, fmt.Errorf("kafka topic must not be empty")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: false,
	}
	return newKafkaSenderWithWriter(cfg.Topic, w, w, log)
}

func newKafkaSenderWithWriter(topic string, w kafkaMessageWriter, c kafkaWriteCloser, log *logger.Logger) (*KafkaSender, error) {
	if w == nil {
		return nil, errNilWriter
	}
	return &KafkaSender{writer: w, closer: c, topic: topic, log: log}, nil
}

func (s *KafkaSender) Send(ctx context.Context, n models.Notification) error {
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(n.Phone),
		Value: value,
		Time:  n.SentAt,
		Headers: []kafka.Header{
			{Key: "alert_id", Value: []byte(n.AlertID)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish notification to %s: %w", s.topic, err)
	}
	if s.log != nil {
		s.log.Debugw("notification_published", "topic", s.topic, "contact", n.ContactName)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (s *KafkaSender) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
