package events

import (
	"context"
	"encoding/json"
	"fmt"
	"reroute-service/internal/simulation"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaPublisher publishes simulation events as JSON messages keyed by agent
// id, so one agent's events stay ordered within a partition. Writes are
// asynchronous; delivery errors are logged.
type KafkaPublisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &KafkaPublisher{logger: logger}
	p.writer = &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion:             p.completion,
	}
	return p
}

func (p *KafkaPublisher) Emit(e simulation.Event) {
	msg, err := encodeKafkaMessage(e)
	if err != nil {
		p.logger.Error("failed to encode simulation event", zap.Error(err))
		return
	}
	// Async writers return immediately; errors arrive through completion.
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.logger.Error("failed to enqueue simulation event",
			zap.String("agent_id", e.AgentID),
			zap.Error(err),
		)
	}
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) completion(messages []kafkago.Message, err error) {
	if err == nil {
		return
	}
	p.logger.Error("failed to publish simulation events",
		zap.String("topic", p.writer.Topic),
		zap.Int("messages", len(messages)),
		zap.Error(err),
	)
}

func encodeKafkaMessage(e simulation.Event) (kafkago.Message, error) {
	m := NewMessage(e)
	value, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("encode event %s: %w", m.Kind, err)
	}
	return kafkago.Message{
		Key:   []byte(m.AgentID),
		Value: value,
		Time:  m.At,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(m.Kind)},
		},
	}, nil
}
