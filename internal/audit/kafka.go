package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink publishes audit events to a Kafka topic keyed by case ID so
// per-case ordering is preserved. Reads are not supported; pair it with an
// InMemoryStore via Tee when the API needs to serve event lists.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects to the given brokers.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.CaseID.String()),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// ListByCase is unsupported on the broker sink.
func (s *KafkaSink) ListByCase(context.Context, uuid.UUID) ([]Event, error) {
	return nil, fmt.Errorf("kafka sink does not support reads")
}

func (s *KafkaSink) Close() {
	s.client.Close()
}

// Tee appends every event to all sinks, failing on the first error. Used to
// keep an in-memory read model next to the broker stream.
type Tee []Store

func (t Tee) Append(ctx context.Context, event Event) error {
	for _, s := range t {
		if err := s.Append(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// ListByCase reads from the first sink that supports reads.
func (t Tee) ListByCase(ctx context.Context, caseID uuid.UUID) ([]Event, error) {
	var lastErr error
	for _, s := range t {
		events, err := s.ListByCase(ctx, caseID)
		if err == nil {
			return events, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
