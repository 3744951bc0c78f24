// Package kafka provides an event publisher that writes ingestion events to
// a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

// Ensure Publisher implements the interface.
var _ driven.EventPublisher = (*Publisher)(nil)

// DefaultTopic is the topic for article indexed events.
const DefaultTopic = "articles.indexed"

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of broker addresses (required).
	Brokers []string

	// Topic is the destination topic (default: articles.indexed).
	Topic string
}

// Publisher writes ArticleIndexedEvent messages keyed by article ID, so
// events for the same article land on the same partition.
type Publisher struct {
	writer *kafka.Writer
	mu     sync.Mutex
	closed bool
}

// NewPublisher creates a new Kafka event publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Compression:  kafka.Gzip,
		RequiredAcks: kafka.RequireAll,
	}
	return &Publisher{writer: writer}, nil
}

// PublishArticleIndexed emits one event per fully indexed article.
func (p *Publisher) PublishArticleIndexed(ctx context.Context, event driven.ArticleIndexedEvent) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("kafka: publisher closed")
	}
	p.mu.Unlock()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: encoding event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ArticleID, 10)),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("kafka: writing message: %w", err)
	}
	return nil
}

// Close closes the underlying writer. Safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
