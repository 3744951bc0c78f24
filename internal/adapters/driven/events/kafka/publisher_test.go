package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/newsearch/internal/core/ports/driven"
)

func TestNewPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewPublisher(Config{})
	assert.Error(t, err)
}

func TestNewPublisher_DefaultTopic(t *testing.T) {
	p, err := NewPublisher(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, DefaultTopic, p.writer.Topic)
}

func TestPublish_AfterClose(t *testing.T) {
	p, err := NewPublisher(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	err = p.PublishArticleIndexed(context.Background(), driven.ArticleIndexedEvent{ArticleID: 1})
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	p, err := NewPublisher(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}
