//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func TestKafkaPublisherIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("storefront-test"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	pub := NewKafkaPublisher(brokers, "order-events-test")
	t.Cleanup(func() { _ = pub.Close() })

	event := OrderEvent{
		Type:          TypeOrderCreated,
		OrderID:       "ORD-1700000000000",
		Status:        "pending",
		CustomerEmail: "ada@example.com",
		OccurredAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	// The first write may race topic auto-creation.
	require.Eventually(t, func() bool {
		return pub.Publish(ctx, event) == nil
	}, time.Minute, 2*time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     "order-events-test",
		Partition: 0,
	})
	t.Cleanup(func() { _ = reader.Close() })

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1700000000000", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeOrderCreated, string(msg.Headers[0].Value))

	var got OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event.OrderID, got.OrderID)
	assert.True(t, event.OccurredAt.Equal(got.OccurredAt))
}
