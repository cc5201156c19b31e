package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWriter struct {
	msgs []kafka.Message
	err  error
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error { return nil }

type countingPublisher struct {
	calls int
	err   error
}

func (c *countingPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error {
	c.calls++
	return c.err
}

func (c *countingPublisher) Close() error { return nil }

func testEvent() OrderPlaced {
	return OrderPlaced{
		OrderID:        "ord-1",
		UserID:         "1",
		Total:          decimal.RequireFromString("323.97"),
		ShippingMethod: "standard",
		Items:          []OrderPlacedItem{{ProductID: "2", Name: "Premium Yoga Mat", Quantity: 2, UnitPrice: decimal.RequireFromString("49.99")}},
		PlacedAt:       time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_WritesKeyedMessage(t *testing.T) {
	w := &mockWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.PublishOrderPlaced(context.Background(), testEvent()))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "1", string(w.msgs[0].Key))

	var got OrderPlaced
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "ord-1", got.OrderID)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("323.97")))
	assert.Len(t, got.Items, 1)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &mockWriter{err: errors.New("broker down")}}

	err := p.PublishOrderPlaced(context.Background(), testEvent())
	assert.ErrorContains(t, err, "broker down")
}

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &countingPublisher{err: errors.New("broker down")}
	b := NewBreakerPublisher(next, logger.Nop())
	ctx := context.Background()

	for range 3 {
		assert.Error(t, b.PublishOrderPlaced(ctx, testEvent()))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.PublishOrderPlaced(ctx, testEvent())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls)
}

func TestBreakerPublisher_PassesThrough(t *testing.T) {
	next := &countingPublisher{}
	b := NewBreakerPublisher(next, logger.Nop())

	require.NoError(t, b.PublishOrderPlaced(context.Background(), testEvent()))
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
