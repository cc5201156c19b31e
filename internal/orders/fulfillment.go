package orders

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/events"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const fulfillmentGroupID = "storefront-fulfillment"

// messageReader is the part of *kafka.Reader the consumer needs.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Fulfillment consumes order.placed events and moves freshly placed orders
// from pending to processing.
type Fulfillment struct {
	repo   Repository
	reader messageReader
	log    *logger.Logger
}

func NewFulfillment(repo Repository, log *logger.Logger, brokers ...string) *Fulfillment {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    events.TopicOrderPlaced,
		GroupID:  fulfillmentGroupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Fulfillment{repo: repo, reader: reader, log: log}
}

// Run blocks until ctx is cancelled.
func (f *Fulfillment) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		f.processMessage(ctx)
	}
}

func (f *Fulfillment) Close() error {
	return f.reader.Close()
}

func (f *Fulfillment) processMessage(ctx context.Context) {
	m, err := f.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		f.log.Error("read order event failed", zap.Error(err))
		return
	}

	var event events.OrderPlaced
	if err := json.Unmarshal(m.Value, &event); err != nil {
		f.log.Error("malformed order event", zap.Int64("offset", m.Offset), zap.Error(err))
		return
	}

	if err := f.advance(ctx, event.OrderID); err != nil {
		f.log.Error("advance order failed", zap.String("order_id", event.OrderID), zap.Error(err))
	}
}

// advance only touches pending orders so redelivered events are harmless.
func (f *Fulfillment) advance(ctx context.Context, orderID string) error {
	o, err := f.repo.GetOrderByID(ctx, orderID)
	if errors.Is(err, ErrOrderNotFound) {
		f.log.Warn("order event for unknown order", zap.String("order_id", orderID))
		return nil
	}
	if err != nil {
		return err
	}
	if o.Status != domain.OrderStatusPending {
		return nil
	}

	if err := f.repo.UpdateStatus(ctx, orderID, domain.OrderStatusProcessing); err != nil {
		return err
	}
	f.log.Info("order processing", zap.String("order_id", orderID))
	return nil
}
