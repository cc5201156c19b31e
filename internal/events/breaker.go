package events

import (
	"context"
	"time"

	"github.com/fjod/go_storefront/internal/logger"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerPublisher stops calling a failing broker for a while instead of
// making every checkout wait on its timeout.
type BreakerPublisher struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerPublisher(next Publisher, log *logger.Logger) *BreakerPublisher {
	settings := gobreaker.Settings{
		Name:        "order-events",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &BreakerPublisher{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (b *BreakerPublisher) PublishOrderPlaced(ctx context.Context, e OrderPlaced) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.PublishOrderPlaced(ctx, e)
	})
	return err
}

func (b *BreakerPublisher) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerPublisher) Close() error {
	return b.next.Close()
}
