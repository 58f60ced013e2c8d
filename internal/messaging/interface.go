package messaging

import (
	"context"

	"go.uber.org/zap"
)

// PublisherInterface defines the contract for event publishing
type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, eventData interface{}) error
	Close() error
}

var _ PublisherInterface = (*Publisher)(nil)

// PublishOrLog publishes event and logs, rather than returns, any failure.
// Events are sent after the write they describe has committed.
func PublishOrLog(ctx context.Context, pub PublisherInterface, logger *zap.Logger, routingKey string, event interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, routingKey, event); err != nil {
		logger.Warn("failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
