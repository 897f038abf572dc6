package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Notifier tells downstream consumers (calendar, dashboards, invoice lists)
// that a coach's billing data changed and cached views must be refreshed.
// Delivery failures are non-fatal to the triggering operation.
type Notifier interface {
	BillingChanged(ctx context.Context, coachID uuid.UUID) error
}

type redisNotifier struct {
	client  *redis.Client
	pattern string // fmt pattern with one %s for the coach id
}

// NewRedisNotifier publishes change events on a per-coach pub/sub channel.
func NewRedisNotifier(client *redis.Client, channelPattern string) Notifier {
	return &redisNotifier{client: client, pattern: channelPattern}
}

func (n *redisNotifier) BillingChanged(ctx context.Context, coachID uuid.UUID) error {
	channel := fmt.Sprintf(n.pattern, coachID)
	return n.client.Publish(ctx, channel, "refresh").Err()
}

type noopNotifier struct{}

// NewNoopNotifier returns a notifier that does nothing, for tests and for
// running without redis.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) BillingChanged(context.Context, uuid.UUID) error {
	return nil
}
