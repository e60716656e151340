package rabbitmq

import "context"

// PublisherInterface emits a domain event under a routing pattern such as "order.status_changed".
type PublisherInterface interface {
	Publish(ctx context.Context, pattern string, data any) error
}

var _ PublisherInterface = (*Publisher)(nil)
