package pubsub

import "context"

// Publisher sends audit events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
