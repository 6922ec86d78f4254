package ports

import "context"

type OrderPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}
