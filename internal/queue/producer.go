package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Producer pushes background tasks onto the cleanup stream consumed by the
// worker binary.
type Producer struct {
	client *redis.Client
	stream string
}

func NewProducer(client *redis.Client, stream string) *Producer {
	return &Producer{client: client, stream: stream}
}

func (p *Producer) EnqueueObjectCleanup(ctx context.Context, bucket, objectKey string) error {
	return p.enqueue(ctx, map[string]any{
		"type":   "cleanup_object",
		"bucket": bucket,
		"object": objectKey,
	})
}

func (p *Producer) EnqueueSweep(ctx context.Context) error {
	return p.enqueue(ctx, map[string]any{
		"type": "sweep",
	})
}

func (p *Producer) enqueue(ctx context.Context, payload map[string]any) error {
	if p.client == nil {
		return nil
	}
	if _, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: payload,
	}).Result(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
