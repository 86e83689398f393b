package storage

import "context"

// Storage is a minimal keyed store with offset pagination. The usage log's
// in-memory repository is backed by it; persistent deployments use the
// sqlite repository instead.
type Storage interface {
	Create(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string) (any, error)
	Update(ctx context.Context, key string, value any) error
	List(ctx context.Context, offset, limit uint64) ([]any, uint64, error)
	Delete(ctx context.Context, key string) error
}
