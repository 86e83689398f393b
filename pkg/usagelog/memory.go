package usagelog

import (
	"context"
	"fmt"
	"sync/atomic"

	pkgerrors "github.com/fedstore/fedroute/pkg/errors"
	"github.com/fedstore/fedroute/pkg/storage"
)

type memoryRepository struct {
	Registry

	enabled bool
	store   storage.Storage
	seq     atomic.Uint64
}

// NewInMemoryRepository returns a Repository that keeps rows in process
// memory. Rows are keyed by a zero-padded sequence so List pages them in
// insertion order.
func NewInMemoryRepository(registry Registry, enabled bool) Repository {
	return &memoryRepository{
		Registry: registry,
		enabled:  enabled,
		store:    storage.NewInMemoryStorage(),
	}
}

func (r *memoryRepository) Enabled() bool {
	return r.enabled
}

func (r *memoryRepository) Save(ctx context.Context, entry Entry) error {
	if !r.enabled {
		return nil
	}

	key := fmt.Sprintf("%020d", r.seq.Add(1))

	return r.store.Create(ctx, key, entry)
}

func (r *memoryRepository) List(ctx context.Context, offset, limit uint64) (Page, error) {
	values, total, err := r.store.List(ctx, offset, limit)
	if err != nil {
		return Page{}, err
	}

	entries := make([]Entry, len(values))
	for i := range values {
		e, ok := values[i].(Entry)
		if !ok {
			return Page{}, pkgerrors.ErrInvalidData
		}
		entries[i] = e
	}

	return Page{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		Entries: entries,
	}, nil
}
