// Package cache keeps read-mostly listings (revision pages, dashboard
// summaries) per owner. Entries live under a namespace with a version
// counter; invalidating a namespace bumps the counter so every older entry
// becomes unreachable and expires on its own TTL.
package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Cache interface {
	// Version returns the current generation of a namespace.
	Version(ctx context.Context, namespace string) (int64, error)
	// Get decodes the entry stored for key under the given generation.
	Get(ctx context.Context, namespace string, version int64, key string, dest any) (bool, error)
	Set(ctx context.Context, namespace string, version int64, key string, value any) error
	// Invalidate moves each namespace to a new generation.
	Invalidate(ctx context.Context, namespaces ...string) error
}

func RevisionsNamespace(owner uuid.UUID) string {
	return fmt.Sprintf("revisions:%s", owner)
}

func DashboardNamespace(owner uuid.UUID) string {
	return fmt.Sprintf("dashboard:%s", owner)
}

// Fetch returns the cached value for key or calls load and stores its result.
// The generation is read before load runs, so a value loaded concurrently
// with an invalidation is written to the old generation and never served.
// Cache failures degrade to calling load.
func Fetch[T any](ctx context.Context, c Cache, namespace, key string, load func() (T, error)) (T, error) {
	version, err := c.Version(ctx, namespace)
	if err != nil {
		return load()
	}

	var cached T
	if hit, err := c.Get(ctx, namespace, version, key, &cached); err == nil && hit {
		return cached, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	_ = c.Set(ctx, namespace, version, key, value)
	return value, nil
}

// Noop never stores anything. Used when no Redis address is configured.
type Noop struct{}

func (Noop) Version(context.Context, string) (int64, error) { return 0, nil }

func (Noop) Get(context.Context, string, int64, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, int64, string, any) error { return nil }

func (Noop) Invalidate(context.Context, ...string) error { return nil }
