// Package store provides durable persistence for the widget session.
package store

import (
	"context"

	"storefront-chatkit/internal/domain"
)

// Repository defines the interface for persisting the durable subset
// of widget state ({messages, sessionId}).
type Repository interface {
	// LoadSnapshot retrieves the persisted snapshot. Returns nil with
	// no error when nothing has been persisted yet or the stored
	// payload is unreadable.
	LoadSnapshot(ctx context.Context) (*domain.SessionSnapshot, error)

	// SaveSnapshot writes the snapshot, replacing any previous one.
	// Last write wins; there are no concurrent writers.
	SaveSnapshot(ctx context.Context, snap *domain.SessionSnapshot) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying storage handle.
	Close() error
}
