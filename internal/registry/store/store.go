// Package store provides caching backends for credit registry lookups.
package store

import (
	"context"
	"errors"

	"decisio/internal/registry/models"
)

// ErrNotFound is returned when a personal code has no cached profile.
var ErrNotFound = errors.New("segment profile not cached")

// CacheStore caches segment profiles between registry lookups.
// Implementations must be safe for concurrent use.
type CacheStore interface {
	Save(ctx context.Context, profile models.SegmentProfile) error
	Find(ctx context.Context, personalCode string) (models.SegmentProfile, error)

	// Purge removes every cached profile and reports how many were dropped.
	Purge(ctx context.Context) (int, error)
}
