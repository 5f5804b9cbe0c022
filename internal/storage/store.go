package storage

import (
	"context"

	"family-backend/internal/models"
)

// Store is the persistence collaborator for the member snapshot. Both
// operations work on the whole collection: Save overwrites everything that was
// there before. The consistency engine loads a fresh snapshot before every
// mutation and writes the full result back, so incremental writes are never
// needed.
type Store interface {
	// Load returns all members. A store with no data yet returns an empty
	// slice, not an error.
	Load(ctx context.Context) ([]models.Member, error)

	// Save replaces the stored collection with the given members.
	Save(ctx context.Context, members []models.Member) error
}
