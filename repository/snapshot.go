package repository

import (
	"context"

	"github.com/fastygo/todowa/domain"
)

// SnapshotRepository persists the whole state of one profile.
// Load returns domain.ErrSnapshotNotFound when nothing was saved yet; outages are
// reported with domain.ErrCodeUnavailable.
type SnapshotRepository interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Clear(ctx context.Context) error
}
