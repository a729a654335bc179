package usecase

import (
	"context"

	"github.com/fastygo/todowa/domain"
)

// NotificationSink receives engine events for presentation. Delivery is one-way.
type NotificationSink interface {
	Notify(ctx context.Context, event domain.Event)
}

// SnapshotMirror abstracts the outbox so use cases stay storage-agnostic.
type SnapshotMirror interface {
	MirrorSnapshot(ctx context.Context, snapshot domain.Snapshot) error
	ClearMirror(ctx context.Context) error
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) Notify(context.Context, domain.Event) {}
