package services

import (
	"context"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/internal/infrastructure/buffer"
	"github.com/fastygo/todowa/usecase"
)

// BufferBridge adapts the processor to the engine's mirror port.
type BufferBridge struct {
	processor *BufferProcessor
	profileID string
}

func NewBufferBridge(processor *BufferProcessor, profileID string) *BufferBridge {
	return &BufferBridge{processor: processor, profileID: profileID}
}

func (b *BufferBridge) MirrorSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	if b.processor == nil {
		return domain.ErrInvalidPayload
	}
	item, err := buffer.SnapshotItem(b.profileID, snapshot)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "encode snapshot for mirror", err)
	}
	item.Priority = 2
	return b.processor.BufferOperation(ctx, item)
}

// ClearMirror forwards a reset. A queued replace for the profile is superseded by it.
func (b *BufferBridge) ClearMirror(ctx context.Context) error {
	if b.processor == nil {
		return domain.ErrInvalidPayload
	}
	item := buffer.ClearItem(b.profileID)
	item.Priority = 2
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.SnapshotMirror = (*BufferBridge)(nil)
