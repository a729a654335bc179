package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/todowa/domain"
)

func TestFanoutPreservesOrder(t *testing.T) {
	first, second := &Recorder{}, &Recorder{}
	sink := Fanout{first, nil, second}
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	sink.Notify(context.Background(), domain.TaskCompleted("a", at))
	sink.Notify(context.Background(), domain.TaskDeleted("a", at))

	want := []domain.EventKind{domain.EventTaskCompleted, domain.EventTaskDeleted}
	assert.Equal(t, want, first.Kinds())
	assert.Equal(t, want, second.Kinds())
}

func TestRecorderReset(t *testing.T) {
	rec := &Recorder{}
	rec.Notify(context.Background(), domain.TimerCompleted(time.Now()))
	assert.Len(t, rec.Events(), 1)
	rec.Reset()
	assert.Empty(t, rec.Events())
}

func TestLogSinkFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	tier := domain.LevelTier{Level: 1, Threshold: 50, Title: "Challenger"}
	sink.Notify(context.Background(), domain.LevelUp(tier, time.Now()))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "level_up", fields["kind"])
		assert.Equal(t, "Challenger", fields["title"])
		assert.EqualValues(t, 1, fields["level"])
	}
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "todowa:default:events", Channel("default"))
}
