package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/todowa/domain"
	"github.com/fastygo/todowa/usecase"
)

// LogSink writes every event to the structured log.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, event domain.Event) {
	fields := []zap.Field{zap.String("kind", string(event.Kind))}
	if event.TaskID != "" {
		fields = append(fields, zap.String("task_id", event.TaskID))
	}
	if event.Level != nil {
		fields = append(fields, zap.Int("level", event.Level.Level), zap.String("title", event.Level.Title))
	}
	if event.Bonus != "" {
		fields = append(fields, zap.String("bonus", string(event.Bonus)), zap.Int("amount", event.Amount))
	}
	s.logger.Info("event", fields...)
}

// Fanout delivers each event to every sink in order.
type Fanout []usecase.NotificationSink

func (f Fanout) Notify(ctx context.Context, event domain.Event) {
	for _, sink := range f {
		if sink != nil {
			sink.Notify(ctx, event)
		}
	}
}

// Recorder keeps events in memory, mostly for tests and the CLI.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *Recorder) Notify(_ context.Context, event domain.Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// Kinds lists the recorded event kinds in order.
func (r *Recorder) Kinds() []domain.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]domain.EventKind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

var (
	_ usecase.NotificationSink = (*LogSink)(nil)
	_ usecase.NotificationSink = Fanout(nil)
	_ usecase.NotificationSink = (*Recorder)(nil)
)
