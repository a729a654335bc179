package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Tickable advances by one second per call.
type Tickable interface {
	Tick(ctx context.Context) bool
}

// QuoteSource rotates motivational quotes.
type QuoteSource interface {
	Next() string
}

// Ticker drives the focus timer every second and rotates quotes on their own interval.
type Ticker struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewTicker(timer Tickable, quotes QuoteSource, quoteInterval time.Duration, logger *zap.Logger) (*Ticker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if quoteInterval < time.Second {
		quoteInterval = 10 * time.Second
	}
	t := &Ticker{
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
	}

	if timer != nil {
		if _, err := t.cron.AddFunc("@every 1s", func() {
			timer.Tick(context.Background())
		}); err != nil {
			return nil, fmt.Errorf("schedule timer tick: %w", err)
		}
	}
	if quotes != nil {
		if _, err := t.cron.AddFunc(fmt.Sprintf("@every %s", quoteInterval), func() {
			logger.Debug("quote rotated", zap.String("quote", quotes.Next()))
		}); err != nil {
			return nil, fmt.Errorf("schedule quote rotation: %w", err)
		}
	}
	return t, nil
}

func (t *Ticker) Start() {
	t.cron.Start()
	t.logger.Info("ticker started")
}

func (t *Ticker) Stop(ctx context.Context) {
	stopCtx := t.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	t.logger.Info("ticker stopped")
}

// Entries is the number of scheduled jobs.
func (t *Ticker) Entries() int {
	return len(t.cron.Entries())
}
