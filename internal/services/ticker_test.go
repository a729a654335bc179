package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTimer struct{ ticks atomic.Int32 }

func (c *countingTimer) Tick(context.Context) bool {
	c.ticks.Add(1)
	return false
}

type staticQuotes struct{}

func (staticQuotes) Next() string { return "keep going" }

func TestTickerSchedulesJobs(t *testing.T) {
	ticker, err := NewTicker(&countingTimer{}, staticQuotes{}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, ticker.Entries())

	ticker, err = NewTicker(nil, staticQuotes{}, time.Minute, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, ticker.Entries())
}

func TestTickerDrivesTimer(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the scheduler")
	}
	timer := &countingTimer{}
	ticker, err := NewTicker(timer, nil, 0, nil)
	require.NoError(t, err)

	ticker.Start()
	defer ticker.Stop(context.Background())

	assert.Eventually(t, func() bool { return timer.ticks.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
