package simulation

import (
	"context"
	"time"
)

// Task is a handle to a repeating job.
type Task interface {
	// Cancel stops future runs. It is safe to call more than once.
	Cancel()
}

// Scheduler runs a function repeatedly at a fixed interval.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Task
}

// TickerScheduler runs each task on its own goroutine driven by a time.Ticker.
type TickerScheduler struct{}

// Every starts calling fn every interval until the returned task is cancelled.
// A run that has already started is allowed to finish.
func (TickerScheduler) Every(interval time.Duration, fn func()) Task {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()
	return tickerTask{cancel: cancel}
}

type tickerTask struct {
	cancel context.CancelFunc
}

func (t tickerTask) Cancel() { t.cancel() }
