// workers/session_reaper.go
package workers

import (
	"context"
	"log"
	"time"

	"course-learning-system/tracker"
)

const (
	reapInterval = 5 * time.Minute
	maxIdle      = 30 * time.Minute
)

// SessionReaper closes tracking sessions whose player has gone silent.
// Clients that navigate away without a close signal (crashed tab, lost
// network) would otherwise hold goroutines and registry entries forever.
type SessionReaper struct {
	registry *tracker.Registry
	interval time.Duration
	maxIdle  time.Duration
}

func NewSessionReaper(registry *tracker.Registry) *SessionReaper {
	return &SessionReaper{
		registry: registry,
		interval: reapInterval,
		maxIdle:  maxIdle,
	}
}

func (w *SessionReaper) Start(ctx context.Context) {
	log.Println("🔁 Starting Session Reaper…")
	go w.run(ctx)
}

func (w *SessionReaper) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := w.registry.ReapIdle(w.maxIdle); n > 0 {
				log.Printf("🧹 Reaped %d idle tracking session(s), %d live", n, w.registry.Len())
			}
		case <-ctx.Done():
			log.Println("⏹️ Session Reaper stopped")
			return
		}
	}
}
