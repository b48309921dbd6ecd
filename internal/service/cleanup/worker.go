package cleanup

import (
	"context"
	"log"
	"time"

	"github.com/iamasit07/connect4-hotseat/internal/service/table"
)

type Worker struct {
	Tables   *table.Manager
	Notifier table.Notifier
	MaxIdle  time.Duration
	Interval time.Duration
}

func NewWorker(tables *table.Manager, notifier table.Notifier, maxIdle, interval time.Duration) *Worker {
	return &Worker{Tables: tables, Notifier: notifier, MaxIdle: maxIdle, Interval: interval}
}

// Start runs the cleanup once, then every Interval until ctx is cancelled
func (w *Worker) Start(ctx context.Context) {
	log.Println("[CLEANUP] Background worker started")
	w.RunOnce()

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[CLEANUP] Background worker stopped")
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce executes the actual cleanup logic
func (w *Worker) RunOnce() int {
	removed := w.Tables.CleanupIdleTables(w.MaxIdle, w.Notifier)
	if removed > 0 {
		log.Printf("[CLEANUP] Closed %d tables idle for more than %s", removed, w.MaxIdle)
	}
	return removed
}
