package utils

import (
	"context"
	"log/slog"
	"time"
)

// Prune drops revoked ids whose tokens have expired and returns how many were removed.
func (r *MemoryTokenRevoker) Prune(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, expiry := range r.tokens {
		if now.After(expiry) {
			delete(r.tokens, id)
			removed++
		}
	}
	return removed
}

// StartCleanupJob prunes r once immediately and then on every interval until ctx is done.
func StartCleanupJob(ctx context.Context, r *MemoryTokenRevoker, interval time.Duration, log *slog.Logger) {
	cleanup := func() {
		if n := r.Prune(time.Now()); n > 0 {
			log.Info("pruned expired revoked tokens", slog.Int("count", n))
		}
	}
	cleanup()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanup()
			}
		}
	}()
}
