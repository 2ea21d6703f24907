// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/bugtrack/internal/platform/metrics"
)

// Reaper periodically deletes revocation records whose token has expired.
//
// A record only matters while its token could still pass signature and expiry
// checks, so anything past its exp can go.
type Reaper struct {
	store    RevocationStore
	interval time.Duration
	metrics  *metrics.Registry
	logger   *slog.Logger
	now      func() time.Time
}

// NewReaper creates a [Reaper] that sweeps store every interval.
func NewReaper(store RevocationStore, interval time.Duration, registry *metrics.Registry, logger *slog.Logger) *Reaper {
	return &Reaper{
		store:    store,
		interval: interval,
		metrics:  registry,
		logger:   logger,
		now:      time.Now,
	}
}

// Run sweeps once immediately, then on every tick until context is cancelled.
func (reaper *Reaper) Run(context context.Context) {
	ticker := time.NewTicker(reaper.interval)
	defer ticker.Stop()

	reaper.Sweep(context)

	for {
		select {
		case <-context.Done():
			return
		case <-ticker.C:
			reaper.Sweep(context)
		}
	}
}

// Sweep deletes expired records once and returns how many were removed.
func (reaper *Reaper) Sweep(context context.Context) int64 {
	deleted, err := reaper.store.DeleteExpired(context, reaper.now().UTC())
	if err != nil {
		if context.Err() == nil {
			reaper.logger.ErrorContext(context, "revocation_reap_failed", slog.Any("error", err))
		}
		return 0
	}

	reaper.metrics.RevocationsReaped(deleted)
	if deleted > 0 {
		reaper.logger.InfoContext(context, "revocations_reaped", slog.Int64("count", deleted))
	}
	return deleted
}
