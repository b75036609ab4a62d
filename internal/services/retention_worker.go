package services

import (
	"context"
	"log/slog"
	"time"
)

// RetentionWorker periodically purges audit entries older than a fixed number
// of days for every mapping type.
type RetentionWorker struct {
	audit    *AuditService
	types    *MappingTypes
	days     int
	interval time.Duration
	logger   *slog.Logger
}

func NewRetentionWorker(audit *AuditService, types *MappingTypes, days int, interval time.Duration, logger *slog.Logger) *RetentionWorker {
	return &RetentionWorker{
		audit:    audit,
		types:    types,
		days:     days,
		interval: interval,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled. It returns at once when retention is
// disabled (days <= 0).
func (w *RetentionWorker) Start(ctx context.Context) {
	if w.days <= 0 || w.interval <= 0 {
		w.logger.Info("Log retention disabled")
		return
	}

	w.logger.Info("Retention worker starting", "days", w.days, "interval", w.interval)
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.RunOnce(ctx)
		case <-ctx.Done():
			w.logger.Info("Retention worker stopping")
			return
		}
	}
}

// RunOnce purges every type and returns the total number of deleted entries.
// A failing type is logged and skipped.
func (w *RetentionWorker) RunOnce(ctx context.Context) int64 {
	var total int64
	for _, mt := range w.types.All() {
		n, err := w.audit.PurgeOlderThan(ctx, mt, float64(w.days))
		if err != nil {
			w.logger.Error("Failed to purge audit log", "type", mt.Name, "error", err)
			continue
		}
		total += n
	}
	return total
}
