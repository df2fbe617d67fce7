package gradewatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CheckAllSessions runs one check cycle for every known session.
// Sessions are checked independently, a failure in one is logged and
// never aborts the rest of the batch.
func (s Service) CheckAllSessions(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "CheckAllSessions")
	defer span.End()

	runId := uuid.NewString()

	records, err := s.store.All(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "checking sessions", "run_id", runId, "count", len(records))

	for _, rec := range records {
		err := s.CheckSession(ctx, rec)
		if err != nil {
			slog.WarnContext(ctx, "check session", "run_id", runId, "identity", rec.Identity, "err", err)
		}
	}
	return nil
}

func (s Service) StartDaemon(ctx context.Context) {
	go s.checkDaemon(ctx)
}

func (s Service) checkDaemon(ctx context.Context) {
	slog.InfoContext(ctx, "start daemon", "task", "check sessions", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := s.CheckAllSessions(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "check all sessions", "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
