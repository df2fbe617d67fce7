package gradewatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"gradewatch-backend/lib/push"
	"gradewatch-backend/lib/scrapers/jwxt"
	"gradewatch-backend/lib/timezone"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CheckSession runs one full check cycle for a single session record:
// fetch, classify, then either mark the session expired or extract,
// diff and persist. A transport failure leaves the record entirely
// untouched so the next tick retries from scratch.
func (s Service) CheckSession(ctx context.Context, rec SessionRecord) error {
	ctx, span := tracer.Start(ctx, "CheckSession")
	defer span.End()

	span.SetAttributes(attribute.String("identity", rec.Identity))

	if rec.Token == "" || len(rec.Cookies) == 0 {
		span.AddEvent("skipped inert session")
		return nil
	}

	page, err := s.fetcher.FetchGradeList(ctx, rec.Cookies)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return fmt.Errorf("fetch grade list: %w", err)
	}

	if s.parser.Classify(page) == jwxt.AuthWall {
		return s.handleAuthWall(ctx, rec)
	}

	signatures := s.parser.ExtractSignatures(page)
	if len(signatures) == 0 {
		// ambiguous: either page-format drift or a transient empty
		// render. persisting an empty set here would turn a parse
		// miss into a false "everything is new" diff next cycle.
		span.AddEvent("no rows extracted from data page")
		slog.WarnContext(ctx, "grade page yielded no rows, skipping", "identity", rec.Identity)
		return nil
	}

	fresh := diffSignatures(rec.Signatures, signatures)
	span.SetAttributes(
		attribute.Int("extracted", len(signatures)),
		attribute.Int("fresh", len(fresh)),
	)

	if len(fresh) > 0 {
		s.notify(ctx, rec, push.Notification{
			Title:          "New grades available",
			Body:           fmt.Sprintf("%d new grade(s) detected", len(fresh)),
			AndroidChannel: "grade_updates",
			Data: map[string]string{
				"type":  "grade_update",
				"count": strconv.Itoa(len(fresh)),
			},
		})
	}

	err = s.store.RecordCheck(ctx, rec.Identity, signatures, timezone.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist check")
		return fmt.Errorf("record check: %w", err)
	}
	return nil
}

func (s Service) handleAuthWall(ctx context.Context, rec SessionRecord) error {
	ctx, span := tracer.Start(ctx, "handleAuthWall")
	defer span.End()

	// the known signature set stays as-is, a later successful fetch
	// should diff against the last data actually observed
	err := s.store.MarkExpired(ctx, rec.Identity, timezone.Now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to mark session expired")
		return fmt.Errorf("mark session expired: %w", err)
	}

	s.notify(ctx, rec, push.Notification{
		Title: "Session expired",
		Body:  "Please open the app to refresh your session.",
		Data: map[string]string{
			"type": "session_expired",
		},
	})
	return nil
}

// notify delivers best effort, a failed delivery never fails the
// cycle and is never retried.
func (s Service) notify(ctx context.Context, rec SessionRecord, notification push.Notification) {
	err := s.notifier.Send(ctx, rec.Token, notification)
	if errors.Is(err, push.ErrInvalidToken) {
		slog.WarnContext(ctx, "delivery token no longer registered", "identity", rec.Identity)
		return
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to deliver notification", "identity", rec.Identity, "err", err)
	}
}
