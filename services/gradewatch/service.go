package gradewatch

import (
	"context"
	"time"

	"gradewatch-backend/lib/push"
	"gradewatch-backend/lib/scrapers/jwxt"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/gradewatch")

const defaultCheckInterval = time.Hour * 6

// GradeFetcher performs the authenticated grade-list request for one
// session's cookies. Implementations make a single attempt, the
// daemon's schedule is the retry policy.
type GradeFetcher interface {
	FetchGradeList(ctx context.Context, cookies []string) (string, error)
}

// SiteParser interprets fetched pages for the deployment's target
// site, so the extraction rules can change without touching the
// check cycle.
type SiteParser interface {
	Classify(page string) jwxt.PageKind
	ExtractSignatures(page string) []string
}

type Service struct {
	store    SessionStore
	fetcher  GradeFetcher
	parser   SiteParser
	notifier push.Notifier
	interval time.Duration
}

type ServiceOptions struct {
	Store    SessionStore
	Fetcher  GradeFetcher
	Notifier push.Notifier
	// defaults to jwxt.Parser
	Parser SiteParser
	// zero means the 6 hour default
	CheckInterval time.Duration
}

func NewService(opts ServiceOptions) Service {
	parser := opts.Parser
	if parser == nil {
		parser = jwxt.Parser{}
	}
	interval := opts.CheckInterval
	if interval == 0 {
		interval = defaultCheckInterval
	}
	return Service{
		store:    opts.Store,
		fetcher:  opts.Fetcher,
		parser:   parser,
		notifier: opts.Notifier,
		interval: interval,
	}
}
