package assessment

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/placeqa/internal/domain"
	"github.com/kailas-cloud/placeqa/internal/domain/geo"
	"github.com/kailas-cloud/placeqa/internal/domain/place"
	"github.com/kailas-cloud/placeqa/internal/domain/quality"
	"github.com/kailas-cloud/placeqa/internal/logger"
	"github.com/kailas-cloud/placeqa/internal/metrics"
)

const (
	// MaxRadiusMeters is the largest radius the provider accepts.
	MaxRadiusMeters = 50000
	// DefaultRadiusMeters is used when neither the query nor Options set a radius.
	DefaultRadiusMeters = 1500
	// DefaultIssuePreview is the number of issues listed in a Result.
	DefaultIssuePreview = 10
)

const (
	sourceLive    = "live"
	sourceOffline = "offline"
)

// Options holds service defaults.
type Options struct {
	RadiusMeters  int
	Categories    []string
	Stagger       time.Duration
	MaxWorkingSet int
	IssuePreview  int
}

// Service runs data quality assessments.
type Service struct {
	provider Provider
	opts     Options
	newID    func() string
}

// New creates an assessment service. provider can be nil for offline-only use.
func New(provider Provider, opts Options) *Service {
	if opts.MaxWorkingSet == 0 {
		opts.MaxWorkingSet = place.MaxWorkingSet
	}
	if opts.RadiusMeters == 0 {
		opts.RadiusMeters = DefaultRadiusMeters
	}
	if opts.IssuePreview == 0 {
		opts.IssuePreview = DefaultIssuePreview
	}
	return &Service{provider: provider, opts: opts, newID: uuid.NewString}
}

// Assess geocodes the location, searches every category around it and scores
// the merged, deduplicated working set.
func (s *Service) Assess(ctx context.Context, q Query) (Result, error) {
	if s.provider == nil {
		return Result{}, fmt.Errorf("places provider is not configured: %w", domain.ErrProviderError)
	}

	q, err := s.normalize(q)
	if err != nil {
		return Result{}, err
	}

	id := s.newID()
	ctx, log := logger.With(ctx, zap.String("assessment_id", id))

	loc, err := s.provider.Geocode(ctx, q.Location)
	if err != nil {
		return Result{}, fmt.Errorf("geocode: %w", err)
	}
	log.Debug("location resolved",
		zap.String("formatted_address", loc.FormattedAddress),
		zap.Stringer("center", loc.Center),
	)

	pages, err := s.searchAll(ctx, loc.Center, q.RadiusMeters, q.Categories)
	if err != nil {
		return Result{}, err
	}

	merged := make([]place.Record, 0, totalLen(pages))
	for _, p := range pages {
		merged = append(merged, p...)
	}
	if len(merged) == 0 {
		return Result{}, fmt.Errorf("%s within %dm: %w", q.Location, q.RadiusMeters, domain.ErrNoResults)
	}

	working := place.DedupeLimit(merged, s.opts.MaxWorkingSet)
	log.Info("working set assembled",
		zap.Int("fetched", len(merged)),
		zap.Int("kept", len(working)),
	)

	res := s.build(id, working, &loc.Center)
	res.Location = &loc
	res.RadiusMeters = q.RadiusMeters
	res.Categories = q.Categories
	if u := domain.ProviderUsageFromContext(ctx); u != nil {
		res.Usage = &Usage{ProviderCalls: u.Calls(), CacheHits: u.CacheHits()}
	}

	observe(sourceLive, &res.Report)
	return res, nil
}

// Analyze scores a caller-supplied record list without calling the provider.
// A nil list is an invalid argument; an empty one yields an empty report.
func (s *Service) Analyze(ctx context.Context, records []place.Record) (Result, error) {
	if records == nil {
		return Result{}, fmt.Errorf("records must be a list: %w", domain.ErrInvalidArgument)
	}

	id := s.newID()
	working := place.DedupeLimit(records, s.opts.MaxWorkingSet)
	logger.FromContext(ctx).Debug("offline analysis",
		zap.String("assessment_id", id),
		zap.Int("received", len(records)),
		zap.Int("kept", len(working)),
	)

	res := s.build(id, working, nil)
	observe(sourceOffline, &res.Report)
	return res, nil
}

func (s *Service) normalize(q Query) (Query, error) {
	q.Location = strings.TrimSpace(q.Location)
	if q.Location == "" {
		return Query{}, fmt.Errorf("location is required: %w", domain.ErrInvalidArgument)
	}

	if q.RadiusMeters == 0 {
		q.RadiusMeters = s.opts.RadiusMeters
	}
	if q.RadiusMeters <= 0 || q.RadiusMeters > MaxRadiusMeters {
		return Query{}, fmt.Errorf("radius_meters must be in (0, %d], got %d: %w",
			MaxRadiusMeters, q.RadiusMeters, domain.ErrInvalidArgument)
	}

	src := q.Categories
	if len(src) == 0 {
		src = s.opts.Categories
	}
	cats := make([]string, 0, len(src))
	for _, c := range src {
		c = strings.TrimSpace(c)
		if c == "" {
			return Query{}, fmt.Errorf("category must not be blank: %w", domain.ErrInvalidArgument)
		}
		if !slices.Contains(cats, c) {
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		return Query{}, fmt.Errorf("at least one category is required: %w", domain.ErrInvalidArgument)
	}
	q.Categories = cats
	return q, nil
}

// searchAll issues one nearby search per category. Start i is delayed by
// i*Stagger. Pages come back in category order; the first error cancels the rest.
func (s *Service) searchAll(ctx context.Context, center geo.Point, radius int, categories []string) ([][]place.Record, error) {
	pages := make([][]place.Record, len(categories))
	g, gctx := errgroup.WithContext(ctx)

	for i, category := range categories {
		g.Go(func() error {
			if err := wait(gctx, time.Duration(i)*s.opts.Stagger); err != nil {
				return fmt.Errorf("search %s: %w", category, err)
			}
			recs, err := s.provider.Nearby(gctx, center, radius, category)
			if err != nil {
				return fmt.Errorf("search %s: %w", category, err)
			}
			pages[i] = recs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped per category
	}
	return pages, nil
}

func (s *Service) build(id string, working []place.Record, center *geo.Point) Result {
	rep := quality.Analyze(working)
	preview, more := rep.Preview(s.opts.IssuePreview)

	businesses := make([]Business, len(working))
	for i, r := range working {
		b := Business{Record: r, Assessment: rep.Assessments[i]}
		if center != nil {
			if p, ok := r.Location(); ok {
				d := center.DistanceTo(p)
				b.DistanceMeters = &d
			}
		}
		businesses[i] = b
	}

	return Result{
		ID: id,
		Summary: Summary{
			TotalBusinesses:     rep.TotalBusinesses,
			OverallScorePercent: rep.OverallScorePercent,
			IssueCount:          rep.IssueCount(),
			ClosedCount:         rep.ClosedCount,
			Fields:              rep.Fields,
			Tiers:               rep.TierCounts(),
		},
		Issues:     preview,
		MoreIssues: more,
		Businesses: businesses,
		Report:     rep,
	}
}

func observe(source string, rep *quality.Report) {
	metrics.AssessmentScore.WithLabelValues(source).Observe(float64(rep.OverallScorePercent))
	metrics.AssessmentBusinesses.Observe(float64(rep.TotalBusinesses))
	for _, is := range rep.Issues {
		metrics.AssessmentIssuesTotal.WithLabelValues(string(is.Kind)).Inc()
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err() //nolint:wrapcheck // caller wraps
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck // caller wraps
	case <-t.C:
		return nil
	}
}

func totalLen(pages [][]place.Record) int {
	n := 0
	for _, p := range pages {
		n += len(p)
	}
	return n
}
