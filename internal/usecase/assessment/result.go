package assessment

import (
	"github.com/kailas-cloud/placeqa/internal/domain/geo"
	"github.com/kailas-cloud/placeqa/internal/domain/place"
	"github.com/kailas-cloud/placeqa/internal/domain/quality"
)

// Query is a live assessment request. Zero values fall back to service defaults.
type Query struct {
	Location     string
	RadiusMeters int
	Categories   []string
}

// Business is one record of the working set with its assessment.
type Business struct {
	Record         place.Record       `json:"record"`
	Assessment     quality.Assessment `json:"assessment"`
	DistanceMeters *float64           `json:"distance_meters,omitempty"`
}

// Summary is the aggregate part of a report.
type Summary struct {
	TotalBusinesses     int                  `json:"total_businesses"`
	OverallScorePercent int                  `json:"overall_score_percent"`
	IssueCount          int                  `json:"issue_count"`
	ClosedCount         int                  `json:"closed_count"`
	Fields              quality.FieldScores  `json:"fields"`
	Tiers               map[quality.Tier]int `json:"tiers"`
}

// Usage reports provider traffic spent on one assessment.
type Usage struct {
	ProviderCalls int64 `json:"provider_calls"`
	CacheHits     int64 `json:"cache_hits"`
}

// Result is the outcome of one assessment.
type Result struct {
	ID           string          `json:"id"`
	Location     *geo.Geocoded   `json:"location,omitempty"`
	RadiusMeters int             `json:"radius_meters,omitempty"`
	Categories   []string        `json:"categories,omitempty"`
	Summary      Summary         `json:"summary"`
	Issues       []quality.Issue `json:"issues"`
	MoreIssues   int             `json:"more_issues"`
	Businesses   []Business      `json:"businesses"`
	Usage        *Usage          `json:"usage,omitempty"`

	Report quality.Report `json:"-"`
}
