// Package quality scores place records for completeness.
//
// Each record gets four scored checks (name, rating, address, photos) and one
// informational check (permanent closure). Scores aggregate into a single
// percentage; each record also gets a Good/Fair/Poor tier.
package quality

// IssueKind tags a single finding.
type IssueKind string

// Issue kinds, in the order checks run for a record.
const (
	MissingName       IssueKind = "missing_name"
	InvalidRating     IssueKind = "invalid_rating"
	MissingAddress    IssueKind = "missing_address"
	NoPhotos          IssueKind = "no_photos"
	PermanentlyClosed IssueKind = "permanently_closed"
)

// Kinds lists every issue kind in check order.
var Kinds = []IssueKind{MissingName, InvalidRating, MissingAddress, NoPhotos, PermanentlyClosed}

// Scored reports whether the kind counts against the 4-point record score.
func (k IssueKind) Scored() bool { return k != PermanentlyClosed }

// Issue is a single finding on one record. BusinessIndex is 0-based.
type Issue struct {
	BusinessIndex int       `json:"business_index"`
	Kind          IssueKind `json:"kind"`
	Message       string    `json:"message"`
}

// Tier is the coarse quality bucket of one record.
type Tier string

// Tier values.
const (
	Good Tier = "good"
	Fair Tier = "fair"
	Poor Tier = "poor"
)

// tierFor buckets the count of failing tier checks.
func tierFor(issueCount int) Tier {
	switch {
	case issueCount >= 3:
		return Poor
	case issueCount >= 1:
		return Fair
	default:
		return Good
	}
}
