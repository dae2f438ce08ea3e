package quality

import (
	"fmt"

	"github.com/kailas-cloud/placeqa/internal/domain/place"
)

// ChecksPerRecord is the number of scored checks per record.
const ChecksPerRecord = 4

// Assessment is the per-record outcome.
type Assessment struct {
	Index      int     `json:"index"`
	Label      string  `json:"label"`
	Passed     int     `json:"passed"`
	Issues     []Issue `json:"issues"`
	IssueCount int     `json:"issue_count"`
	Tier       Tier    `json:"tier"`
}

// FieldScore is the pass count and percentage for one scored check.
type FieldScore struct {
	Passed  int `json:"passed"`
	Percent int `json:"percent"`
}

// FieldScores breaks the overall score down per check.
type FieldScores struct {
	Name    FieldScore `json:"name"`
	Rating  FieldScore `json:"rating"`
	Address FieldScore `json:"address"`
	Photos  FieldScore `json:"photos"`
}

// Report is the full analysis of one record set.
type Report struct {
	TotalBusinesses     int          `json:"total_businesses"`
	OverallScorePercent int          `json:"overall_score_percent"`
	Issues              []Issue      `json:"issues"`
	Assessments         []Assessment `json:"assessments"`
	Fields              FieldScores  `json:"fields"`
	ClosedCount         int          `json:"closed_count"`
}

// IssueCount returns the total number of issues, informational ones included.
func (r *Report) IssueCount() int { return len(r.Issues) }

// TierCounts returns how many records fall in each tier.
func (r *Report) TierCounts() map[Tier]int {
	out := map[Tier]int{Good: 0, Fair: 0, Poor: 0}
	for _, a := range r.Assessments {
		out[a.Tier]++
	}
	return out
}

// Preview returns the first limit issues and how many were left out.
func (r *Report) Preview(limit int) ([]Issue, int) {
	if limit < 0 || len(r.Issues) <= limit {
		return r.Issues, 0
	}
	return r.Issues[:limit], len(r.Issues) - limit
}

// Analyze runs every check over records in order. It never fails: absent
// fields become issues.
func Analyze(records []place.Record) Report {
	rep := Report{
		TotalBusinesses: len(records),
		Issues:          []Issue{},
		Assessments:     make([]Assessment, 0, len(records)),
	}

	passSum := 0
	for i, r := range records {
		a := assess(i, r)
		passSum += a.Passed
		rep.Issues = append(rep.Issues, a.Issues...)
		rep.Assessments = append(rep.Assessments, a)

		if r.HasName() {
			rep.Fields.Name.Passed++
		}
		if r.HasValidRating() {
			rep.Fields.Rating.Passed++
		}
		if r.HasAddress() {
			rep.Fields.Address.Passed++
		}
		if r.HasPhotos() {
			rep.Fields.Photos.Passed++
		}
		if r.IsPermanentlyClosed() {
			rep.ClosedCount++
		}
	}

	n := len(records)
	rep.OverallScorePercent = roundPercent(passSum, ChecksPerRecord*n)
	rep.Fields.Name.Percent = roundPercent(rep.Fields.Name.Passed, n)
	rep.Fields.Rating.Percent = roundPercent(rep.Fields.Rating.Passed, n)
	rep.Fields.Address.Percent = roundPercent(rep.Fields.Address.Passed, n)
	rep.Fields.Photos.Percent = roundPercent(rep.Fields.Photos.Passed, n)

	return rep
}

func assess(index int, r place.Record) Assessment {
	label := r.Label(index + 1)
	a := Assessment{Index: index, Label: label, Issues: []Issue{}}

	add := func(kind IssueKind, msg string) {
		a.Issues = append(a.Issues, Issue{BusinessIndex: index, Kind: kind, Message: msg})
	}

	if r.HasName() {
		a.Passed++
	} else {
		add(MissingName, label+": Missing business name")
	}

	if r.HasValidRating() {
		a.Passed++
	} else {
		add(InvalidRating, label+": Missing or invalid rating")
		a.IssueCount++
	}

	if r.HasAddress() {
		a.Passed++
	} else {
		add(MissingAddress, label+": Missing address information")
		a.IssueCount++
	}

	if r.HasPhotos() {
		a.Passed++
	} else {
		add(NoPhotos, label+": No photos available")
		a.IssueCount++
	}

	if r.IsPermanentlyClosed() {
		add(PermanentlyClosed, label+": Permanently closed")
		a.IssueCount++
	}

	a.Tier = tierFor(a.IssueCount)
	return a
}

// roundPercent returns round(100*num/den) with halves rounded up, 0 when den is 0.
func roundPercent(num, den int) int {
	if den <= 0 {
		return 0
	}
	return (200*num + den) / (2 * den)
}

// String renders the report the way the dashboard summary reads.
func (r *Report) String() string {
	return fmt.Sprintf("%d businesses, %d%% quality, %d issues",
		r.TotalBusinesses, r.OverallScorePercent, r.IssueCount())
}
