// Package place models a single business record returned by a places search.
package place

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/placeqa/internal/domain/geo"
)

// Attrs carries the raw, possibly absent, fields of a place as received from
// the provider. Nil pointers mean "absent".
type Attrs struct {
	Identifier        *string
	Name              *string
	Rating            *float64
	ReviewCount       *int
	Address           *string
	PhotoCount        int
	OperationalStatus *string
	Categories        []string
	Location          *geo.Point
}

// Record is an immutable place record. All fields are optional except the
// photo count, which defaults to zero.
type Record struct {
	identifier        *string
	name              *string
	rating            *float64
	reviewCount       *int
	address           *string
	photoCount        int
	operationalStatus *string
	primaryCategory   *string
	location          *geo.Point
}

// New copies attrs into a Record. Only the first category is kept.
func New(a Attrs) Record {
	r := Record{
		identifier:        cloneString(a.Identifier),
		name:              cloneString(a.Name),
		rating:            cloneFloat(a.Rating),
		reviewCount:       cloneInt(a.ReviewCount),
		address:           cloneString(a.Address),
		operationalStatus: cloneString(a.OperationalStatus),
	}
	if a.PhotoCount > 0 {
		r.photoCount = a.PhotoCount
	}
	if len(a.Categories) > 0 {
		c := a.Categories[0]
		r.primaryCategory = &c
	}
	if a.Location != nil {
		p := *a.Location
		r.location = &p
	}
	return r
}

// Identifier returns the provider place ID.
func (r Record) Identifier() (string, bool) { return deref(r.identifier) }

// Name returns the business name as received (not trimmed).
func (r Record) Name() (string, bool) { return deref(r.name) }

// Rating returns the average rating.
func (r Record) Rating() (float64, bool) {
	if r.rating == nil {
		return 0, false
	}
	return *r.rating, true
}

// ReviewCount returns the number of user ratings.
func (r Record) ReviewCount() (int, bool) {
	if r.reviewCount == nil {
		return 0, false
	}
	return *r.reviewCount, true
}

// Address returns the vicinity string.
func (r Record) Address() (string, bool) { return deref(r.address) }

// PhotoCount returns the number of photo references, 0 when none.
func (r Record) PhotoCount() int { return r.photoCount }

// OperationalStatus returns the provider business status.
func (r Record) OperationalStatus() (string, bool) { return deref(r.operationalStatus) }

// PrimaryCategory returns the first provider category.
func (r Record) PrimaryCategory() (string, bool) { return deref(r.primaryCategory) }

// Location returns the place coordinates.
func (r Record) Location() (geo.Point, bool) {
	if r.location == nil {
		return geo.Point{}, false
	}
	return *r.location, true
}

// Key is the dedup identity: the identifier when present and non-empty,
// otherwise name concatenated with address.
func (r Record) Key() string {
	if id, ok := r.Identifier(); ok && id != "" {
		return id
	}
	name, _ := r.Name()
	addr, _ := r.Address()
	return name + addr
}

// HasName reports whether the name is present and non-blank.
func (r Record) HasName() bool {
	name, ok := r.Name()
	return ok && strings.TrimSpace(name) != ""
}

// HasValidRating reports whether a rating is present and within [1,5].
func (r Record) HasValidRating() bool {
	rating, ok := r.Rating()
	return ok && rating >= MinRating && rating <= MaxRating
}

// HasAddress reports whether the address is present and non-blank.
func (r Record) HasAddress() bool {
	addr, ok := r.Address()
	return ok && strings.TrimSpace(addr) != ""
}

// HasPhotos reports whether at least one photo reference exists.
func (r Record) HasPhotos() bool { return r.photoCount > 0 }

// IsPermanentlyClosed reports whether the status marks the place as closed
// for good. Provider spellings differ in case and separators.
func (r Record) IsPermanentlyClosed() bool {
	status, ok := r.OperationalStatus()
	if !ok {
		return false
	}
	switch foldStatus(status) {
	case "closedpermanently", "permanentlyclosed":
		return true
	}
	return false
}

// Label names the record in human-readable messages. position is 1-based.
func (r Record) Label(position int) string {
	if r.HasName() {
		name, _ := r.Name()
		return name
	}
	return fmt.Sprintf("Business #%d", position)
}

// Rating bounds accepted as valid.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

func foldStatus(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range strings.ToLower(s) {
		switch c {
		case '_', '-', ' ':
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func deref(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
