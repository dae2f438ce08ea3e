package place

import (
	"encoding/json"

	"github.com/kailas-cloud/placeqa/internal/domain/geo"
)

// wireRecord follows the Places Nearby Search result shape. photo_count is
// accepted as a flat alternative to the photos array.
type wireRecord struct {
	PlaceID          *string           `json:"place_id,omitempty"`
	Name             *string           `json:"name,omitempty"`
	Rating           *float64          `json:"rating,omitempty"`
	UserRatingsTotal *int              `json:"user_ratings_total,omitempty"`
	Vicinity         *string           `json:"vicinity,omitempty"`
	Photos           []json.RawMessage `json:"photos,omitempty"`
	PhotoCount       *int              `json:"photo_count,omitempty"`
	BusinessStatus   *string           `json:"business_status,omitempty"`
	Types            []string          `json:"types,omitempty"`
	Geometry         *wireGeometry     `json:"geometry,omitempty"`
}

type wireGeometry struct {
	Location geo.Point `json:"location"`
}

// MarshalJSON encodes the record in the flat wire shape (photo_count, single type).
func (r Record) MarshalJSON() ([]byte, error) {
	w := wireRecord{
		PlaceID:          r.identifier,
		Name:             r.name,
		Rating:           r.rating,
		UserRatingsTotal: r.reviewCount,
		Vicinity:         r.address,
		BusinessStatus:   r.operationalStatus,
	}
	if r.photoCount > 0 {
		n := r.photoCount
		w.PhotoCount = &n
	}
	if r.primaryCategory != nil {
		w.Types = []string{*r.primaryCategory}
	}
	if r.location != nil {
		w.Geometry = &wireGeometry{Location: *r.location}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes either the provider shape or the flat shape.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err //nolint:wrapcheck // json.Unmarshaler contract
	}
	a := Attrs{
		Identifier:        w.PlaceID,
		Name:              w.Name,
		Rating:            w.Rating,
		ReviewCount:       w.UserRatingsTotal,
		Address:           w.Vicinity,
		PhotoCount:        len(w.Photos),
		OperationalStatus: w.BusinessStatus,
		Categories:        w.Types,
	}
	if w.PhotoCount != nil {
		a.PhotoCount = *w.PhotoCount
	}
	if w.Geometry != nil {
		loc := w.Geometry.Location
		a.Location = &loc
	}
	*r = New(a)
	return nil
}
