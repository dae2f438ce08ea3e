package place

import (
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/placeqa/internal/domain/geo"
)

func str(s string) *string   { return &s }
func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func TestNew_CopiesInput(t *testing.T) {
	name := "Cafe A"
	cats := []string{"cafe", "food"}
	r := New(Attrs{Name: &name, Categories: cats})

	name = "mutated"
	cats[0] = "mutated"

	if got, _ := r.Name(); got != "Cafe A" {
		t.Errorf("Name() = %q, record must not alias input", got)
	}
	if got, _ := r.PrimaryCategory(); got != "cafe" {
		t.Errorf("PrimaryCategory() = %q", got)
	}
}

func TestNew_NegativePhotoCountIsZero(t *testing.T) {
	r := New(Attrs{PhotoCount: -3})
	if r.PhotoCount() != 0 {
		t.Errorf("PhotoCount() = %d, want 0", r.PhotoCount())
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		attrs Attrs
		want  string
	}{
		{"identifier wins", Attrs{Identifier: str("p1"), Name: str("X"), Address: str("A")}, "p1"},
		{"empty identifier falls back", Attrs{Identifier: str(""), Name: str("X"), Address: str("A")}, "XA"},
		{"absent identifier falls back", Attrs{Name: str("X"), Address: str("A")}, "XA"},
		{"absent address", Attrs{Name: str("X")}, "X"},
		{"nothing", Attrs{}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := New(tc.attrs).Key(); got != tc.want {
				t.Errorf("Key() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestChecks(t *testing.T) {
	tests := []struct {
		name    string
		attrs   Attrs
		hasName bool
		rating  bool
		address bool
		photos  bool
	}{
		{"complete", Attrs{Name: str("Cafe"), Rating: f64(4.5), Address: str("MG Road"), PhotoCount: 2}, true, true, true, true},
		{"blank strings", Attrs{Name: str("   "), Address: str("\t")}, false, false, false, false},
		{"rating low bound", Attrs{Rating: f64(1)}, false, true, false, false},
		{"rating high bound", Attrs{Rating: f64(5)}, false, true, false, false},
		{"rating below", Attrs{Rating: f64(0.9)}, false, false, false, false},
		{"rating above", Attrs{Rating: f64(5.1)}, false, false, false, false},
		{"rating zero", Attrs{Rating: f64(0)}, false, false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(tc.attrs)
			if r.HasName() != tc.hasName {
				t.Errorf("HasName() = %v", r.HasName())
			}
			if r.HasValidRating() != tc.rating {
				t.Errorf("HasValidRating() = %v", r.HasValidRating())
			}
			if r.HasAddress() != tc.address {
				t.Errorf("HasAddress() = %v", r.HasAddress())
			}
			if r.HasPhotos() != tc.photos {
				t.Errorf("HasPhotos() = %v", r.HasPhotos())
			}
		})
	}
}

func TestIsPermanentlyClosed(t *testing.T) {
	tests := []struct {
		status *string
		want   bool
	}{
		{nil, false},
		{str("OPERATIONAL"), false},
		{str("CLOSED_TEMPORARILY"), false},
		{str("CLOSED_PERMANENTLY"), true},
		{str("permanently closed"), true},
		{str("Permanently-Closed"), true},
	}
	for _, tc := range tests {
		r := New(Attrs{OperationalStatus: tc.status})
		if got := r.IsPermanentlyClosed(); got != tc.want {
			s, _ := r.OperationalStatus()
			t.Errorf("IsPermanentlyClosed(%q) = %v, want %v", s, got, tc.want)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := New(Attrs{Name: str("Cafe A")}).Label(3); got != "Cafe A" {
		t.Errorf("Label = %q", got)
	}
	if got := New(Attrs{Name: str("  ")}).Label(3); got != "Business #3" {
		t.Errorf("Label = %q", got)
	}
	if got := New(Attrs{}).Label(1); got != "Business #1" {
		t.Errorf("Label = %q", got)
	}
}

func TestUnmarshalJSON_ProviderShape(t *testing.T) {
	data := []byte(`{
		"place_id": "ChIJ1",
		"name": "Cafe A",
		"rating": 4.5,
		"user_ratings_total": 120,
		"vicinity": "MG Road",
		"photos": [{"photo_reference": "a"}, {"photo_reference": "b"}],
		"business_status": "OPERATIONAL",
		"types": ["cafe", "food", "point_of_interest"],
		"geometry": {"location": {"lat": 12.97, "lng": 77.59}}
	}`)

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if id, _ := r.Identifier(); id != "ChIJ1" {
		t.Errorf("Identifier = %q", id)
	}
	if r.PhotoCount() != 2 {
		t.Errorf("PhotoCount = %d", r.PhotoCount())
	}
	if n, ok := r.ReviewCount(); !ok || n != 120 {
		t.Errorf("ReviewCount = %d, %v", n, ok)
	}
	if c, _ := r.PrimaryCategory(); c != "cafe" {
		t.Errorf("PrimaryCategory = %q", c)
	}
	loc, ok := r.Location()
	if !ok || loc != (geo.Point{Lat: 12.97, Lng: 77.59}) {
		t.Errorf("Location = %+v, %v", loc, ok)
	}
}

func TestUnmarshalJSON_NullsAreAbsent(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"name": null, "rating": null, "vicinity": null}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := r.Name(); ok {
		t.Error("name should be absent")
	}
	if _, ok := r.Rating(); ok {
		t.Error("rating should be absent")
	}
	if _, ok := r.Address(); ok {
		t.Error("address should be absent")
	}
}

func TestJSON_FlatShapeRoundTrip(t *testing.T) {
	orig := New(Attrs{
		Identifier:        str("p1"),
		Name:              str("Cafe A"),
		Rating:            f64(4.5),
		ReviewCount:       intp(10),
		Address:           str("MG Road"),
		PhotoCount:        3,
		OperationalStatus: str("OPERATIONAL"),
		Categories:        []string{"cafe"},
		Location:          &geo.Point{Lat: 1, Lng: 2},
	})

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Key() != orig.Key() || got.PhotoCount() != 3 {
		t.Errorf("round trip lost data: %s", data)
	}
}
