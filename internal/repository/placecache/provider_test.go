package placecache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placeqa/internal/domain"
	"github.com/kailas-cloud/placeqa/internal/domain/geo"
	"github.com/kailas-cloud/placeqa/internal/domain/place"
)

func str(s string) *string { return &s }

func TestGeocode_MissThenHit(t *testing.T) {
	inner := &mockProvider{geocoded: geo.Geocoded{Center: geo.Point{Lat: 30.2, Lng: -97.7}}}
	p, ms := newTestProvider(inner)
	ctx := context.Background()

	first, err := p.Geocode(ctx, "Austin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Geocode(ctx, "  austin ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.geocodeCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.geocodeCalls)
	}
	if first.Center != second.Center {
		t.Errorf("cached center differs: %+v vs %+v", first.Center, second.Center)
	}
	for k, ttl := range ms.ttls {
		if !strings.HasPrefix(k, "placeqa:geocode:") {
			t.Errorf("unexpected key %q", k)
		}
		if ttl != 24*time.Hour {
			t.Errorf("expected geocode ttl, got %s", ttl)
		}
	}
}

func TestNearby_MissThenHit(t *testing.T) {
	inner := &mockProvider{records: []place.Record{
		place.New(place.Attrs{Identifier: str("p1"), Name: str("A"), PhotoCount: 2}),
	}}
	p, ms := newTestProvider(inner)
	ctx, usage := domain.NewContextWithProviderUsage(context.Background())
	center := geo.Point{Lat: 1, Lng: 2}

	if _, err := p.Nearby(ctx, center, 1500, "bank"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := p.Nearby(ctx, center, 1500, "bank")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.nearbyCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.nearbyCalls)
	}
	if usage.CacheHits() != 1 {
		t.Errorf("expected 1 cache hit, got %d", usage.CacheHits())
	}
	if len(got) != 1 || got[0].Key() != "p1" || got[0].PhotoCount() != 2 {
		t.Errorf("unexpected cached records %+v", got)
	}
	for _, ttl := range ms.ttls {
		if ttl != time.Hour {
			t.Errorf("expected nearby ttl, got %s", ttl)
		}
	}
}

func TestNearby_KeyIncludesCategoryAndRadius(t *testing.T) {
	inner := &mockProvider{records: []place.Record{}}
	p, _ := newTestProvider(inner)
	ctx := context.Background()
	center := geo.Point{Lat: 1, Lng: 2}

	_, _ = p.Nearby(ctx, center, 1500, "bank")
	_, _ = p.Nearby(ctx, center, 1500, "store")
	_, _ = p.Nearby(ctx, center, 500, "bank")

	if inner.nearbyCalls != 3 {
		t.Errorf("expected 3 upstream calls, got %d", inner.nearbyCalls)
	}
}

func TestNearby_EmptyResultIsCached(t *testing.T) {
	inner := &mockProvider{records: []place.Record{}}
	p, _ := newTestProvider(inner)
	ctx := context.Background()

	_, _ = p.Nearby(ctx, geo.Point{}, 100, "bank")
	got, err := p.Nearby(ctx, geo.Point{}, 100, "bank")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.nearbyCalls != 1 || len(got) != 0 {
		t.Errorf("expected cached empty page, calls=%d len=%d", inner.nearbyCalls, len(got))
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	inner := &mockProvider{nearbyErr: domain.ErrQuotaExceeded, geocodeErr: domain.ErrLocationNotFound}
	p, ms := newTestProvider(inner)
	ctx := context.Background()

	if _, err := p.Nearby(ctx, geo.Point{}, 100, "bank"); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
	if _, err := p.Geocode(ctx, "x"); !errors.Is(err, domain.ErrLocationNotFound) {
		t.Errorf("expected ErrLocationNotFound, got %v", err)
	}
	if len(ms.data) != 0 {
		t.Errorf("expected nothing cached, got %d entries", len(ms.data))
	}
}

func TestStoreFailuresAreIgnored(t *testing.T) {
	inner := &mockProvider{geocoded: geo.Geocoded{Center: geo.Point{Lat: 1, Lng: 1}}}
	p, ms := newTestProvider(inner)
	ms.getErr = errors.New("connection reset")
	ms.setErr = errors.New("connection reset")

	if _, err := p.Geocode(context.Background(), "x"); err != nil {
		t.Fatalf("store failure must not fail the call: %v", err)
	}
	if inner.geocodeCalls != 1 {
		t.Errorf("expected fallthrough to provider, got %d calls", inner.geocodeCalls)
	}
}

func TestCorruptEntryFallsThrough(t *testing.T) {
	inner := &mockProvider{records: []place.Record{}}
	p, ms := newTestProvider(inner)
	key := p.key(endpointNearby, geo.Point{}.String()+"|100|bank")
	ms.data[key] = []byte("{not json")

	if _, err := p.Nearby(context.Background(), geo.Point{}, 100, "bank"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.nearbyCalls != 1 {
		t.Errorf("expected upstream call on corrupt entry, got %d", inner.nearbyCalls)
	}
}

func TestCacheCounter(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"endpoint", "result"})
	inner := &mockProvider{geocoded: geo.Geocoded{Center: geo.Point{Lat: 1, Lng: 1}}}
	p := New(inner, newMockKVStore(), Config{KeyPrefix: "t:", GeocodeTTL: time.Minute}, counter, zap.NewNop())

	_, _ = p.Geocode(context.Background(), "x")
	_, _ = p.Geocode(context.Background(), "x")

	if got := testutil.ToFloat64(counter.WithLabelValues(endpointGeocode, "miss")); got != 1 {
		t.Errorf("expected 1 miss, got %f", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues(endpointGeocode, "hit")); got != 1 {
		t.Errorf("expected 1 hit, got %f", got)
	}
}

func TestHealthCheck_Delegates(t *testing.T) {
	want := errors.New("down")
	p, _ := newTestProvider(&mockProvider{healthErr: want})
	if err := p.HealthCheck(context.Background()); !errors.Is(err, want) {
		t.Errorf("expected delegated error, got %v", err)
	}
}
