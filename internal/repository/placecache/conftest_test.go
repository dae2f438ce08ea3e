package placecache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placeqa/internal/db"
	"github.com/kailas-cloud/placeqa/internal/domain/geo"
	"github.com/kailas-cloud/placeqa/internal/domain/place"
)

type mockProvider struct {
	geocoded     geo.Geocoded
	geocodeErr   error
	records      []place.Record
	nearbyErr    error
	healthErr    error
	geocodeCalls int
	nearbyCalls  int
}

func (m *mockProvider) Geocode(_ context.Context, query string) (geo.Geocoded, error) {
	m.geocodeCalls++
	if m.geocodeErr != nil {
		return geo.Geocoded{}, m.geocodeErr
	}
	g := m.geocoded
	g.Query = query
	return g, nil
}

func (m *mockProvider) Nearby(_ context.Context, _ geo.Point, _ int, _ string) ([]place.Record, error) {
	m.nearbyCalls++
	return m.records, m.nearbyErr
}

func (m *mockProvider) HealthCheck(_ context.Context) error { return m.healthErr }

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestProvider(inner *mockProvider) (*Provider, *mockKVStore) {
	ms := newMockKVStore()
	p := New(inner, ms, Config{
		KeyPrefix:  "placeqa:",
		GeocodeTTL: 24 * time.Hour,
		NearbyTTL:  time.Hour,
	}, nil, zap.NewNop())
	return p, ms
}
