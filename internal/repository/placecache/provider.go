// Package placecache is a cache-aside decorator for the places provider.
package placecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placeqa/internal/db"
	"github.com/kailas-cloud/placeqa/internal/domain"
	"github.com/kailas-cloud/placeqa/internal/domain/geo"
	"github.com/kailas-cloud/placeqa/internal/domain/place"
)

const (
	endpointGeocode = "geocode"
	endpointNearby  = "nearby"
)

// provider is the decorated upstream (ISP).
type provider interface {
	Geocode(ctx context.Context, query string) (geo.Geocoded, error)
	Nearby(ctx context.Context, center geo.Point, radiusMeters int, category string) ([]place.Record, error)
	HealthCheck(ctx context.Context) error
}

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config holds cache settings.
type Config struct {
	KeyPrefix  string
	GeocodeTTL time.Duration
	NearbyTTL  time.Duration
}

// Provider caches geocode and nearby responses in a key-value store.
type Provider struct {
	inner      provider
	store      store
	cfg        Config
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "endpoint" and "result" ("hit"/"miss"), passed explicitly.
func New(
	inner provider,
	s store,
	cfg Config,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Provider {
	return &Provider{
		inner:      inner,
		store:      s,
		cfg:        cfg,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Geocode returns a cached location or calls the inner provider.
// Errors are never cached.
func (p *Provider) Geocode(ctx context.Context, query string) (geo.Geocoded, error) {
	key := p.key(endpointGeocode, strings.ToLower(strings.TrimSpace(query)))

	var cached geo.Geocoded
	if p.getFromCache(ctx, key, &cached) && cached.Center.Valid() {
		p.hit(ctx, endpointGeocode)
		return cached, nil
	}
	p.incCache(endpointGeocode, "miss")

	loc, err := p.inner.Geocode(ctx, query)
	if err != nil {
		return geo.Geocoded{}, fmt.Errorf("geocode: %w", err)
	}

	p.putToCache(ctx, key, loc, p.cfg.GeocodeTTL)
	return loc, nil
}

// Nearby returns a cached category page or calls the inner provider.
func (p *Provider) Nearby(ctx context.Context, center geo.Point, radiusMeters int, category string) ([]place.Record, error) {
	key := p.key(endpointNearby, center.String()+"|"+strconv.Itoa(radiusMeters)+"|"+category)

	var cached []place.Record
	if p.getFromCache(ctx, key, &cached) && cached != nil {
		p.hit(ctx, endpointNearby)
		return cached, nil
	}
	p.incCache(endpointNearby, "miss")

	recs, err := p.inner.Nearby(ctx, center, radiusMeters, category)
	if err != nil {
		return nil, fmt.Errorf("nearby %s: %w", category, err)
	}

	p.putToCache(ctx, key, recs, p.cfg.NearbyTTL)
	return recs, nil
}

// HealthCheck delegates to the inner provider.
func (p *Provider) HealthCheck(ctx context.Context) error {
	return p.inner.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
}

func (p *Provider) hit(ctx context.Context, endpoint string) {
	p.incCache(endpoint, "hit")
	domain.ProviderUsageFromContext(ctx).AddCacheHit()
}

func (p *Provider) incCache(endpoint, result string) {
	if p.cacheTotal != nil {
		p.cacheTotal.WithLabelValues(endpoint, result).Inc()
	}
}

func (p *Provider) key(endpoint, input string) string {
	h := sha256.Sum256([]byte(input))
	return p.cfg.KeyPrefix + endpoint + ":" + hex.EncodeToString(h[:])
}

func (p *Provider) getFromCache(ctx context.Context, key string, out any) bool {
	data, err := p.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			p.logger.Warn("Failed to get cached provider response", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		p.logger.Warn("Failed to parse cached provider response", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (p *Provider) putToCache(ctx context.Context, key string, v any, ttl time.Duration) {
	if ttl < time.Second {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		p.logger.Warn("Failed to encode provider response", zap.String("key", key), zap.Error(err))
		return
	}
	if err := p.store.SetWithTTL(ctx, key, data, ttl); err != nil {
		p.logger.Warn("Failed to cache provider response", zap.String("key", key), zap.Error(err))
	}
}
