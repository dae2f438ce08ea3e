// Package google implements the places provider on the Google Geocoding and
// Places Nearby Search HTTP APIs.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placeqa/internal/domain"
	"github.com/kailas-cloud/placeqa/internal/domain/geo"
	"github.com/kailas-cloud/placeqa/internal/domain/place"
	"github.com/kailas-cloud/placeqa/internal/logger"
	"github.com/kailas-cloud/placeqa/internal/metrics"
)

const (
	DefaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	DefaultNearbyURL  = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

	defaultTimeout = 8 * time.Second
	maxBodyBytes   = 4 << 20

	endpointGeocode = "geocode"
	endpointNearby  = "nearby"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Config holds the provider settings.
type Config struct {
	APIKey     string
	GeocodeURL string
	NearbyURL  string
	Region     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the Google Maps web services.
type Client struct {
	apiKey     string
	geocodeURL string
	nearbyURL  string
	region     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a provider client. Empty URLs fall back to the public endpoints.
func NewClient(cfg *Config) *Client {
	geocodeURL := strings.TrimSpace(cfg.GeocodeURL)
	if geocodeURL == "" {
		geocodeURL = DefaultGeocodeURL
	}
	nearbyURL := strings.TrimSpace(cfg.NearbyURL)
	if nearbyURL == "" {
		nearbyURL = DefaultNearbyURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		geocodeURL: geocodeURL,
		nearbyURL:  nearbyURL,
		region:     cfg.Region,
		httpClient: httpClient,
		logger:     l,
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location geo.Point `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type nearbyResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Results      []place.Record `json:"results"`
}

// Geocode resolves a free-text location to coordinates. ZERO_RESULTS maps to
// domain.ErrLocationNotFound.
func (c *Client) Geocode(ctx context.Context, query string) (geo.Geocoded, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return geo.Geocoded{}, fmt.Errorf("empty location: %w", domain.ErrInvalidArgument)
	}

	params := url.Values{"address": []string{q}}
	if c.region != "" {
		params.Set("region", c.region)
	}

	var resp geocodeResponse
	if err := c.get(ctx, endpointGeocode, c.geocodeURL, params, &resp); err != nil {
		return geo.Geocoded{}, err
	}

	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return geo.Geocoded{}, fmt.Errorf("geocode %q: %w", q, domain.ErrLocationNotFound)
	default:
		c.countError(endpointGeocode, "status")
		return geo.Geocoded{}, domain.NewProviderStatusError(endpointGeocode, resp.Status, resp.ErrorMessage)
	}
	if len(resp.Results) == 0 {
		return geo.Geocoded{}, fmt.Errorf("geocode %q: %w", q, domain.ErrLocationNotFound)
	}

	first := resp.Results[0]
	if !first.Geometry.Location.Valid() {
		c.countError(endpointGeocode, "invalid_coordinates")
		return geo.Geocoded{}, fmt.Errorf("geocode %q returned %s: %w",
			q, first.Geometry.Location, domain.ErrProviderError)
	}
	return geo.Geocoded{
		Query:            q,
		FormattedAddress: first.FormattedAddress,
		Center:           first.Geometry.Location,
	}, nil
}

// Nearby returns the first result page of a category search around center.
// ZERO_RESULTS is an empty slice, not an error.
func (c *Client) Nearby(ctx context.Context, center geo.Point, radiusMeters int, category string) ([]place.Record, error) {
	params := url.Values{
		"location": []string{center.String()},
		"radius":   []string{strconv.Itoa(radiusMeters)},
	}
	if category != "" {
		params.Set("type", category)
	}

	var resp nearbyResponse
	if err := c.get(ctx, endpointNearby, c.nearbyURL, params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK:
		return resp.Results, nil
	case statusZeroResults:
		return []place.Record{}, nil
	default:
		c.countError(endpointNearby, "status")
		return nil, domain.NewProviderStatusError(endpointNearby, resp.Status, resp.ErrorMessage)
	}
}

// HealthCheck reports whether the provider is usable. The Google APIs have no
// free liveness endpoint, so only the credentials are checked.
func (c *Client) HealthCheck(_ context.Context) error {
	if c.apiKey == "" {
		return errors.New("places api key is not configured")
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint, base string, params url.Values, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%s: api key is not configured: %w", endpoint, domain.ErrRequestDenied)
	}
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}

	domain.ProviderUsageFromContext(ctx).AddCall()
	start := time.Now()

	resp, err := c.httpClient.Do(req)

	duration := time.Since(start)
	metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		c.countError(endpoint, "transport")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s request: %w", endpoint, ctxErr)
		}
		return fmt.Errorf("%s request: %w: %w", endpoint, domain.ErrProviderError, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "http_"+strconv.Itoa(resp.StatusCode)).Inc()
		c.countError(endpoint, "http_status")
		kind := domain.ErrProviderError
		if resp.StatusCode == http.StatusTooManyRequests {
			kind = domain.ErrQuotaExceeded
		}
		return fmt.Errorf("%s returned http %d: %w", endpoint, resp.StatusCode, kind)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "read_error").Inc()
		c.countError(endpoint, "read")
		return fmt.Errorf("read %s response: %w: %w", endpoint, domain.ErrProviderError, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "decode_error").Inc()
		c.countError(endpoint, "decode")
		return fmt.Errorf("decode %s response: %w: %w", endpoint, domain.ErrProviderError, err)
	}

	status := statusOf(out)
	metrics.ProviderRequestsTotal.WithLabelValues(endpoint, status).Inc()
	logger.FromContext(ctx).Debug("places provider call",
		zap.String("endpoint", endpoint),
		zap.String("status", status),
		zap.Duration("duration", duration),
	)
	return nil
}

func (c *Client) countError(endpoint, errorType string) {
	metrics.ProviderErrorsTotal.WithLabelValues(endpoint, errorType).Inc()
	if errorType != "status" {
		c.logger.Warn("places provider error",
			zap.String("endpoint", endpoint), zap.String("error_type", errorType))
	}
}

func statusOf(out any) string {
	switch v := out.(type) {
	case *geocodeResponse:
		return v.Status
	case *nearbyResponse:
		return v.Status
	default:
		return "unknown"
	}
}
