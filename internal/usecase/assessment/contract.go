package assessment

import (
	"context"

	"github.com/kailas-cloud/placeqa/internal/domain/geo"
	"github.com/kailas-cloud/placeqa/internal/domain/place"
)

// Provider resolves locations and lists nearby places.
type Provider interface {
	Geocode(ctx context.Context, query string) (geo.Geocoded, error)
	Nearby(ctx context.Context, center geo.Point, radiusMeters int, category string) ([]place.Record, error)
}
