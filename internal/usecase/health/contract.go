package health

import "context"

// CachePinger checks provider cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks places provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
