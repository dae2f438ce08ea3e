package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache    CachePinger
	provider ProviderChecker
}

// New creates a Service. cache is nil when caching is disabled.
func New(cache CachePinger, provider ProviderChecker) *Service {
	return &Service{cache: cache, provider: provider}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	if err := s.provider.HealthCheck(ctx); err != nil {
		checks["provider"] = CheckError
	} else {
		checks["provider"] = CheckOK
	}

	// Assessments still work without the cache; without a provider only
	// offline analysis does.
	status := Healthy
	switch {
	case checks["provider"] == CheckError && checks["cache"] == CheckError:
		status = Unhealthy
	case checks["provider"] == CheckError || checks["cache"] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
