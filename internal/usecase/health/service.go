package health

import (
	"context"
	"time"
)

// Status is the aggregated health status.
type Status string

const (
	// Healthy means every dependency answered.
	Healthy Status = "ok"
	// Degraded means requests are served, but from a fallback or without cache.
	Degraded Status = "degraded"
	// Unhealthy means the product source is down and nothing replaces it.
	Unhealthy Status = "error"
)

// CheckResult is one dependency's outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names used in Report.Checks.
const (
	ComponentSource = "source"
	ComponentCache  = "cache"
)

const checkTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service checks the product source and the cache store.
type Service struct {
	source   Pinger
	cache    Pinger
	fallback bool
}

// New creates a Service. cache may be nil. fallback tells whether the
// sample catalog is served when the source is down.
func New(source, cache Pinger, fallback bool) *Service {
	return &Service{source: source, cache: cache, fallback: fallback}
}

// Check pings every dependency.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		ComponentSource: ping(ctx, s.source),
	}
	if s.cache != nil {
		checks[ComponentCache] = ping(ctx, s.cache)
	}

	status := Healthy
	if checks[ComponentSource] == CheckError {
		status = Degraded
		if !s.fallback {
			status = Unhealthy
		}
	} else if checks[ComponentCache] == CheckError {
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
