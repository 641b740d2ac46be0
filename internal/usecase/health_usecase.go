package usecase

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusDown     = "unhealthy"
)

// Probe checks one dependency. Critical probes turn the service unhealthy
// when they fail; others only degrade it.
type Probe struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

type HealthReport struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthReport
}

type healthUsecase struct {
	service string
	version string
	timeout time.Duration
	probes  []Probe
}

func NewHealthUsecase(service, version string, timeout time.Duration, probes ...Probe) HealthUsecase {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &healthUsecase{service: service, version: version, timeout: timeout, probes: probes}
}

// Check runs every probe concurrently, each bounded by the configured timeout.
func (u *healthUsecase) Check(ctx context.Context) HealthReport {
	results := make([]error, len(u.probes))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range u.probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, u.timeout)
			defer cancel()
			results[i] = p.Check(pctx)
			// Failures are recorded per probe; the group is never canceled.
			return nil
		})
	}
	_ = g.Wait()

	report := HealthReport{
		Status:    StatusHealthy,
		Service:   u.service,
		Version:   u.version,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]string, len(u.probes)),
	}
	for i, p := range u.probes {
		if results[i] == nil {
			report.Checks[p.Name] = "ok"
			continue
		}
		report.Checks[p.Name] = "error"
		switch {
		case p.Critical:
			report.Status = StatusDown
		case report.Status == StatusHealthy:
			report.Status = StatusDegraded
		}
	}
	return report
}
