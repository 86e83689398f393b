package middleware

import (
	"context"
	"time"

	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/fedstore/fedroute/pkg/policy"
	"github.com/fedstore/fedroute/pkg/training"
	"github.com/fedstore/fedroute/pkg/usagelog"
	"github.com/fedstore/fedroute/router"
	"github.com/go-kit/kit/metrics"
)

var _ router.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     router.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc router.Service) router.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

// StartQuery measures latency to the terminal callback, not to the return of
// the synchronous admission steps.
func (mm *metricsMiddleware) StartQuery(ctx context.Context, collection string, criteria, resumptionToken []byte, cb training.Callback, props training.Properties) {
	begin := time.Now()
	wrapped := training.CallbackFunc{
		Success: func() {
			mm.counter.With("method", "start-query").Add(1)
			mm.latency.With("method", "start-query").Observe(time.Since(begin).Seconds())
			cb.OnSuccess()
		},
		Failure: func(code training.Error, message string) {
			mm.counter.With("method", "start-query-"+code.String()).Add(1)
			mm.latency.With("method", "start-query").Observe(time.Since(begin).Seconds())
			cb.OnFailure(code, message)
		},
	}

	mm.svc.StartQuery(ctx, collection, criteria, resumptionToken, wrapped, props)
}

func (mm *metricsMiddleware) ListClients(ctx context.Context) ([]connection.Client, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-clients").Add(1)
		mm.latency.With("method", "list-clients").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListClients(ctx)
}

func (mm *metricsMiddleware) ListPolicies(ctx context.Context, offset, limit uint64) (policy.Page, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-policies").Add(1)
		mm.latency.With("method", "list-policies").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListPolicies(ctx, offset, limit)
}

func (mm *metricsMiddleware) ListUsage(ctx context.Context, offset, limit uint64) (usagelog.Page, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list-usage").Add(1)
		mm.latency.With("method", "list-usage").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListUsage(ctx, offset, limit)
}

func (mm *metricsMiddleware) Shutdown(ctx context.Context) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "shutdown").Add(1)
		mm.latency.With("method", "shutdown").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Shutdown(ctx)
}
