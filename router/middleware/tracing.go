package middleware

import (
	"context"

	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/fedstore/fedroute/pkg/policy"
	"github.com/fedstore/fedroute/pkg/training"
	"github.com/fedstore/fedroute/pkg/usagelog"
	"github.com/fedstore/fedroute/router"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ router.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    router.Service
}

func Tracing(tracer trace.Tracer, svc router.Service) router.Service {
	return &tracing{tracer, svc}
}

// StartQuery keeps the span open until the terminal callback fires.
func (tm *tracing) StartQuery(ctx context.Context, collection string, criteria, resumptionToken []byte, cb training.Callback, props training.Properties) {
	ctx, span := tm.tracer.Start(ctx, "start-query", trace.WithAttributes(
		attribute.String("collection", collection),
		attribute.Int64("run_id", props.RunID),
	))

	wrapped := training.CallbackFunc{
		Success: func() {
			span.End()
			cb.OnSuccess()
		},
		Failure: func(code training.Error, message string) {
			span.SetAttributes(attribute.String("error_code", code.String()))
			span.End()
			cb.OnFailure(code, message)
		},
	}

	tm.svc.StartQuery(ctx, collection, criteria, resumptionToken, wrapped, props)
}

func (tm *tracing) ListClients(ctx context.Context) ([]connection.Client, error) {
	ctx, span := tm.tracer.Start(ctx, "list-clients")
	defer span.End()

	return tm.svc.ListClients(ctx)
}

func (tm *tracing) ListPolicies(ctx context.Context, offset, limit uint64) (policy.Page, error) {
	ctx, span := tm.tracer.Start(ctx, "list-policies", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListPolicies(ctx, offset, limit)
}

func (tm *tracing) ListUsage(ctx context.Context, offset, limit uint64) (usagelog.Page, error) {
	ctx, span := tm.tracer.Start(ctx, "list-usage", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListUsage(ctx, offset, limit)
}

func (tm *tracing) Shutdown(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "shutdown")
	defer span.End()

	return tm.svc.Shutdown(ctx)
}
