package router

import (
	"context"

	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/fedstore/fedroute/pkg/policy"
	"github.com/fedstore/fedroute/pkg/training"
	"github.com/fedstore/fedroute/pkg/usagelog"
)

// Service admits training queries on behalf of the shared platform endpoint
// and dispatches them to the backend client named in the query.
type Service interface {
	// StartQuery runs the admission pipeline for one query and hands the raw
	// payload to the backend client. Every outcome is delivered through cb:
	// OnSuccess once the backend accepts the query, or OnFailure with a
	// training error code. Exactly one of the two is invoked, exactly once;
	// StartQuery itself never blocks on the backend.
	StartQuery(ctx context.Context, collection string, criteria, resumptionToken []byte, cb training.Callback, props training.Properties)

	// ListClients returns the routing table.
	ListClients(ctx context.Context) ([]connection.Client, error)

	// ListPolicies pages the installed policy index.
	ListPolicies(ctx context.Context, offset, limit uint64) (policy.Page, error)

	// ListUsage pages the usage log.
	ListUsage(ctx context.Context, offset, limit uint64) (usagelog.Page, error)

	// Shutdown releases every cached backend connection. Idempotent.
	Shutdown(ctx context.Context) error
}
