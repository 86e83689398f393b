package router

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/fedstore/fedroute/pkg/policy"
	"github.com/fedstore/fedroute/pkg/query"
	"github.com/fedstore/fedroute/pkg/training"
	"github.com/fedstore/fedroute/pkg/usagelog"
	"github.com/google/uuid"
)

type service struct {
	policies *policy.Index
	broker   connection.Broker
	usage    usagelog.Repository
	logger   *slog.Logger
}

func NewService(policies *policy.Index, broker connection.Broker, usage usagelog.Repository, logger *slog.Logger) Service {
	return &service{
		policies: policies,
		broker:   broker,
		usage:    usage,
		logger:   logger,
	}
}

func (svc *service) StartQuery(ctx context.Context, collection string, criteria, resumptionToken []byte, cb training.Callback, props training.Properties) {
	cb = training.Once(cb)

	q, err := query.Parse(criteria)
	if err != nil {
		svc.logger.Warn("Couldn't parse criteria", slog.Any("error", err))
		cb.OnFailure(training.ErrFailedToParseQuery, "Failed to parse query.")

		return
	}

	if q.Policy == nil {
		svc.logger.Warn("No policy provided in the query",
			slog.String("client", q.ClientName))
		cb.OnFailure(training.ErrPolicyNotPresent, "Query does not specify a policy.")

		return
	}

	installed, ok := policy.FindCompatible(*q.Policy, svc.policies)
	if !ok {
		cb.OnFailure(training.ErrPolicyNotPresent,
			"Query specified policy is not installed, or the installed version is incompatible.")

		return
	}

	if !svc.broker.IsSupported(q.ClientName) {
		cb.OnFailure(training.ErrClientNotSupported, "Incorrect client name provided in the query.")

		return
	}

	if !policy.ValidateConfigs(installed, q.PopulationName, props.Variant, svc.logger) {
		cb.OnFailure(training.ErrConfigValidationFailed,
			"Training configs don't match federation configs defined in the policy.")

		return
	}

	if !svc.usage.IsKnown(usagelog.KindTrainingStartQuery, q.FeatureName) {
		svc.logger.Info("Usage log unrecognized training request",
			slog.String("feature", q.FeatureName))
	}
	if svc.usage.ShouldReject(usagelog.KindTrainingStartQuery, q.FeatureName) {
		svc.logger.Warn("Rejected unknown training request",
			slog.String("feature", q.FeatureName))
		cb.OnFailure(training.ErrClientNotSupported,
			fmt.Sprintf("Unknown request for feature %s", q.FeatureName))

		return
	}

	// The usage-log write is issued before the connect attempt begins;
	// completion order between the two is deliberately unspecified.
	go func() {
		svc.recordUsage(context.WithoutCancel(ctx), q, installed, props.RunID)
		svc.connectAndStartQuery(ctx, collection, criteria, resumptionToken, cb, q)
	}()
}

func (svc *service) recordUsage(ctx context.Context, q query.Query, installed policy.Policy, runID int64) {
	if !svc.usage.Enabled() {
		return
	}

	entry := usagelog.Entry{
		ID:             uuid.NewString(),
		Kind:           usagelog.KindTrainingStartQuery,
		FeatureName:    q.FeatureName,
		ClientName:     q.ClientName,
		PopulationName: q.PopulationName,
		PolicyName:     installed.Name,
		RunID:          runID,
		CreatedAt:      time.Now().UTC(),
	}

	go func() {
		if err := svc.usage.Save(ctx, entry); err != nil {
			svc.logger.Warn("Failed to save usage log entry",
				slog.String("feature", entry.FeatureName), slog.Any("error", err))
		}
	}()
}

func (svc *service) connectAndStartQuery(ctx context.Context, collection string, criteria, resumptionToken []byte, cb training.Callback, q query.Query) {
	conn, err := svc.broker.Acquire(ctx, q.ClientName)
	if err != nil {
		svc.logger.Warn("Failed to bind to client",
			slog.String("client", q.ClientName), slog.Any("error", err))
		cb.OnFailure(training.ErrBindingToClientFailed, "Failed to bind to client.")

		return
	}

	if err := conn.StartQuery(ctx, collection, criteria, resumptionToken); err != nil {
		// The handle may have gone bad between acquisition and use; drop it
		// so the next query starts from a clean state.
		svc.broker.Invalidate(ctx, q.ClientName)
		svc.logger.Warn("Failed to delegate start query",
			slog.String("client", q.ClientName), slog.Any("error", err))
		cb.OnFailure(training.ErrDelegationToClientFailed, "Failed to delegate start query.")

		return
	}

	cb.OnSuccess()
}

func (svc *service) ListClients(ctx context.Context) ([]connection.Client, error) {
	return svc.broker.Clients(), nil
}

func (svc *service) ListPolicies(ctx context.Context, offset, limit uint64) (policy.Page, error) {
	return svc.policies.List(offset, limit), nil
}

func (svc *service) ListUsage(ctx context.Context, offset, limit uint64) (usagelog.Page, error) {
	return svc.usage.List(ctx, offset, limit)
}

func (svc *service) Shutdown(ctx context.Context) error {
	return svc.broker.Close(ctx)
}
