package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/fedstore/fedroute/pkg/connection"
	"github.com/fedstore/fedroute/pkg/policy"
	"github.com/fedstore/fedroute/pkg/training"
	"github.com/fedstore/fedroute/pkg/usagelog"
	"github.com/fedstore/fedroute/router"
)

var _ router.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    router.Service
}

func Logging(logger *slog.Logger, svc router.Service) router.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

// StartQuery logs the terminal outcome rather than the synchronous return:
// the query completes through the callback, so the callback is wrapped.
func (lm *loggingMiddleware) StartQuery(ctx context.Context, collection string, criteria, resumptionToken []byte, cb training.Callback, props training.Properties) {
	begin := time.Now()
	wrapped := training.CallbackFunc{
		Success: func() {
			lm.logger.Info("Start query completed successfully",
				slog.String("duration", time.Since(begin).String()),
				slog.String("collection", collection),
			)
			cb.OnSuccess()
		},
		Failure: func(code training.Error, message string) {
			lm.logger.Warn("Start query failed",
				slog.String("duration", time.Since(begin).String()),
				slog.String("collection", collection),
				slog.String("code", code.String()),
				slog.String("message", message),
			)
			cb.OnFailure(code, message)
		},
	}

	lm.svc.StartQuery(ctx, collection, criteria, resumptionToken, wrapped, props)
}

func (lm *loggingMiddleware) ListClients(ctx context.Context) (resp []connection.Client, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List clients failed", args...)

			return
		}
		lm.logger.Info("List clients completed successfully", args...)
	}(time.Now())

	return lm.svc.ListClients(ctx)
}

func (lm *loggingMiddleware) ListPolicies(ctx context.Context, offset, limit uint64) (resp policy.Page, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List policies failed", args...)

			return
		}
		lm.logger.Info("List policies completed successfully", args...)
	}(time.Now())

	return lm.svc.ListPolicies(ctx, offset, limit)
}

func (lm *loggingMiddleware) ListUsage(ctx context.Context, offset, limit uint64) (resp usagelog.Page, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List usage failed", args...)

			return
		}
		lm.logger.Info("List usage completed successfully", args...)
	}(time.Now())

	return lm.svc.ListUsage(ctx, offset, limit)
}

func (lm *loggingMiddleware) Shutdown(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Shutdown failed", args...)

			return
		}
		lm.logger.Info("Shutdown completed successfully", args...)
	}(time.Now())

	return lm.svc.Shutdown(ctx)
}
