package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/absmach/supermq"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/fedstore/fedroute/pkg/api"
	"github.com/fedstore/fedroute/router"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func MakeHandler(svc router.Service, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Route("/queries", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			startQueryEndpoint(svc),
			decodeStartQueryReq,
			api.EncodeResponse,
			opts...,
		), "start-query").ServeHTTP)
	})

	mux.Get("/clients", otelhttp.NewHandler(kithttp.NewServer(
		listClientsEndpoint(svc),
		decodeNopReq,
		api.EncodeResponse,
		opts...,
	), "list-clients").ServeHTTP)

	mux.Get("/policies", otelhttp.NewHandler(kithttp.NewServer(
		listPoliciesEndpoint(svc),
		decodeListEntityReq,
		api.EncodeResponse,
		opts...,
	), "list-policies").ServeHTTP)

	mux.Get("/usage", otelhttp.NewHandler(kithttp.NewServer(
		listUsageEndpoint(svc),
		decodeListEntityReq,
		api.EncodeResponse,
		opts...,
	), "list-usage").ServeHTTP)

	mux.Get("/health", supermq.Health("router", instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeStartQueryReq(_ context.Context, r *http.Request) (any, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Join(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var req startQueryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Join(err, apiutil.ErrValidation)
	}

	return req, nil
}

func decodeNopReq(_ context.Context, _ *http.Request) (any, error) {
	return nil, nil
}

func decodeListEntityReq(_ context.Context, r *http.Request) (any, error) {
	o, err := apiutil.ReadNumQuery[uint64](r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	l, err := apiutil.ReadNumQuery[uint64](r, api.LimitKey, api.DefLimit)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	return listEntityReq{
		offset: o,
		limit:  l,
	}, nil
}
