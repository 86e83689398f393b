package api

import (
	"context"
	"errors"

	apiutil "github.com/absmach/supermq/api/http/util"
	pkgerrors "github.com/fedstore/fedroute/pkg/errors"
	"github.com/fedstore/fedroute/pkg/training"
	"github.com/fedstore/fedroute/router"
	"github.com/go-kit/kit/endpoint"
)

// startQueryEndpoint bridges the HTTP request/response shape onto the
// router's callback contract: it submits the query and waits for the single
// terminal callback before answering.
func startQueryEndpoint(svc router.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(startQueryReq)
		if !ok {
			return startQueryResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return startQueryResponse{}, errors.Join(apiutil.ErrValidation, err)
		}
		props, err := req.Properties.toProperties()
		if err != nil {
			return startQueryResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		outcome := make(chan error, 1)
		cb := training.CallbackFunc{
			Success: func() {
				outcome <- nil
			},
			Failure: func(code training.Error, message string) {
				outcome <- &training.Failure{Code: code, Message: message}
			},
		}

		svc.StartQuery(ctx, req.Collection, req.Criteria, req.ResumptionToken, cb, props)

		select {
		case err := <-outcome:
			if err != nil {
				return startQueryResponse{}, err
			}

			return startQueryResponse{Status: "accepted"}, nil
		case <-ctx.Done():
			return startQueryResponse{}, ctx.Err()
		}
	}
}

func listClientsEndpoint(svc router.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		clients, err := svc.ListClients(ctx)
		if err != nil {
			return listClientsResponse{}, err
		}

		return listClientsResponse{Clients: clients}, nil
	}
}

func listPoliciesEndpoint(svc router.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listPoliciesResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return listPoliciesResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		page, err := svc.ListPolicies(ctx, req.offset, req.limit)
		if err != nil {
			return listPoliciesResponse{}, err
		}

		return listPoliciesResponse{Page: page}, nil
	}
}

func listUsageEndpoint(svc router.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listUsageResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return listUsageResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		page, err := svc.ListUsage(ctx, req.offset, req.limit)
		if err != nil {
			return listUsageResponse{}, err
		}

		return listUsageResponse{Page: page}, nil
	}
}
