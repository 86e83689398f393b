package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/absmach/supermq"
	pkgerrors "github.com/fedstore/fedroute/pkg/errors"
	"github.com/fedstore/fedroute/pkg/training"
)

const (
	OffsetKey    = "offset"
	LimitKey     = "limit"
	DefOffset    = 0
	DefLimit     = 100
	MaxLimitSize = 100

	ContentType = "application/json"
)

func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(supermq.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)

	var failure *training.Failure
	switch {
	case errors.As(err, &failure):
		w.WriteHeader(statusOf(failure.Code))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    failure.Code.String(),
			"message": failure.Message,
		})

		return
	case errors.Is(err, pkgerrors.ErrEmptyKey), errors.Is(err, pkgerrors.ErrInvalidData):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, pkgerrors.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if err := json.NewEncoder(w).Encode(err); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func statusOf(code training.Error) int {
	switch code {
	case training.ErrFailedToParseQuery, training.ErrConfigValidationFailed:
		return http.StatusBadRequest
	case training.ErrPolicyNotPresent, training.ErrClientNotSupported:
		return http.StatusNotFound
	case training.ErrBindingToClientFailed, training.ErrDelegationToClientFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
