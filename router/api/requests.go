package api

import (
	"errors"

	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/fedstore/fedroute/pkg/api"
	"github.com/fedstore/fedroute/pkg/training"
)

var errAmbiguousProperties = errors.New("exactly one of eligibility_eval or federated must be set")

type secureAggregationReq struct {
	MinimumClients int `json:"minimum_clients"`
}

type eligibilityEvalReq struct {
	PopulationName string `json:"population_name"`
}

type federatedReq struct {
	PopulationName    string                `json:"population_name"`
	SecureAggregation *secureAggregationReq `json:"secure_aggregation,omitempty"`
}

// propertiesReq is the wire form of the computation-properties sum type.
// Exactly one variant field must be present.
type propertiesReq struct {
	RunID           int64               `json:"run_id"`
	EligibilityEval *eligibilityEvalReq `json:"eligibility_eval,omitempty"`
	Federated       *federatedReq       `json:"federated,omitempty"`
}

func (p propertiesReq) toProperties() (training.Properties, error) {
	switch {
	case p.EligibilityEval != nil && p.Federated == nil:
		return training.Properties{
			RunID:   p.RunID,
			Variant: training.EligibilityEval{PopulationName: p.EligibilityEval.PopulationName},
		}, nil
	case p.Federated != nil && p.EligibilityEval == nil:
		f := training.Federated{PopulationName: p.Federated.PopulationName}
		if p.Federated.SecureAggregation != nil {
			f.SecureAggregation = &training.SecureAggregation{
				MinimumClients: p.Federated.SecureAggregation.MinimumClients,
			}
		}

		return training.Properties{RunID: p.RunID, Variant: f}, nil
	default:
		return training.Properties{}, errAmbiguousProperties
	}
}

type startQueryReq struct {
	Collection      string        `json:"collection"`
	Criteria        []byte        `json:"criteria"`
	ResumptionToken []byte        `json:"resumption_token,omitempty"`
	Properties      propertiesReq `json:"properties"`
}

func (r *startQueryReq) validate() error {
	if r.Collection == "" {
		return apiutil.ErrMissingName
	}
	if len(r.Criteria) == 0 {
		return apiutil.ErrEmptyList
	}

	return nil
}

type listEntityReq struct {
	offset, limit uint64
}

func (e *listEntityReq) validate() error {
	if e.limit > api.MaxLimitSize {
		return apiutil.ErrLimitSize
	}

	return nil
}
