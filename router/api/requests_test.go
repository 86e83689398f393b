package api

import (
	"encoding/json"
	"math"
	"testing"

	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/fedstore/fedroute/pkg/api"
	"github.com/fedstore/fedroute/pkg/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesReqToProperties(t *testing.T) {
	cases := []struct {
		desc string
		body string
		want training.Properties
		err  error
	}{
		{
			desc: "eligibility eval",
			body: `{"run_id": 3, "eligibility_eval": {"population_name": "pop"}}`,
			want: training.Properties{
				RunID:   3,
				Variant: training.EligibilityEval{PopulationName: "pop"},
			},
		},
		{
			desc: "federated without secure aggregation",
			body: `{"run_id": 4, "federated": {"population_name": "pop"}}`,
			want: training.Properties{
				RunID:   4,
				Variant: training.Federated{PopulationName: "pop"},
			},
		},
		{
			desc: "federated with secure aggregation",
			body: `{"run_id": 5, "federated": {"population_name": "pop", "secure_aggregation": {"minimum_clients": 3}}}`,
			want: training.Properties{
				RunID: 5,
				Variant: training.Federated{
					PopulationName:    "pop",
					SecureAggregation: &training.SecureAggregation{MinimumClients: 3},
				},
			},
		},
		{
			desc: "both variants set",
			body: `{"eligibility_eval": {"population_name": "pop"}, "federated": {"population_name": "pop"}}`,
			err:  errAmbiguousProperties,
		},
		{
			desc: "no variant set",
			body: `{"run_id": 1}`,
			err:  errAmbiguousProperties,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			var req propertiesReq
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))

			got, err := req.toProperties()
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStartQueryReqValidate(t *testing.T) {
	valid := startQueryReq{
		Collection: "examples",
		Criteria:   []byte(`{}`),
	}
	assert.NoError(t, valid.validate())

	missingCollection := startQueryReq{Criteria: []byte(`{}`)}
	assert.Error(t, missingCollection.validate())

	missingCriteria := startQueryReq{Collection: "examples"}
	assert.Error(t, missingCriteria.validate())
}

func TestListEntityReqValidate(t *testing.T) {
	within := listEntityReq{offset: 0, limit: api.MaxLimitSize}
	assert.NoError(t, within.validate())

	over := listEntityReq{offset: 0, limit: api.MaxLimitSize + 1}
	assert.ErrorIs(t, over.validate(), apiutil.ErrLimitSize)

	huge := listEntityReq{offset: math.MaxUint64, limit: math.MaxUint64}
	assert.ErrorIs(t, huge.validate(), apiutil.ErrLimitSize)
}
