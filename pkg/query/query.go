package query

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fedstore/fedroute/pkg/policy"
)

// KindQuery is the envelope kind the router accepts.
const KindQuery = "fedroute.query.v1"

var (
	ErrUnexpectedKind = errors.New("unexpected envelope kind")
	ErrEmptyPayload   = errors.New("empty envelope payload")
)

// Query is the structured part of a routed request. It is immutable once
// parsed; the raw criteria bytes travel alongside it untouched so the backend
// receives exactly what the platform delivered.
type Query struct {
	ClientName     string         `json:"client_name"`
	FeatureName    string         `json:"feature_name"`
	PopulationName string         `json:"population_name"`
	Policy         *policy.Policy `json:"policy,omitempty"`

	// AllowAttestation and ContextData mirror the trainer options the
	// scheduler attached when the computation was registered.
	AllowAttestation bool   `json:"allow_attestation,omitempty"`
	ContextData      []byte `json:"context_data,omitempty"`
}

// envelope is the outer wrapper: a kind tag plus an opaque nested payload.
type envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Parse decodes the criteria bytes into a Query. The criteria must carry the
// nested envelope: an outer kind-tagged wrapper whose payload decodes as the
// query itself.
func Parse(criteria []byte) (Query, error) {
	var env envelope
	if err := json.Unmarshal(criteria, &env); err != nil {
		return Query{}, fmt.Errorf("error decoding envelope: %w", err)
	}
	if env.Kind != KindQuery {
		return Query{}, fmt.Errorf("%w: %q", ErrUnexpectedKind, env.Kind)
	}
	if len(env.Payload) == 0 {
		return Query{}, ErrEmptyPayload
	}

	var q Query
	if err := json.Unmarshal(env.Payload, &q); err != nil {
		return Query{}, fmt.Errorf("error decoding query: %w", err)
	}

	return q, nil
}

// Wrap encodes a query into the envelope form Parse accepts. It exists for
// clients and tests that construct criteria payloads.
func Wrap(q Query) ([]byte, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{Kind: KindQuery, Payload: payload})
}
