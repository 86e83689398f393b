package usagelog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

// Kind classifies the connection a usage-log row describes.
type Kind string

// KindTrainingStartQuery marks rows written when a training query is
// admitted and handed to a backend client.
const KindTrainingStartQuery Kind = "fc_training_start_query"

// Entry is one audit row. The outcome and upload size of the computation are
// reported in separate rows once the backend uploads its result.
type Entry struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	FeatureName    string    `json:"feature_name"`
	ClientName     string    `json:"client_name"`
	PopulationName string    `json:"population_name"`
	PolicyName     string    `json:"policy_name"`
	RunID          int64     `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Page is one page of usage-log rows.
type Page struct {
	Offset  uint64  `json:"offset"`
	Limit   uint64  `json:"limit"`
	Total   uint64  `json:"total"`
	Entries []Entry `json:"entries"`
}

// Repository is the usage gate and audit sink. IsKnown and ShouldReject
// classify queries against the feature registry; Save records a row for an
// admitted query and is best-effort, a failed write never affects the query.
type Repository interface {
	IsKnown(kind Kind, featureName string) bool
	ShouldReject(kind Kind, featureName string) bool
	Enabled() bool
	Save(ctx context.Context, entry Entry) error
	List(ctx context.Context, offset, limit uint64) (Page, error)
}

// Feature is one recognized (kind, feature) pair.
type Feature struct {
	Kind Kind   `toml:"kind"`
	Name string `toml:"name"`
}

// Registry is the set of recognized features plus the admission policy for
// unrecognized ones.
type Registry struct {
	rejectUnknown bool
	known         map[string]struct{}
}

func NewRegistry(rejectUnknown bool, features ...Feature) Registry {
	known := make(map[string]struct{}, len(features))
	for _, f := range features {
		known[featureKey(f.Kind, f.Name)] = struct{}{}
	}

	return Registry{rejectUnknown: rejectUnknown, known: known}
}

func (r Registry) IsKnown(kind Kind, featureName string) bool {
	_, ok := r.known[featureKey(kind, featureName)]

	return ok
}

func (r Registry) ShouldReject(kind Kind, featureName string) bool {
	return r.rejectUnknown && !r.IsKnown(kind, featureName)
}

func featureKey(kind Kind, featureName string) string {
	return string(kind) + "/" + featureName
}

type registryFile struct {
	RejectUnknown bool      `toml:"reject_unknown"`
	Features      []Feature `toml:"features"`
}

// LoadRegistry reads the feature registry from a TOML file.
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, fmt.Errorf("error reading registry file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return Registry{}, fmt.Errorf("error parsing registry file: %w", err)
	}

	var f registryFile
	if err := tree.Unmarshal(&f); err != nil {
		return Registry{}, fmt.Errorf("error unmarshaling registry file: %w", err)
	}

	return NewRegistry(f.RejectUnknown, f.Features...), nil
}
