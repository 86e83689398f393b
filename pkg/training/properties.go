package training

// Properties is the caller-declared computation context accompanying a query.
// RunID identifies the scheduler run that produced the query and is recorded
// in the usage log for admitted queries.
type Properties struct {
	RunID   int64
	Variant Variant
}

// Variant is a closed sum over the two mutually exclusive computation kinds.
// Exactly one variant is active per query; the compiler enforces the
// exclusivity that the wire format only promises.
type Variant interface {
	isVariant()
}

// EligibilityEval marks a lightweight eligibility-evaluation computation.
// It carries its own population, which must match the query's.
type EligibilityEval struct {
	PopulationName string
}

// Federated marks a full federated computation. SecureAggregation is nil
// when the round runs without secure aggregation.
type Federated struct {
	PopulationName    string
	SecureAggregation *SecureAggregation
}

// SecureAggregation declares the minimum number of clients that must
// contribute before a server-visible aggregate is formed.
type SecureAggregation struct {
	MinimumClients int
}

func (EligibilityEval) isVariant() {}
func (Federated) isVariant()       {}
