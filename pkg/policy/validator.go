package policy

import (
	"log/slog"
	"strconv"

	"github.com/fedstore/fedroute/pkg/training"
)

// MinSecAggRoundSize extracts the secure-aggregation round size rule from an
// installed policy. The boolean is false when the federatedCompute namespace
// or the rule itself is missing. A value that does not parse as a
// non-negative integer is treated as 0, i.e. secure aggregation disabled.
func MinSecAggRoundSize(p Policy) (int, bool) {
	fc, ok := p.Configs[NamespaceFederatedCompute]
	if !ok {
		return 0, false
	}
	raw, ok := fc[KeyMinSecAggRoundSize]
	if !ok {
		return 0, false
	}

	size, err := strconv.Atoi(raw)
	if err != nil || size < 0 {
		return 0, true
	}

	return size, true
}

// ValidateConfigs checks that the caller-declared computation properties are
// consistent with the installed policy and the query's population. It is
// pure apart from logging the reason for a false result.
func ValidateConfigs(p Policy, population string, v training.Variant, logger *slog.Logger) bool {
	size, ok := MinSecAggRoundSize(p)
	if !ok {
		logger.Warn("Policy provided doesn't have federated compute configs",
			slog.String("policy", p.Name))

		return false
	}

	switch props := v.(type) {
	case training.EligibilityEval:
		// Eligibility evaluation never runs under a SecAgg policy.
		if size > 1 {
			logger.Warn("Eligibility evaluation is not allowed to run with a SecAgg policy",
				slog.String("policy", p.Name))

			return false
		}
		if population != props.PopulationName {
			logger.Warn("Population in the query does not match population in the computation properties",
				slog.String("query_population", population),
				slog.String("properties_population", props.PopulationName))

			return false
		}

		return true
	case training.Federated:
		if population != props.PopulationName {
			logger.Warn("Population in the query does not match population in the computation properties",
				slog.String("query_population", population),
				slog.String("properties_population", props.PopulationName))

			return false
		}

		// A round size of 0 or 1 is equivalent to disabling SecAgg.
		if size > 1 {
			if props.SecureAggregation == nil {
				logger.Warn("SecAgg metadata not provided, but SecAgg is required by policy",
					slog.String("policy", p.Name))

				return false
			}
			if props.SecureAggregation.MinimumClients < size {
				logger.Warn("SecAgg round size is less than the round size required by the policy",
					slog.Int("minimum_clients", props.SecureAggregation.MinimumClients),
					slog.Int("required", size))

				return false
			}
		}

		return true
	default:
		logger.Warn("Computation properties do not declare a known variant")

		return false
	}
}
