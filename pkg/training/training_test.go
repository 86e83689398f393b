package training_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fedstore/fedroute/pkg/training"
	"github.com/stretchr/testify/assert"
)

func TestOnceDeliversFirstOutcomeOnly(t *testing.T) {
	var successes, failures atomic.Int64
	cb := training.Once(training.CallbackFunc{
		Success: func() { successes.Add(1) },
		Failure: func(training.Error, string) { failures.Add(1) },
	})

	cb.OnSuccess()
	cb.OnSuccess()
	cb.OnFailure(training.ErrBindingToClientFailed, "late failure")

	assert.Equal(t, int64(1), successes.Load())
	assert.Equal(t, int64(0), failures.Load())
}

func TestOnceFailureSuppressesLaterSuccess(t *testing.T) {
	var successes, failures atomic.Int64
	cb := training.Once(training.CallbackFunc{
		Success: func() { successes.Add(1) },
		Failure: func(training.Error, string) { failures.Add(1) },
	})

	cb.OnFailure(training.ErrPolicyNotPresent, "missing policy")
	cb.OnSuccess()

	assert.Equal(t, int64(0), successes.Load())
	assert.Equal(t, int64(1), failures.Load())
}

func TestOnceConcurrent(t *testing.T) {
	var calls atomic.Int64
	cb := training.Once(training.CallbackFunc{
		Success: func() { calls.Add(1) },
		Failure: func(training.Error, string) { calls.Add(1) },
	})

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				cb.OnSuccess()
			} else {
				cb.OnFailure(training.ErrDelegationToClientFailed, "race")
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
}

func TestErrorString(t *testing.T) {
	cases := []struct {
		desc string
		code training.Error
		want string
	}{
		{desc: "parse", code: training.ErrFailedToParseQuery, want: "failed_to_parse_query"},
		{desc: "policy", code: training.ErrPolicyNotPresent, want: "policy_not_present"},
		{desc: "client", code: training.ErrClientNotSupported, want: "client_not_supported"},
		{desc: "config", code: training.ErrConfigValidationFailed, want: "config_validation_failed"},
		{desc: "binding", code: training.ErrBindingToClientFailed, want: "binding_to_client_failed"},
		{desc: "delegation", code: training.ErrDelegationToClientFailed, want: "delegation_to_client_failed"},
		{desc: "zero value", code: training.Error(0), want: "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.code.String())
		})
	}
}

func TestFailureError(t *testing.T) {
	f := &training.Failure{Code: training.ErrClientNotSupported, Message: "no such client"}
	assert.Equal(t, "client_not_supported: no such client", f.Error())
}
