package training

import (
	"fmt"
	"sync"
)

// Error enumerates the terminal outcomes a routed query can surface to its
// caller. Every rejection path in the admission pipeline maps to exactly one
// value; no transport or storage error leaks past this boundary.
type Error uint8

const (
	ErrFailedToParseQuery Error = iota + 1
	ErrPolicyNotPresent
	ErrClientNotSupported
	ErrConfigValidationFailed
	ErrBindingToClientFailed
	ErrDelegationToClientFailed
)

func (e Error) String() string {
	switch e {
	case ErrFailedToParseQuery:
		return "failed_to_parse_query"
	case ErrPolicyNotPresent:
		return "policy_not_present"
	case ErrClientNotSupported:
		return "client_not_supported"
	case ErrConfigValidationFailed:
		return "config_validation_failed"
	case ErrBindingToClientFailed:
		return "binding_to_client_failed"
	case ErrDelegationToClientFailed:
		return "delegation_to_client_failed"
	default:
		return "unknown"
	}
}

// Failure carries a terminal outcome across error-returning boundaries, such
// as the HTTP adapter. The router itself reports outcomes through Callback.
type Failure struct {
	Code    Error
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Callback receives the outcome of a routed query. Exactly one of OnSuccess
// or OnFailure is invoked, exactly once, per query.
type Callback interface {
	OnSuccess()
	OnFailure(code Error, message string)
}

type onceCallback struct {
	once sync.Once
	cb   Callback
}

// Once wraps cb so that only the first completion is delivered. The router
// uses it to keep the exactly-once contract even if a failure races a
// late backend completion.
func Once(cb Callback) Callback {
	return &onceCallback{cb: cb}
}

func (oc *onceCallback) OnSuccess() {
	oc.once.Do(oc.cb.OnSuccess)
}

func (oc *onceCallback) OnFailure(code Error, message string) {
	oc.once.Do(func() {
		oc.cb.OnFailure(code, message)
	})
}
