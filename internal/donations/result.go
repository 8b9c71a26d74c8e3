package donations

import (
	"errors"

	"github.com/ogahribetzz/transparansi/internal/gateway"
)

// Sentinel errors returned by the write operations.
var (
	ErrNotFound          = errors.New("transaction not found")
	ErrUnavailable       = errors.New("spreadsheet unavailable")
	ErrInvalidSubmission = errors.New("invalid submission")
)

// State is where a read ended up.
type State string

const (
	StateSucceeded     State = "SUCCEEDED"
	StateUsingFallback State = "USING_FALLBACK"
)

// Outcome describes how a read resolved. Reason and Err are set only when
// the fallback dataset was served.
type Outcome struct {
	State  State
	Reason gateway.Kind
	Err    error
}

// UsedFallback reports whether the items came from the fallback dataset.
func (o Outcome) UsedFallback() bool {
	return o.State == StateUsingFallback
}

// Result pairs the items a read produced with how they were obtained.
// Items is never nil for slice types.
type Result[T any] struct {
	Items   T
	Outcome Outcome
}

// Scope selects which transactions the spreadsheet returns.
type Scope string

const (
	ScopePublic Scope = "public"
	ScopeAll    Scope = "all"
)

func succeeded() Outcome {
	return Outcome{State: StateSucceeded}
}

func usingFallback(err error) Outcome {
	reason := gateway.KindOf(err)
	if reason == "" {
		reason = gateway.KindShape
	}
	return Outcome{State: StateUsingFallback, Reason: reason, Err: err}
}
