package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies why a gateway call failed.
type Kind string

const (
	KindNetwork Kind = "network" // unreachable, timed out, non-2xx
	KindParse   Kind = "parse"   // HTML or otherwise non-JSON body
	KindShape   Kind = "shape"   // valid JSON with an unusable payload
	KindRemote  Kind = "remote"  // endpoint answered status "error"
)

// Error is returned by every failed gateway call.
type Error struct {
	Kind   Kind
	Action string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway %s (%s): %v", e.Action, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" if err is not a gateway error.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return ""
}

// ShapeError reports a payload that decoded but cannot be used.
func ShapeError(action string, err error) error {
	return &Error{Kind: KindShape, Action: action, Err: err}
}
