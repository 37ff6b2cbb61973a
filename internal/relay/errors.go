package relay

import (
	"errors"
	"fmt"
)

// RouteErrorKind classifies routing failures. InvalidOperation and
// NotImplemented are deliberately distinct: the first is a caller mistake,
// the second a recognized operation this bridge does not forward.
type RouteErrorKind string

const (
	KindInvalidOperation RouteErrorKind = "invalid_operation"
	KindNotImplemented   RouteErrorKind = "not_implemented"
	KindUnreachable      RouteErrorKind = "unreachable"
)

// RouteError is the normalized routing failure.
type RouteError struct {
	Kind      RouteErrorKind
	Operation Operation
	Err       error
}

func (e *RouteError) Error() string {
	switch e.Kind {
	case KindInvalidOperation:
		return fmt.Sprintf("Invalid operation type: %s", e.Operation)
	case KindNotImplemented:
		return fmt.Sprintf("Operation %q is not implemented", e.Operation)
	default:
		if e.Err != nil {
			return fmt.Sprintf("upstream unreachable: %v", e.Err)
		}
		return "upstream unreachable"
	}
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

// AsRouteError extracts a RouteError from an error chain.
func AsRouteError(err error) (*RouteError, bool) {
	var re *RouteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
