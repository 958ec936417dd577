package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AggregateError carries every error collected during a pass that keeps going after
// the first failure, such as post validation.
type AggregateError struct {
	errs []error
}

// Aggregate folds errs into a single error.
// It returns nil when errs holds no non-nil error and the error itself when exactly one remains.
func Aggregate(errs []error) error {
	kept := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &AggregateError{errs: kept}
	}
}

// Error lists every member, one per line after a summary line.
func (e *AggregateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:", len(e.errs))
	for _, err := range e.errs {
		b.WriteString("\n  * ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Errors returns the aggregated errors in the order they were reported.
func (e *AggregateError) Errors() []error {
	out := make([]error, len(e.errs))
	copy(out, e.errs)
	return out
}

// Unwrap exposes the members to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.errs
}

// AsAggregate returns the AggregateError in err's chain, if any.
func AsAggregate(err error) (*AggregateError, bool) {
	var agg *AggregateError
	if stderrors.As(err, &agg) {
		return agg, true
	}
	return nil, false
}

// Flatten returns the individual errors behind err: the members of an aggregate, or err itself.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if agg, ok := AsAggregate(err); ok {
		return agg.Errors()
	}
	return []error{err}
}
