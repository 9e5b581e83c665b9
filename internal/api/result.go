package api

import "time"

// Result is the outcome of a call the service answered.
type Result[T any] struct {
	Kind   Kind
	Status int
	Value  T

	Endpoint  string
	RequestID string
	Elapsed   time.Duration
}

// OK reports whether the service accepted the call.
func (r Result[T]) OK() bool {
	return r.Kind == KindSuccess
}

// Err returns nil on success and the matching *DomainError otherwise.
func (r Result[T]) Err() error {
	if r.Kind == KindSuccess {
		return nil
	}
	return &DomainError{Kind: r.Kind, Status: r.Status, Endpoint: r.Endpoint}
}

// Get returns the value, or the domain error when the call was refused.
func (r Result[T]) Get() (T, error) {
	if err := r.Err(); err != nil {
		var zero T
		return zero, err
	}
	return r.Value, nil
}
