package api

import (
	"errors"
	"fmt"
)

// Sentinels matched by *DomainError through errors.Is.
var (
	ErrAuthorization  = errors.New("authorization rejected")
	ErrNoSubscription = errors.New("no active subscription")
	ErrNoUnits        = errors.New("no units left")
	ErrBrowserLimit   = errors.New("browser limit reached")
	ErrUnknown        = errors.New("unknown remote status")
)

// DomainError is a call the service answered with a non-success status.
type DomainError struct {
	Kind     Kind
	Status   int
	Endpoint string
}

func (e *DomainError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("%v (status %d)", e.sentinel(), e.Status)
	}
	return fmt.Sprintf("%s: %v (status %d)", e.Endpoint, e.sentinel(), e.Status)
}

// Is matches the sentinel of the error's Kind.
func (e *DomainError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *DomainError) sentinel() error {
	switch e.Kind {
	case KindAuthorizationError:
		return ErrAuthorization
	case KindNoSubscription:
		return ErrNoSubscription
	case KindNoUnits:
		return ErrNoUnits
	case KindBrowserLimit:
		return ErrBrowserLimit
	default:
		return ErrUnknown
	}
}
