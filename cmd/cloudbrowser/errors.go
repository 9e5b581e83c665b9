package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/cloudbrowser/internal/api"
	"github.com/GriffinCanCode/cloudbrowser/internal/transport"
)

// describe turns an error into the line printed on exit.
func describe(err error) string {
	var timeout *transport.TimeoutError
	switch {
	case errors.Is(err, api.ErrAuthorization):
		return "Wrong token"
	case errors.Is(err, api.ErrNoSubscription):
		return "No subscription"
	case errors.Is(err, api.ErrNoUnits):
		return "Not enough units"
	case errors.Is(err, api.ErrBrowserLimit):
		return "Too many browsers open"
	case errors.Is(err, api.ErrUnknown):
		return "Unknown error: " + err.Error()
	case errors.As(err, &timeout):
		return fmt.Sprintf("Timed out after %s", timeout.Elapsed.Round(time.Millisecond))
	default:
		return "Error: " + err.Error()
	}
}
