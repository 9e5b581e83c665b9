// Package service is the session facade of the CloudBrowser client.
//
// A Service binds one bearer token and collapses every operation into
// "value or error": a refused call returns the *api.DomainError matching
// the remote status, so callers test it with errors.Is against the api
// sentinels.
//
// Components:
//   - Service: token-bound facade over api.Client
//   - CallOption: per-call timeout and request id
//
// Error Model:
//   - *api.DomainError: the service refused the call
//   - *transport.TimeoutError: the call ran out of time or was cancelled
//   - *transport.TransportError: the service could not be reached or read
//   - *codec.SerializationError, *codec.DeserializationError: payload shape
//
// Example Usage:
//
//	svc := service.New(token, api.New(transport.New(cfg)))
//	opened, err := svc.Open(ctx, &api.BrowserOptions{Headless: api.Bool(true)})
//	if errors.Is(err, api.ErrAuthorization) {
//		// wrong token
//	}
//	defer svc.Close(ctx, opened.Address)
package service
