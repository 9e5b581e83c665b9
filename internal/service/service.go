package service

import (
	"context"
	"time"

	"github.com/GriffinCanCode/cloudbrowser/internal/api"
)

// CallOption customizes one call.
type CallOption = api.CallOption

// WithTimeout bounds the transport of one call.
func WithTimeout(d time.Duration) CallOption {
	return api.WithTimeout(d)
}

// WithRequestID sets the X-Request-Id of one call.
func WithRequestID(id string) CallOption {
	return api.WithRequestID(id)
}

// Service runs operations on behalf of one token.
type Service struct {
	token  string
	client *api.Client
}

// New binds token to client.
func New(token string, client *api.Client) *Service {
	return &Service{token: token, client: client}
}

// Client returns the underlying operation client.
func (s *Service) Client() *api.Client {
	return s.client
}

// Open starts a session with the service defaults when options is nil.
func (s *Service) Open(ctx context.Context, options *api.BrowserOptions, opts ...CallOption) (api.OpenResponse, error) {
	return collapse(s.client.Open(ctx, s.token, options, opts...))
}

// OpenAdvanced starts a session through the advanced endpoint.
func (s *Service) OpenAdvanced(ctx context.Context, options *api.BrowserOptions, opts ...CallOption) (api.OpenResponse, error) {
	return collapse(s.client.OpenAdvanced(ctx, s.token, options, opts...))
}

// Close ends the session at address.
func (s *Service) Close(ctx context.Context, address string, opts ...CallOption) error {
	_, err := collapse(s.client.Close(ctx, s.token, address, opts...))
	return err
}

// Get lists the live sessions, in the order the service returned them.
func (s *Service) Get(ctx context.Context, opts ...CallOption) ([]api.Session, error) {
	resp, err := collapse(s.client.Get(ctx, s.token, opts...))
	if err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// StartRemoteDesktop enables VNC on the session at address.
func (s *Service) StartRemoteDesktop(ctx context.Context, address string, opts ...CallOption) (api.StartRemoteDesktopResponse, error) {
	return collapse(s.client.StartRemoteDesktop(ctx, s.token, address, opts...))
}

// StopRemoteDesktop disables VNC on the session at address.
func (s *Service) StopRemoteDesktop(ctx context.Context, address string, opts ...CallOption) error {
	_, err := collapse(s.client.StopRemoteDesktop(ctx, s.token, address, opts...))
	return err
}

func collapse[T any](res api.Result[T], err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return res.Get()
}
