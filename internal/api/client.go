package api

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/cloudbrowser/internal/codec"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/cloudbrowser/internal/logging"
	"github.com/GriffinCanCode/cloudbrowser/internal/transport"
)

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(l) }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracer records a span per operation.
func WithTracer(t *tracing.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// CallOption customizes a single call.
type CallOption func(*callConfig)

type callConfig struct {
	timeout   time.Duration
	requestID string
}

// WithTimeout bounds the transport of one call. Zero keeps the client default.
func WithTimeout(d time.Duration) CallOption {
	return func(c *callConfig) { c.timeout = d }
}

// WithRequestID sets the X-Request-Id of one call.
func WithRequestID(id string) CallOption {
	return func(c *callConfig) { c.requestID = id }
}

// Client runs the service operations. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	transport *transport.Client
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	tracer    *tracing.Tracer
}

// New creates a client on top of t.
func New(t *transport.Client, opts ...Option) *Client {
	c := &Client{
		transport: t,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transport returns the underlying transport client.
func (c *Client) Transport() *transport.Client {
	return c.transport
}

// Open starts a session. A nil options posts a null body and the service
// applies its defaults.
func (c *Client) Open(ctx context.Context, token string, options *BrowserOptions, opts ...CallOption) (Result[OpenResponse], error) {
	return call[OpenResponse](ctx, c, EndpointOpen, token, options, opts)
}

// OpenAdvanced starts a session through the advanced endpoint.
func (c *Client) OpenAdvanced(ctx context.Context, token string, options *BrowserOptions, opts ...CallOption) (Result[OpenResponse], error) {
	return call[OpenResponse](ctx, c, EndpointOpenAdvanced, token, options, opts)
}

// Close ends the session at address.
func (c *Client) Close(ctx context.Context, token, address string, opts ...CallOption) (Result[SimpleResponse], error) {
	return call[SimpleResponse](ctx, c, EndpointClose, token, AddressRequest{Address: address}, opts)
}

// Get lists the live sessions of the token.
func (c *Client) Get(ctx context.Context, token string, opts ...CallOption) (Result[GetResponse], error) {
	return call[GetResponse](ctx, c, EndpointGet, token, nil, opts)
}

// StartRemoteDesktop enables VNC on the session at address.
func (c *Client) StartRemoteDesktop(ctx context.Context, token, address string, opts ...CallOption) (Result[StartRemoteDesktopResponse], error) {
	return call[StartRemoteDesktopResponse](ctx, c, EndpointStartRemoteDesktop, token, AddressRequest{Address: address}, opts)
}

// StopRemoteDesktop disables VNC on the session at address.
func (c *Client) StopRemoteDesktop(ctx context.Context, token, address string, opts ...CallOption) (Result[StopRemoteDesktopResponse], error) {
	return call[StopRemoteDesktopResponse](ctx, c, EndpointStopRemoteDesktop, token, AddressRequest{Address: address}, opts)
}

type remoteStatus interface {
	RemoteStatus() int
}

func call[T remoteStatus](ctx context.Context, c *Client, ep Endpoint, token string, body any, opts []CallOption) (Result[T], error) {
	var cfg callConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	span, ctx := c.tracer.StartSpan(ctx, ep.Name)
	defer func() {
		span.Finish()
		c.tracer.Submit(span)
	}()

	timer := monitoring.NewTimer(c.metrics, ep.Name)
	done := c.metrics.Track()
	defer done()

	value, resp, err := transport.Call[T](ctx, c.transport, transport.Request{
		Method:  ep.Method,
		Path:    ep.Path(),
		Token:   token,
		Body:    body,
		HasBody: ep.HasBody,
		Timeout: cfg.timeout,
		ID:      cfg.requestID,
	})
	if err != nil {
		kind := errorKind(err)
		span.SetError(err)
		elapsed := timer.Stop(kind)
		c.metrics.RecordError(ep.Name, kind)
		c.logger.Warn("call failed",
			zap.String("endpoint", ep.Name),
			zap.String("kind", kind),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return Result[T]{}, err
	}

	status := value.RemoteStatus()
	kind := MapStatus(status)
	elapsed := timer.Stop(kind.String())
	span.SetTag("request_id", resp.ID)
	span.SetTag("outcome", kind.String())

	fields := []zap.Field{
		zap.String("endpoint", ep.Name),
		zap.String("request_id", resp.ID),
		zap.Int("status", status),
		zap.Int("http_status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	}
	if kind == KindSuccess {
		c.logger.Debug("call succeeded", fields...)
	} else {
		c.metrics.RecordError(ep.Name, kind.String())
		c.logger.Info("call refused", append(fields, zap.Stringer("kind", kind))...)
	}

	return Result[T]{
		Kind:      kind,
		Status:    status,
		Value:     value,
		Endpoint:  ep.Name,
		RequestID: resp.ID,
		Elapsed:   elapsed,
	}, nil
}

// errorKind labels a pipeline failure for metrics and logs.
func errorKind(err error) string {
	var (
		timeoutErr   *transport.TimeoutError
		transportErr *transport.TransportError
		serErr       *codec.SerializationError
		deserErr     *codec.DeserializationError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &serErr):
		return "serialization"
	case errors.As(err, &deserErr):
		return "deserialization"
	default:
		return "unknown"
	}
}
