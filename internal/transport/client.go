package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/config"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/cloudbrowser/internal/logging"
)

// Config holds transport settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	MaxResponseBytes  int64
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	BreakerEnabled    bool
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
}

// ConfigFrom extracts the transport settings from the application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.Transport.Timeout,
		MaxResponseBytes:  cfg.Transport.MaxResponseBytes,
		UserAgent:         cfg.Transport.UserAgent,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		BreakerEnabled:    cfg.Breaker.Enabled,
		BreakerFailures:   cfg.Breaker.MaxFailures,
		BreakerTimeout:    cfg.Breaker.OpenTimeout,
	}
}

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

// WithRoundTripper replaces the pooled round tripper.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *Client) { c.roundTripper = rt }
}

// Client sends requests to the service. It is safe for concurrent use; the
// only state shared between calls is the connection pool, the rate limiter
// and the breaker.
type Client struct {
	baseURL      string
	timeout      time.Duration
	maxBytes     int64
	userAgent    string
	roundTripper http.RoundTripper
	resty        *resty.Client
	limiter      *rate.Limiter
	breaker      *resilience.Breaker
	logger       *zap.Logger
	metrics      *monitoring.Metrics
}

// New creates a client. Zero values in cfg fall back to defaults; a negative
// MaxResponseBytes lifts the response size cap.
func New(cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "cloudbrowser-go/1.0"
	}
	switch {
	case cfg.MaxResponseBytes == 0:
		cfg.MaxResponseBytes = config.DefaultMaxResponseBytes
	case cfg.MaxResponseBytes < 0:
		cfg.MaxResponseBytes = 0
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   cfg.Timeout,
		maxBytes:  cfg.MaxResponseBytes,
		userAgent: cfg.UserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.roundTripper == nil {
		c.roundTripper = newPooledRoundTripper(c.logger)
	}
	c.resty = c.newResty(c.timeout)

	if cfg.RequestsPerSecond <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	if cfg.BreakerEnabled {
		c.breaker = c.newBreaker(cfg)
	}

	return c
}

// newPooledRoundTripper returns the shared connection pool, pinned to one
// attempt per call.
func newPooledRoundTripper(logger *zap.Logger) http.RoundTripper {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = logging.NewLeveled(logger)
	retryClient.CheckRetry = func(context.Context, *http.Response, error) (bool, error) {
		return false, nil
	}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return retryClient.StandardClient().Transport
}

func (c *Client) newResty(timeout time.Duration) *resty.Client {
	return resty.NewWithClient(&http.Client{
		Transport: c.roundTripper,
		Timeout:   timeout,
	}).
		SetBaseURL(c.baseURL).
		SetRetryCount(0).
		SetLogger(logging.NewPrintf(c.logger)).
		SetHeader("User-Agent", c.userAgent)
}

// restyFor returns the shared client for the default timeout, or a client
// scoped to one call so the shared timeout is never mutated.
func (c *Client) restyFor(timeout time.Duration) *resty.Client {
	if timeout <= 0 || timeout == c.timeout {
		return c.resty
	}
	return c.newResty(timeout)
}

func (c *Client) newBreaker(cfg Config) *resilience.Breaker {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 10
	}
	return resilience.New("cloudbrowser", resilience.Settings{
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsFailure:  IsNetworkFailure,
		IsExcluded: isAbandoned,
		OnStateChange: func(name string, from, to resilience.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
			c.metrics.RecordBreaker(name, int(to), from.String(), to.String())
		},
	})
}

// BaseURL returns the service origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DefaultTimeout returns the timeout applied when a call gives none.
func (c *Client) DefaultTimeout() time.Duration {
	return c.timeout
}

// BreakerState returns the breaker state, or closed when disabled.
func (c *Client) BreakerState() resilience.State {
	if c.breaker == nil {
		return resilience.StateClosed
	}
	return c.breaker.State()
}
