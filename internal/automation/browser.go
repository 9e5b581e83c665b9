package automation

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/cloudbrowser/internal/api"
	"github.com/GriffinCanCode/cloudbrowser/internal/logging"
	"github.com/GriffinCanCode/cloudbrowser/internal/service"
)

var (
	// ErrNoAddress is returned when there is no WebSocket address to attach to.
	ErrNoAddress = errors.New("no browser address")
	// ErrConnect is returned when the remote browser did not answer.
	ErrConnect = errors.New("browser connection failed")
)

// Option customizes a Browser.
type Option func(*Browser)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Browser) { b.logger = logging.OrNop(l) }
}

// Browser is an attached remote session.
type Browser struct {
	address     string
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// Connect attaches to the browser at address. ctx bounds the whole life of
// the attachment; cancel it or call Close to detach.
func Connect(ctx context.Context, address string, opts ...Option) (*Browser, error) {
	if address == "" {
		return nil, ErrNoAddress
	}

	b := &Browser{address: address, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, address, chromedp.NoModifyURL)
	browserCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(b.logger.Sugar().Debugf),
		chromedp.WithErrorf(b.logger.Sugar().Errorf))
	b.ctx, b.cancel, b.allocCancel = browserCtx, cancel, allocCancel

	if err := chromedp.Run(browserCtx); err != nil {
		b.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrConnect, address, err)
	}

	b.logger.Debug("attached to browser", zap.String("address", address))
	return b, nil
}

// Opener starts sessions.
type Opener interface {
	Open(ctx context.Context, options *api.BrowserOptions, opts ...service.CallOption) (api.OpenResponse, error)
}

// Launch opens a session and attaches to it. Domain and transport failures
// of the open are returned unchanged.
func Launch(ctx context.Context, opener Opener, options *api.BrowserOptions, callOpts []service.CallOption, opts ...Option) (*Browser, error) {
	opened, err := opener.Open(ctx, options, callOpts...)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, opened.Address, opts...)
}

// Address returns the WebSocket address of the session.
func (b *Browser) Address() string {
	return b.address
}

// Context returns the chromedp context of the attachment.
func (b *Browser) Context() context.Context {
	return b.ctx
}

// Navigate loads url in the current tab.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	return b.run(ctx, chromedp.Navigate(url))
}

// Evaluate runs a script and decodes its result into res.
func (b *Browser) Evaluate(ctx context.Context, expression string, res any) error {
	return b.run(ctx, chromedp.Evaluate(expression, res))
}

// Text returns the text of the first node matching selector.
func (b *Browser) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := b.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery, chromedp.NodeVisible))
	return text, err
}

// Close detaches from the browser. The remote session stays open until
// closed through the service or its keep-open limit expires.
func (b *Browser) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}

// run executes actions bounded by both ctx and the attachment.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}
