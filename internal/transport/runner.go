package transport

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/cloudbrowser/internal/codec"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/tracing"
)

// Request is one outbound call. It is built per call and never shared.
type Request struct {
	Method  string
	Path    string
	Token   string
	Body    any
	HasBody bool
	// Timeout bounds the transport; zero means the client default.
	Timeout time.Duration
	// ID is sent as X-Request-Id; generated when empty.
	ID string
}

// Response is the raw result of a call before decoding.
type Response struct {
	StatusCode int
	Encoding   Encoding
	Payload    []byte // as received, still encoded
	ID         string
	Elapsed    time.Duration
}

type outcome struct {
	resp *Response
	err  error
}

// Send runs req and returns the undecoded response.
//
// The network exchange runs on its own goroutine and is raced against ctx:
// if ctx is done first Send returns a *TimeoutError at once, whether or not
// the exchange ever finishes. A cancellation or deadline reported by the
// transport itself is converted to the same *TimeoutError. Every other
// failure is a *TransportError, or a codec error for the request body.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	if err := ctx.Err(); err != nil {
		return nil, newTimeout(req.Path, start, err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, newTimeout(req.Path, start, err)
	}

	var body []byte
	if req.HasBody {
		raw, err := codec.Encode(req.Body)
		if err != nil {
			return nil, err
		}
		if body, err = Compress(raw); err != nil {
			return nil, &TransportError{Op: "compress", Path: req.Path, Err: err}
		}
		c.metrics.RecordWire("out", string(OutboundEncoding), len(body))
	}

	resp, err := resilience.Do(c.breaker, func() (*Response, error) {
		return c.race(ctx, start, req, body)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		return nil, &TransportError{Op: "send", Path: req.Path, Err: err}
	}
	if err != nil {
		return nil, err
	}

	resp.Elapsed = time.Since(start)
	c.metrics.RecordWire("in", string(resp.Encoding), len(resp.Payload))
	return resp, nil
}

func (c *Client) race(ctx context.Context, start time.Time, req Request, body []byte) (*Response, error) {
	done := make(chan outcome, 1)
	go func() {
		resp, err := c.exchange(ctx, req, body)
		done <- outcome{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		c.logger.Debug("call abandoned",
			zap.String("request_id", req.ID),
			zap.String("path", req.Path),
			zap.Duration("elapsed", time.Since(start)))
		return nil, newTimeout(req.Path, start, ctx.Err())
	case out := <-done:
		if out.err == nil {
			return out.resp, nil
		}
		if isCancellation(out.err) {
			return nil, newTimeout(req.Path, start, out.err)
		}
		var terr *TransportError
		if errors.As(out.err, &terr) {
			return nil, terr
		}
		return nil, &TransportError{Op: "send", Path: req.Path, Err: out.err}
	}
}

// exchange performs the request and reads the whole body.
func (c *Client) exchange(ctx context.Context, req Request, body []byte) (*Response, error) {
	r := c.restyFor(req.Timeout).R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Accept", codec.MediaType).
		SetHeader("Accept-Encoding", AcceptEncoding).
		SetHeader("X-Request-Id", req.ID)
	if req.Token != "" {
		r.SetAuthToken(req.Token)
	}
	tracing.Inject(ctx, func(k, v string) { r.SetHeader(k, v) })
	if req.HasBody {
		r.SetHeader("Content-Type", codec.MediaType).
			SetHeader("Content-Encoding", string(OutboundEncoding)).
			SetBody(body)
	}

	c.logger.Debug("sending request",
		zap.String("request_id", req.ID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("body_bytes", len(body)))

	res, err := r.Execute(req.Method, req.Path)
	if err != nil {
		return nil, err
	}
	raw := res.RawBody()
	if raw == nil {
		return nil, &TransportError{Op: "read", Path: req.Path, Err: errors.New("no response body")}
	}
	defer raw.Close()

	payload, err := readLimited(raw, c.maxBytes)
	if err != nil {
		if isCancellation(err) {
			return nil, err
		}
		return nil, &TransportError{Op: "read", Path: req.Path, StatusCode: res.StatusCode(), Err: err}
	}

	return &Response{
		StatusCode: res.StatusCode(),
		Encoding:   ParseEncoding(res.Header().Values("Content-Encoding")),
		Payload:    payload,
		ID:         req.ID,
	}, nil
}

// Decode decompresses resp and decodes it into T. A payload that cannot be
// decoded from an HTTP error response is reported as a *TransportError
// carrying the status, since it did not come from the service's API layer.
func Decode[T any](resp *Response, limit int64) (T, error) {
	var zero T
	payload, err := Decompress(resp.Encoding, bytes.NewReader(resp.Payload), limit)
	if err != nil {
		return zero, err
	}

	out, err := codec.Decode[T](payload)
	if err != nil && resp.StatusCode >= http.StatusBadRequest {
		return zero, &TransportError{Op: "status", StatusCode: resp.StatusCode, Err: err}
	}
	return out, err
}

// Call sends req and decodes the response into T.
func Call[T any](ctx context.Context, c *Client, req Request) (T, *Response, error) {
	var zero T
	resp, err := c.Send(ctx, req)
	if err != nil {
		return zero, nil, err
	}

	out, err := Decode[T](resp, c.maxBytes)
	if err != nil {
		var terr *TransportError
		if errors.As(err, &terr) && terr.Path == "" {
			terr.Path = req.Path
		}
		return zero, resp, err
	}
	return out, resp, nil
}
