package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/cloudbrowser/internal/codec"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/config"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/cloudbrowser/internal/infrastructure/resilience"
)

type openBody struct {
	Label    string `json:"label,omitempty"`
	Headless *bool  `json:"headless,omitempty"`
}

type openReply struct {
	Status  int    `json:"status"`
	Address string `json:"address,omitempty"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	return New(cfg, opts...)
}

func readDeflated(t *testing.T, r *http.Request) []byte {
	t.Helper()
	fr := flate.NewReader(r.Body)
	defer fr.Close()
	data, err := io.ReadAll(fr)
	require.NoError(t, err)
	return data
}

func TestSendPostsCompressedJSON(t *testing.T) {
	var seen atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/browser/Open", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "deflate", r.Header.Get("Content-Encoding"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, AcceptEncoding, r.Header.Get("Accept-Encoding"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		assert.JSONEq(t, `{"label":"x","headless":true}`, string(readDeflated(t, r)))
		seen.Store(true)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":200,"address":"ws://remote/1"}`))
	}, Config{})

	headless := true
	out, resp, err := Call[openReply](context.Background(), c, Request{
		Method:  http.MethodPost,
		Path:    "api/v1/browser/Open",
		Token:   "tok",
		Body:    openBody{Label: "x", Headless: &headless},
		HasBody: true,
	})
	require.NoError(t, err)
	assert.True(t, seen.Load())
	assert.Equal(t, openReply{Status: 200, Address: "ws://remote/1"}, out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, Identity, resp.Encoding)
	assert.NotEmpty(t, resp.ID)
}

func TestSendNullBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "null", string(readDeflated(t, r)))
		_, _ = w.Write([]byte(`{"status":200}`))
	}, Config{})

	var body *openBody
	_, _, err := Call[openReply](context.Background(), c, Request{
		Method: http.MethodPost, Path: "api/v1/browser/Open", Body: body, HasBody: true,
	})
	require.NoError(t, err)
}

func TestSendWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Content-Encoding"))
		data, _ := io.ReadAll(r.Body)
		assert.Empty(t, data)
		_, _ = w.Write([]byte(`{"status":200}`))
	}, Config{})

	out, _, err := Call[openReply](context.Background(), c, Request{
		Method: http.MethodGet, Path: "api/v1/browser/Get", Token: "tok",
	})
	require.NoError(t, err)
	assert.Equal(t, 200, out.Status)
}

func TestSendDecompressesResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"status":200,"address":"ws://gz"}`))
		_ = gz.Close()
	}, Config{})

	out, resp, err := Call[openReply](context.Background(), c, Request{Method: http.MethodGet, Path: "x"})
	require.NoError(t, err)
	assert.Equal(t, Gzip, resp.Encoding)
	assert.Equal(t, "ws://gz", out.Address)
}

func TestSendCancelledWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Config{})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := c.Send(ctx, Request{Method: http.MethodGet, Path: "slow"})
	returned := time.Since(start)

	require.Error(t, err)
	var terr *TimeoutError
	require.True(t, errors.As(err, &terr), "got %T: %v", err, err)
	assert.GreaterOrEqual(t, terr.Elapsed, 40*time.Millisecond)
	assert.Less(t, returned, time.Second)
	assert.Contains(t, terr.Error(), "timeout after")
}

func TestSendAlreadyCancelled(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Send(ctx, Request{Method: http.MethodGet, Path: "x"})
	var terr *TimeoutError
	require.True(t, errors.As(err, &terr))
	assert.Zero(t, hits.Load())
}

func TestSendDeadlineExceeded(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Config{})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.Send(ctx, Request{Method: http.MethodGet, Path: "x"})
	var terr *TimeoutError
	require.True(t, errors.As(err, &terr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendPerCallTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Config{Timeout: time.Minute})
	t.Cleanup(func() { close(release) })

	_, err := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "x", Timeout: time.Millisecond})
	require.Error(t, err)

	var terr *TimeoutError
	assert.True(t, errors.As(err, &terr), "got %T: %v", err, err)

	// the shared client keeps its own timeout
	assert.Equal(t, time.Minute, c.resty.GetClient().Timeout)
	assert.Same(t, c.resty, c.restyFor(time.Minute))
	assert.NotSame(t, c.resty, c.restyFor(time.Second))
}

func TestSendConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url})
	_, err := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "x"})
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr), "got %T: %v", err, err)
	assert.Equal(t, "send", terr.Op)

	var timeout *TimeoutError
	assert.False(t, errors.As(err, &timeout))
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		header  string
		body    []byte
		check   func(t *testing.T, err error)
		maxSize int64
	}{
		{
			name:   "bad gzip",
			status: http.StatusOK,
			header: "gzip",
			body:   []byte("not gzip"),
			check: func(t *testing.T, err error) {
				var terr *TransportError
				require.True(t, errors.As(err, &terr))
				assert.Equal(t, "decompress", terr.Op)
				assert.Equal(t, "x", terr.Path)
			},
		},
		{
			name:   "html error page",
			status: http.StatusBadGateway,
			body:   []byte("<html>bad gateway</html>"),
			check: func(t *testing.T, err error) {
				var terr *TransportError
				require.True(t, errors.As(err, &terr))
				assert.Equal(t, http.StatusBadGateway, terr.StatusCode)
			},
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   []byte("{"),
			check: func(t *testing.T, err error) {
				var derr *codec.DeserializationError
				assert.True(t, errors.As(err, &derr))
			},
		},
		{
			name:    "too large",
			status:  http.StatusOK,
			body:    bytes.Repeat([]byte(" "), 64),
			maxSize: 16,
			check: func(t *testing.T, err error) {
				var terr *TransportError
				require.True(t, errors.As(err, &terr))
				assert.ErrorIs(t, err, ErrPayloadTooLarge)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.header != "" {
					w.Header().Set("Content-Encoding", tt.header)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write(tt.body)
			}, Config{MaxResponseBytes: tt.maxSize})

			_, _, err := Call[openReply](context.Background(), c, Request{Method: http.MethodGet, Path: "x"})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestHTTPErrorWithJSONIsDecoded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":401}`))
	}, Config{})

	out, resp, err := Call[openReply](context.Background(), c, Request{Method: http.MethodGet, Path: "x"})
	require.NoError(t, err)
	assert.Equal(t, 401, out.Status)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSerializationFailureIsNotSent(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, Config{})

	_, err := c.Send(context.Background(), Request{
		Method: http.MethodPost, Path: "x", Body: map[string]any{"f": make(chan int)}, HasBody: true,
	})
	var serr *codec.SerializationError
	assert.True(t, errors.As(err, &serr))
	assert.Zero(t, hits.Load())
}

func TestBreakerOpensOnNetworkFailures(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	metrics := monitoring.NewMetrics(nil)
	c := New(Config{
		BaseURL:         url,
		BreakerEnabled:  true,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}, WithMetrics(metrics))

	for i := 0; i < 2; i++ {
		_, err := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "x"})
		require.Error(t, err)
	}
	assert.Equal(t, resilience.StateOpen, c.BreakerState())

	_, err := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "x"})
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.BreakerState.WithLabelValues("cloudbrowser")))
}

func TestTimeoutsDoNotTripBreaker(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Config{BreakerEnabled: true, BreakerFailures: 1})
	t.Cleanup(func() { close(release) })

	for i := 0; i < 3; i++ {
		_, err := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "x", Timeout: 5 * time.Millisecond})
		require.Error(t, err)
	}
	assert.Equal(t, resilience.StateClosed, c.BreakerState())
}

func TestHalfOpenTimeoutLeavesBreakerUndecided(t *testing.T) {
	var hang atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hang.Load() {
			<-r.Context().Done()
			return
		}
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			_ = conn.Close()
		}
	}, Config{BreakerEnabled: true, BreakerFailures: 1, BreakerTimeout: 20 * time.Millisecond})

	_, err := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "x"})
	require.True(t, IsNetworkFailure(err))
	require.Equal(t, resilience.StateOpen, c.BreakerState())

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, resilience.StateHalfOpen, c.BreakerState())

	hang.Store(true)
	_, err = c.Send(context.Background(), Request{Method: http.MethodGet, Path: "x", Timeout: 5 * time.Millisecond})
	var terr *TimeoutError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, resilience.StateHalfOpen, c.BreakerState(), "a probe nobody waited for must not close the circuit")

	hang.Store(false)
	_, err = c.Send(context.Background(), Request{Method: http.MethodGet, Path: "x"})
	require.True(t, IsNetworkFailure(err))
	assert.Equal(t, resilience.StateOpen, c.BreakerState())
}

func TestResponseCapDefaults(t *testing.T) {
	tests := []struct {
		name string
		set  int64
		want int64
	}{
		{"zero uses the default cap", 0, config.DefaultMaxResponseBytes},
		{"explicit cap", 1024, 1024},
		{"negative lifts the cap", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{MaxResponseBytes: tt.set})
			assert.Equal(t, tt.want, c.maxBytes)
		})
	}
}

func TestZeroConfigCapsResponses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte(" "), config.DefaultMaxResponseBytes+1))
	}, Config{})

	_, err := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "x"})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestWireMetrics(t *testing.T) {
	metrics := monitoring.NewMetrics(nil)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200}`))
	}, Config{}, WithMetrics(metrics))

	_, _, err := Call[openReply](context.Background(), c, Request{
		Method: http.MethodPost, Path: "x", Body: openBody{Label: "m"}, HasBody: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, testutil.CollectAndCount(metrics.WireBytes))
}

func TestConcurrentCalls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"address":"` + r.Header.Get("X-Request-Id") + `"}`))
	}, Config{})

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, resp, err := Call[openReply](context.Background(), c, Request{Method: http.MethodGet, Path: "x"})
			if err == nil && out.Address != resp.ID {
				err = errors.New("response crossed calls")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
