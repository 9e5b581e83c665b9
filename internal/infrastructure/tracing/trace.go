package tracing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/cloudbrowser/internal/logging"
)

// Propagation headers.
const (
	HeaderTraceID = "X-Trace-ID"
	HeaderSpanID  = "X-Span-ID"
)

// TraceID represents a unique trace identifier
type TraceID string

// SpanID represents a unique span identifier. Both ids are ULIDs, so they
// sort by creation time.
type SpanID string

// Span represents a single operation in a trace
type Span struct {
	TraceID   TraceID
	SpanID    SpanID
	ParentID  SpanID
	Name      string
	Service   string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Tags      map[string]string
	Error     error
}

// Tracer collects finished spans. A nil *Tracer starts spans but drops them.
type Tracer struct {
	service string
	logger  *zap.Logger
	spans   chan *Span

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// New creates a tracer and starts its collector.
func New(service string, logger *zap.Logger) *Tracer {
	t := &Tracer{
		service: service,
		logger:  logging.OrNop(logger),
		spans:   make(chan *Span, 1000),
		done:    make(chan struct{}),
	}
	go t.collectSpans()
	return t
}

// StartSpan creates a span, child of the span in ctx if any.
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		traceID = TraceID(ulid.Make().String())
	}

	span := &Span{
		TraceID:   traceID,
		SpanID:    SpanID(ulid.Make().String()),
		ParentID:  GetSpanID(ctx),
		Name:      name,
		StartTime: time.Now(),
		Tags:      make(map[string]string),
	}
	if t != nil {
		span.Service = t.service
	}

	ctx = context.WithValue(ctx, traceIDKey, traceID)
	ctx = context.WithValue(ctx, spanIDKey, span.SpanID)
	return span, ctx
}

// Finish marks the span as complete
func (s *Span) Finish() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// SetTag adds a tag to the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// SetError records an error in the span
func (s *Span) SetError(err error) {
	s.Error = err
}

// Submit hands a finished span to the collector without blocking.
func (t *Tracer) Submit(span *Span) {
	if t == nil {
		return
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span",
			zap.String("trace_id", string(span.TraceID)),
			zap.String("span_id", string(span.SpanID)),
		)
	}
}

// Close stops the collector after draining the buffered spans.
func (t *Tracer) Close() {
	if t == nil {
		return
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.spans)
	t.mu.Unlock()
	<-t.done
}

func (t *Tracer) collectSpans() {
	defer close(t.done)
	for span := range t.spans {
		t.processSpan(span)
	}
}

func (t *Tracer) processSpan(span *Span) {
	fields := []zap.Field{
		zap.String("trace_id", string(span.TraceID)),
		zap.String("span_id", string(span.SpanID)),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
		zap.String("service", span.Service),
	}
	if span.ParentID != "" {
		fields = append(fields, zap.String("parent_id", string(span.ParentID)))
	}
	for k, v := range span.Tags {
		fields = append(fields, zap.String("tag."+k, v))
	}

	if span.Error != nil {
		t.logger.Debug("span completed with error", append(fields, zap.Error(span.Error))...)
	} else {
		t.logger.Debug("span completed", fields...)
	}
}

// Inject writes the trace context of ctx through set, typically a header
// setter. Nothing is written when ctx carries no trace.
func Inject(ctx context.Context, set func(key, value string)) {
	if traceID := GetTraceID(ctx); traceID != "" {
		set(HeaderTraceID, string(traceID))
	}
	if spanID := GetSpanID(ctx); spanID != "" {
		set(HeaderSpanID, string(spanID))
	}
}

type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	spanIDKey  contextKey = "span_id"
)

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) TraceID {
	if traceID, ok := ctx.Value(traceIDKey).(TraceID); ok {
		return traceID
	}
	return ""
}

// GetSpanID retrieves the span ID from context
func GetSpanID(ctx context.Context) SpanID {
	if spanID, ok := ctx.Value(spanIDKey).(SpanID); ok {
		return spanID
	}
	return ""
}

// FormatTrace returns a formatted trace string for logging
func FormatTrace(traceID TraceID, spanID SpanID) string {
	return fmt.Sprintf("[trace:%s span:%s]", traceID, spanID)
}
