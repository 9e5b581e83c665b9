package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartSpanNesting(t *testing.T) {
	tracer := New("test", nil)
	defer tracer.Close()

	parent, ctx := tracer.StartSpan(context.Background(), "outer")
	child, childCtx := tracer.StartSpan(ctx, "inner")

	assert.NotEmpty(t, parent.TraceID)
	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.Empty(t, parent.ParentID)
	assert.Equal(t, child.SpanID, GetSpanID(childCtx))
	assert.Equal(t, "test", child.Service)
}

func TestInject(t *testing.T) {
	headers := map[string]string{}
	set := func(k, v string) { headers[k] = v }

	Inject(context.Background(), set)
	assert.Empty(t, headers)

	span, ctx := (*Tracer)(nil).StartSpan(context.Background(), "op")
	Inject(ctx, set)
	assert.Equal(t, string(span.TraceID), headers[HeaderTraceID])
	assert.Equal(t, string(span.SpanID), headers[HeaderSpanID])
}

func TestCollectorLogsSpans(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tracer := New("test", zap.New(core))

	ok, _ := tracer.StartSpan(context.Background(), "Open")
	ok.SetTag("endpoint", "Open")
	ok.Finish()
	tracer.Submit(ok)

	failed, _ := tracer.StartSpan(context.Background(), "Get")
	failed.SetError(errors.New("boom"))
	failed.Finish()
	tracer.Submit(failed)

	tracer.Close()

	require.Equal(t, 1, logs.FilterMessage("span completed").Len())
	require.Equal(t, 1, logs.FilterMessage("span completed with error").Len())
	entry := logs.FilterMessage("span completed").All()[0]
	assert.Equal(t, "Open", entry.ContextMap()["tag.endpoint"])
}

func TestSubmitAfterClose(t *testing.T) {
	tracer := New("test", nil)
	tracer.Close()
	tracer.Close()

	span, _ := tracer.StartSpan(context.Background(), "late")
	assert.NotPanics(t, func() { tracer.Submit(span) })

	var nilTracer *Tracer
	assert.NotPanics(t, func() {
		nilTracer.Submit(span)
		nilTracer.Close()
	})
}

func TestFormatTrace(t *testing.T) {
	assert.Equal(t, "[trace:a span:b]", FormatTrace("a", "b"))
}
