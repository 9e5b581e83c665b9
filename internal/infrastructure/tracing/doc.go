/*
Package tracing records the spans of remote operations.

# Overview

Each operation gets a span carrying a trace id and a span id. The ids live
in the context and are sent with the outbound request as headers, so the
service side can be correlated with client logs.

# Usage

	tracer := tracing.New("cloudbrowser", logger)
	defer tracer.Close()

	span, ctx := tracer.StartSpan(ctx, "Open")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

	span.SetTag("endpoint", "Open")

	// in the transport
	tracing.Inject(ctx, req.SetHeader)

# Trace Format

  - X-Trace-ID: identifier of the whole flow
  - X-Span-ID: identifier of the current operation

# Collection

Finished spans are logged by a collector goroutine through a buffered
channel (1000 spans). When the buffer is full the span is dropped with a
warning rather than blocking the call.
*/
package tracing
