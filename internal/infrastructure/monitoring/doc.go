/*
Package monitoring provides Prometheus metrics for the CloudBrowser client.

# Overview

Every remote operation is counted by endpoint and outcome, timed, and its
request and response bodies are measured as they travel on the wire (after
compression), labelled by content encoding. Circuit breaker transitions
are exported as a gauge and a counter.

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	timer := monitoring.NewTimer(metrics, "Open")
	// ... perform operation ...
	timer.Stop("success")

A nil *Metrics is valid and records nothing.

# Metrics

  - cloudbrowser_calls_total{endpoint,outcome}
  - cloudbrowser_call_duration_seconds{endpoint}
  - cloudbrowser_call_errors_total{endpoint,kind}
  - cloudbrowser_wire_bytes{direction,encoding}
  - cloudbrowser_breaker_state{breaker}
  - cloudbrowser_breaker_transitions_total{breaker,from,to}
  - cloudbrowser_calls_in_flight
*/
package monitoring
