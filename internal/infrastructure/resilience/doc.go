/*
Package resilience provides the circuit breaker that guards calls to the
browser-provisioning service.

# Overview

When the service keeps failing at the network level, further calls fail
fast with ErrCircuitOpen instead of waiting out a full timeout each time.
The breaker never retries anything: every call is still a single attempt.

Settings.IsFailure decides which errors count against the service. The
transport counts only network failures; a decoded response carrying a
domain error is a healthy round trip. Settings.IsExcluded drops outcomes
that say nothing about the service, such as a call the caller stopped
waiting for; they count neither way.

# Usage

	breaker := resilience.New("cloudbrowser", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 10
		},
		IsFailure: isNetworkError,
	})

	resp, err := resilience.Do(breaker, func() (*Response, error) {
		return send(ctx, req)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
