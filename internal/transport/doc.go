// Package transport turns typed requests into HTTP calls against the
// browser-provisioning service and raw responses back into typed values.
//
// The pipeline for one call:
//   - wait on the client-side rate limiter
//   - encode the body to JSON and raw-deflate it (Content-Encoding: deflate)
//   - send it on a goroutine, racing completion against the caller's context
//   - read the whole response body, bounded by a size cap
//   - decompress by the response Content-Encoding (gzip, deflate, br, zstd
//     or identity) and decode the JSON
//
// Built on go-resty/resty over a hashicorp/go-retryablehttp pooled round
// tripper pinned to a single attempt. Nothing here retries.
//
// Errors:
//   - *TimeoutError: the context was done first, or the transport reported
//     a cancellation or deadline. Both cases look the same to the caller.
//   - *TransportError: connection, read, decompression or breaker failure.
//   - codec errors for bodies that cannot be encoded or decoded.
//
// A call whose context is cancelled stops waiting immediately but the
// request may still reach the service; side-effecting calls then have an
// unknown outcome.
package transport
