// Package codec encodes and decodes the JSON payloads exchanged with the
// browser-provisioning service.
//
// Encoding uses camelCase names taken from struct tags and drops nil or
// empty fields tagged omitempty. Decoding matches field names
// case-insensitively and tolerates missing fields.
//
// Built on bytedance/sonic configured for encoding/json compatibility.
//
// Errors are typed:
//   - *SerializationError: the value cannot be represented as JSON
//   - *DeserializationError: the payload is not JSON or does not fit the target type
package codec
