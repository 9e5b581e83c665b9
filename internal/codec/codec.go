package codec

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/bytedance/sonic"
)

// MediaType is the content type of every payload the codec produces.
const MediaType = "application/json"

// api matches encoding/json semantics: case-insensitive field matching on
// decode, struct tags for camelCase names and omitempty on encode.
var api = sonic.ConfigStd

// ErrEmptyPayload is returned when there is nothing to decode.
var ErrEmptyPayload = errors.New("empty payload")

// SerializationError reports a value that could not be encoded.
type SerializationError struct {
	Type string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize %s: %v", e.Type, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// DeserializationError reports a payload that could not be decoded into Type.
type DeserializationError struct {
	Type string
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialize %s: %v", e.Type, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// Encode serializes v to JSON.
func Encode(v any) ([]byte, error) {
	data, err := api.Marshal(v)
	if err != nil {
		return nil, &SerializationError{Type: typeName(v), Err: err}
	}
	return data, nil
}

// EncodeIndent serializes v to indented JSON for human consumption.
func EncodeIndent(v any) ([]byte, error) {
	data, err := api.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, &SerializationError{Type: typeName(v), Err: err}
	}
	return data, nil
}

// Decode parses data into a new T. Fields missing from data keep their zero value.
func Decode[T any](data []byte) (T, error) {
	var out T
	if err := DecodeInto(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeInto parses data into the value pointed to by v.
func DecodeInto(data []byte, v any) error {
	if len(data) == 0 {
		return &DeserializationError{Type: typeName(v), Err: ErrEmptyPayload}
	}
	if err := api.Unmarshal(data, v); err != nil {
		return &DeserializationError{Type: typeName(v), Err: err}
	}
	return nil
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "nil"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
