package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// fieldReader walks one JSON object. The first failure sticks in err and
// turns every later read into a no-op, so decoders can read all fields in a
// single struct literal and check err once.
type fieldReader struct {
	entity string
	obj    map[string]json.RawMessage
	err    error
}

func newFieldReader(entity string, data []byte) (*fieldReader, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &MalformedPayloadError{Entity: entity, Err: err}
	}
	if obj == nil {
		return nil, &MalformedPayloadError{Entity: entity, Err: errors.New("payload is null")}
	}
	return &fieldReader{entity: entity, obj: obj}, nil
}

// has reports whether key is present with a non-null value.
func (r *fieldReader) has(key string) bool {
	raw, ok := r.obj[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (r *fieldReader) fail(key string, err error) {
	if r.err != nil {
		return
	}
	var nested *MalformedPayloadError
	if errors.As(err, &nested) {
		path := key
		if nested.Field != "" {
			path = key + "." + nested.Field
		}
		r.err = &MalformedPayloadError{Entity: r.entity, Field: path, Err: nested.Err}
		return
	}
	r.err = &MalformedPayloadError{Entity: r.entity, Field: key, Err: err}
}

// field decodes a required key.
func field[T any](r *fieldReader, key string) T {
	var v T
	if r.err != nil {
		return v
	}
	if !r.has(key) {
		r.fail(key, errMissingField)
		return v
	}
	if err := json.Unmarshal(r.obj[key], &v); err != nil {
		r.fail(key, err)
	}
	return v
}

// optionalField decodes key when present and returns nil when it is absent
// or null.
func optionalField[T any](r *fieldReader, key string) *T {
	if r.err != nil || !r.has(key) {
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(r.obj[key], v); err != nil {
		r.fail(key, err)
		return nil
	}
	return v
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0)
}

// decodeResult decodes the result member of a successful envelope.
func decodeResult[T any](method string, raw json.RawMessage) (*T, error) {
	v := new(T)
	if len(raw) == 0 {
		return nil, &MalformedPayloadError{Entity: method, Err: errors.New("empty result")}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var malformed *MalformedPayloadError
		if errors.As(err, &malformed) {
			return nil, malformed
		}
		return nil, &MalformedPayloadError{Entity: method, Err: fmt.Errorf("decode result: %w", err)}
	}
	return v, nil
}
