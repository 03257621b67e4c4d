package telegram

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload marks a successful envelope whose payload does not
	// match the entity it is decoded into.
	ErrMalformedPayload = errors.New("telegram: malformed payload")
	// ErrServerRejected marks an {"ok": false} envelope.
	ErrServerRejected = errors.New("telegram: rejected by server")
	// ErrTransport marks timeouts, refused connections and redirect loops.
	ErrTransport = errors.New("telegram: transport failure")
	// ErrUsage marks a local precondition violation. No request is sent.
	ErrUsage = errors.New("telegram: invalid usage")
	// ErrResource marks a local file failure during upload staging or download.
	ErrResource = errors.New("telegram: local resource error")
	// ErrNotStarted is returned by New when the initial getMe call fails.
	ErrNotStarted = errors.New("telegram: bot failed to start")

	// ErrNoFilePath is returned when a File carries no download path.
	ErrNoFilePath = fmt.Errorf("%w: file has no download path", ErrUsage)

	errMissingField = errors.New("missing required field")
)

// MalformedPayloadError reports which field of which entity failed to decode.
// Field is a dotted path for nested entities, e.g. "chat.id".
type MalformedPayloadError struct {
	Entity string
	Field  string
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("telegram: malformed %s payload: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("telegram: malformed %s payload: field %s: %v", e.Entity, e.Field, e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }

// APIError is a server-reported failure. Code and Description are copied
// verbatim from the envelope.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: %s: error %d: %s", e.Method, e.Code, e.Description)
}

func (e *APIError) Is(target error) bool { return target == ErrServerRejected }

// TransportError wraps a failed HTTP exchange. Neither the message nor the
// wrapped chain contains the bot token.
type TransportError struct {
	Method string
	Err    error

	text string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("telegram: %s: transport failure: %s", e.Method, e.text)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

func resourceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrResource, op, err)
}
