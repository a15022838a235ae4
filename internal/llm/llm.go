package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts the extraction oracle: a remote model that turns document
// text into structured fields or free-form answers.
type Client interface {
	// ExtractFields asks the oracle for the fixed lease field schema as JSON.
	ExtractFields(ctx context.Context, input ExtractInput) (json.RawMessage, error)
	// Complete runs a plain system+user prompt and returns the answer text.
	Complete(ctx context.Context, input CompleteInput) (string, error)
}

// ExtractInput captures the inputs for a structured extraction request.
type ExtractInput struct {
	DocumentText string
	TableText    string
}

// CompleteInput is a free-form prompt pair.
type CompleteInput struct {
	System string
	User   string
}

var (
	// ErrOracleUnavailable marks transport-level failures (network, timeout,
	// upstream 5xx). Eligible for one retry with backoff.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrMalformedResponse marks output the caller could not parse into the
	// expected shape. The model is at fault, not the transport; never retried.
	ErrMalformedResponse = errors.New("oracle response malformed")
)

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// ExtractFields returns ErrOracleUnavailable.
func (PlaceholderClient) ExtractFields(ctx context.Context, input ExtractInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrOracleUnavailable
}

// Complete returns ErrOracleUnavailable.
func (PlaceholderClient) Complete(ctx context.Context, input CompleteInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrOracleUnavailable
}
