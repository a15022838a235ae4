package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lease-backend/internal/shared/telemetry"
)

const retryBaseDelay = 300 * time.Millisecond

type retryingClient struct {
	base      Client
	requestID string
}

// NewRetrying wraps a client with a single backoff retry on transport
// failures. Malformed responses are never retried; the second answer would be
// no more trustworthy than the first.
func NewRetrying(base Client, requestID string) Client {
	if base == nil {
		return nil
	}
	return retryingClient{base: base, requestID: requestID}
}

func (r retryingClient) ExtractFields(ctx context.Context, input ExtractInput) (json.RawMessage, error) {
	resp, err := r.base.ExtractFields(ctx, input)
	if err == nil || !errors.Is(err, ErrOracleUnavailable) {
		return resp, err
	}
	if err := r.wait(ctx, err); err != nil {
		return nil, err
	}
	return r.base.ExtractFields(ctx, input)
}

func (r retryingClient) Complete(ctx context.Context, input CompleteInput) (string, error) {
	resp, err := r.base.Complete(ctx, input)
	if err == nil || !errors.Is(err, ErrOracleUnavailable) {
		return resp, err
	}
	if err := r.wait(ctx, err); err != nil {
		return "", err
	}
	return r.base.Complete(ctx, input)
}

func (r retryingClient) wait(ctx context.Context, cause error) error {
	telemetry.Warn("oracle.retry", map[string]any{
		"request_id": r.requestID,
		"error":      cause.Error(),
	})
	select {
	case <-time.After(retryBaseDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
