package service

import (
	"context"
	"time"
)

// NodeRequest is a single HTTP call to a chain node or external API.
type NodeRequest struct {
	Method  string
	URL     string
	Body    []byte
	Headers map[string]string
	Timeout time.Duration
}

// NodeResponse is the raw answer. Non-2xx statuses are returned, not turned into errors.
type NodeResponse struct {
	StatusCode int
	Body       []byte
}

// NodeClient performs HTTP calls. Transport failures are wrapped with apperrors.ErrTimeout or
// apperrors.ErrExternalServiceFailure.
type NodeClient interface {
	Do(ctx context.Context, req NodeRequest) (*NodeResponse, error)
}
