package service

import (
	"context"
	"time"

	"route-warmer/internal/domain/entity"
)

// EndpointProber checks whether a node endpoint is alive and serves the expected chain.
type EndpointProber interface {
	// Probe returns the round-trip latency and a nil error when the endpoint is healthy.
	Probe(ctx context.Context, chainID string, kind entity.EndpointKind, url entity.EndpointURL) (time.Duration, error)
}
