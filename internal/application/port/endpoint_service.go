package port

import (
	"context"

	"route-warmer/internal/domain/entity"
)

// RequestOptions describes a node call relative to the selected endpoint.
type RequestOptions struct {
	Method  string
	Path    string
	Body    []byte
	Headers map[string]string
}

// EndpointService is the endpoint resilience manager.
type EndpointService interface {
	// GetHealthyEndpoint returns a reachable endpoint or domain.ErrNoHealthyEndpoint.
	GetHealthyEndpoint(ctx context.Context, chainID string, kind entity.EndpointKind) (entity.EndpointURL, error)

	// Request calls a healthy endpoint, failing over between candidates.
	Request(ctx context.Context, chainID string, kind entity.EndpointKind, opts RequestOptions) ([]byte, error)

	// RequestJSON is Request with the body decoded into out.
	RequestJSON(ctx context.Context, chainID string, kind entity.EndpointKind, opts RequestOptions, out any) error

	// Endpoints returns the health snapshot of a chain's endpoints.
	Endpoints(chainID string, kind entity.EndpointKind) []entity.Endpoint

	// MarkUnhealthy demotes an endpoint after a failure observed outside Request.
	MarkUnhealthy(chainID string, kind entity.EndpointKind, url entity.EndpointURL, cause error)

	// RefreshAll probes every candidate of the chain.
	RefreshAll(ctx context.Context, chainID string) error
}
