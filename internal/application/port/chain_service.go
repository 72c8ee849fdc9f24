package port

import (
	"context"

	"route-warmer/internal/domain/entity"
)

// ChainFilter narrows chain listings.
type ChainFilter struct {
	Testnets   bool
	CosmosOnly bool
}

// ChainService resolves chain descriptions from configuration and the route service.
type ChainService interface {
	// GetChain returns a configured chain, or the route service's description of it.
	GetChain(ctx context.Context, chainID string) (entity.ChainInfo, error)

	// ListChains returns known chains matching the filter.
	ListChains(ctx context.Context, filter ChainFilter) ([]entity.ChainInfo, error)

	// ChainIDForAddress maps a bech32 address to the chain using its prefix.
	ChainIDForAddress(ctx context.Context, address string) (string, error)
}
