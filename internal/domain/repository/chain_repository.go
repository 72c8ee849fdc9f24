package repository

import (
	"context"

	"route-warmer/internal/domain/entity"
)

// ChainRepository defines the interface for accessing chain data.
type ChainRepository interface {
	// GetAllChains retrieves mainnet or testnet chains from the underlying data source.
	GetAllChains(ctx context.Context, testnets bool) ([]entity.ChainInfo, error)
}
