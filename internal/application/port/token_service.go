package port

import (
	"context"

	"route-warmer/internal/domain/entity"
)

// TokenMetadataService resolves denominations to display metadata.
type TokenMetadataService interface {
	// Resolve never fails; unknown denoms fall back to default decimals and the raw denom.
	Resolve(ctx context.Context, chain entity.ChainInfo, denom string) entity.TokenMetadata
	BatchResolve(ctx context.Context, chain entity.ChainInfo, denoms []string) map[string]entity.TokenMetadata
	Preload(ctx context.Context, chain entity.ChainInfo) (int, error)
	SetDecimalsOverride(chainID, denom string, decimals int) error
	ClearDecimalsOverride(chainID, denom string)
	ClearCache(ctx context.Context) error
}
