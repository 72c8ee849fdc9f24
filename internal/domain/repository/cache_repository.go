package repository

import (
	"context"
	"time"

	"route-warmer/internal/domain/entity"
)

// ChainCacheRepository caches chain listings fetched from the route service.
type ChainCacheRepository interface {
	// GetChains retrieves a cached chain list stored under key.
	GetChains(ctx context.Context, key string) ([]entity.ChainInfo, bool, error)

	// SetChains stores a chain list under key with the given TTL.
	SetChains(ctx context.Context, key string, chains []entity.ChainInfo, ttl time.Duration) error
}

// TokenMetadataCache stores resolved token metadata per (chainId, denom) for the process lifetime.
type TokenMetadataCache interface {
	GetMetadata(ctx context.Context, chainID, denom string) (entity.TokenMetadata, bool, error)
	SetMetadata(ctx context.Context, chainID, denom string, md entity.TokenMetadata) error
	// ClearMetadata drops every cached entry.
	ClearMetadata(ctx context.Context) error
}
