package memory

import (
	"context"
	"fmt"
	"time"

	"route-warmer/internal/config"
	"route-warmer/internal/domain/entity"
	domainRepo "route-warmer/internal/domain/repository"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Compile-time checks
var (
	_ domainRepo.ChainCacheRepository = (*CacheRepository)(nil)
	_ domainRepo.TokenMetadataCache   = (*CacheRepository)(nil)
)

// Cache keys
const (
	chainsKeyPrefix   = "chains_v1_"
	metadataKeyPrefix = "token_metadata_v1_"
)

// CacheRepository implements the chain listing and token metadata caches on go-cache.
type CacheRepository struct {
	chains   *cache.Cache
	metadata *cache.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCacheRepository creates a new in-memory cache repository instance. Token metadata never
// expires; chain listings use the configured TTL.
func NewCacheRepository(cfg config.CacheConfig, logger *zap.Logger) *CacheRepository {
	defaultExpiration := cfg.GetDefaultExpiration()
	cleanupInterval := cfg.GetCleanupInterval()

	logger.Info(
		"Initialized go-cache for memory storage",
		zap.Duration("defaultExpiration", defaultExpiration),
		zap.Duration("cleanupInterval", cleanupInterval),
	)

	ttl := cfg.ChainsTTL
	if ttl <= 0 {
		ttl = defaultExpiration
	}
	return &CacheRepository{
		chains:   cache.New(defaultExpiration, cleanupInterval),
		metadata: cache.New(cache.NoExpiration, 0),
		ttl:      ttl,
		logger:   logger.Named("MemoryCacheStorage"),
	}
}

// GetChains retrieves a cached chain list, returning found status.
func (r *CacheRepository) GetChains(_ context.Context, key string) ([]entity.ChainInfo, bool, error) {
	key = chainsKeyPrefix + key
	if x, found := r.chains.Get(key); found {
		if chains, ok := x.([]entity.ChainInfo); ok {
			r.logger.Debug("Memory cache hit", zap.String("key", key))
			return chains, true, nil
		}
		r.logger.Warn(
			"Memory cache data type mismatch for key",
			zap.String("key", key), zap.Any("type", fmt.Sprintf("%T", x)),
		)
	}
	r.logger.Debug("Memory cache miss", zap.String("key", key))
	return nil, false, nil
}

// SetChains caches a chain list. A non-positive ttl falls back to the configured chains TTL.
func (r *CacheRepository) SetChains(_ context.Context, key string, chains []entity.ChainInfo, ttl time.Duration) error {
	key = chainsKeyPrefix + key
	if ttl <= 0 {
		ttl = r.ttl
	}
	r.chains.Set(key, chains, ttl)
	r.logger.Debug("Memory cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetMetadata returns the cached metadata of denom on chainID.
func (r *CacheRepository) GetMetadata(_ context.Context, chainID, denom string) (entity.TokenMetadata, bool, error) {
	key := metadataKey(chainID, denom)
	if x, found := r.metadata.Get(key); found {
		if md, ok := x.(entity.TokenMetadata); ok {
			r.logger.Debug("Memory cache hit", zap.String("key", key))
			return md, true, nil
		}
		r.logger.Warn(
			"Memory cache data type mismatch for key",
			zap.String("key", key), zap.Any("type", fmt.Sprintf("%T", x)),
		)
	}
	return entity.TokenMetadata{}, false, nil
}

// SetMetadata stores metadata for the process lifetime.
func (r *CacheRepository) SetMetadata(_ context.Context, chainID, denom string, md entity.TokenMetadata) error {
	r.metadata.Set(metadataKey(chainID, denom), md, cache.NoExpiration)
	return nil
}

// ClearMetadata drops every cached metadata entry.
func (r *CacheRepository) ClearMetadata(_ context.Context) error {
	r.metadata.Flush()
	return nil
}

// metadataKey joins chain id and denom; chain ids never contain '|'.
func metadataKey(chainID, denom string) string {
	return metadataKeyPrefix + chainID + "|" + denom
}
