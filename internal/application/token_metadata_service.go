package application

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"route-warmer/internal/application/port"
	"route-warmer/internal/config"
	"route-warmer/internal/domain"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/domain/repository"
	"route-warmer/internal/pkg/apperrors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Compile-time check
var _ port.TokenMetadataService = (*TokenMetadataService)(nil)

const (
	denomsMetadataPath = "/cosmos/bank/v1beta1/denoms_metadata"
	// MaxDecimals bounds manual decimal overrides.
	MaxDecimals = 18
)

type overrideKey struct {
	chainID string
	denom   string
}

// TokenMetadataService resolves denominations to symbols and decimal counts.
type TokenMetadataService struct {
	endpoints       port.EndpointService
	cache           repository.TokenMetadataCache
	defaultDecimals int
	concurrency     int
	preloadLimit    int
	logger          *zap.Logger

	mu        sync.RWMutex
	overrides map[overrideKey]int
}

// NewTokenMetadataService creates a new TokenMetadataService.
func NewTokenMetadataService(
	endpoints port.EndpointService,
	cache repository.TokenMetadataCache,
	cfg config.MetadataConfig,
	logger *zap.Logger,
) *TokenMetadataService {
	concurrency := cfg.BatchConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	preloadLimit := cfg.PreloadLimit
	if preloadLimit <= 0 {
		preloadLimit = 1000
	}
	return &TokenMetadataService{
		endpoints:       endpoints,
		cache:           cache,
		defaultDecimals: cfg.DefaultDecimals,
		concurrency:     concurrency,
		preloadLimit:    preloadLimit,
		logger:          logger.Named("TokenMetadataService"),
		overrides:       make(map[overrideKey]int),
	}
}

// Resolve returns the metadata of denom on chain. A manual override shadows the decimals of
// whatever the lookup produced.
func (s *TokenMetadataService) Resolve(ctx context.Context, chain entity.ChainInfo, denom string) entity.TokenMetadata {
	md := s.lookup(ctx, chain, denom)

	s.mu.RLock()
	decimals, ok := s.overrides[overrideKey{chainID: chain.ChainID, denom: denom}]
	s.mu.RUnlock()
	if ok {
		md.Decimals = decimals
	}
	return md
}

func (s *TokenMetadataService) lookup(ctx context.Context, chain entity.ChainInfo, denom string) entity.TokenMetadata {
	md, found, err := s.cache.GetMetadata(ctx, chain.ChainID, denom)
	if err != nil {
		s.logger.Warn("Metadata cache read failed", zap.String("chainId", chain.ChainID), zap.String("denom", denom), zap.Error(err))
	}
	if found {
		return md
	}

	if cur, ok := chain.FindCurrency(denom); ok {
		md = entity.TokenMetadata{Denom: denom, Symbol: cur.CoinDenom, Decimals: cur.CoinDecimals}
		s.store(ctx, chain.ChainID, md)
		return md
	}

	if remote, ok := s.queryDenomMetadata(ctx, chain.ChainID, denom); ok {
		md = s.fromDenomMetadata(denom, remote)
	} else {
		md = entity.TokenMetadata{Denom: denom, Symbol: denom, Decimals: s.defaultDecimals}
	}
	s.store(ctx, chain.ChainID, md)
	return md
}

func (s *TokenMetadataService) store(ctx context.Context, chainID string, md entity.TokenMetadata) {
	if err := s.cache.SetMetadata(ctx, chainID, md.Denom, md); err != nil {
		s.logger.Warn("Metadata cache write failed", zap.String("chainId", chainID), zap.String("denom", md.Denom), zap.Error(err))
	}
}

func (s *TokenMetadataService) fromDenomMetadata(denom string, m entity.DenomMetadata) entity.TokenMetadata {
	decimals, ok := m.Decimals()
	if !ok {
		decimals = s.defaultDecimals
	}
	symbol := m.Symbol
	if symbol == "" {
		symbol = m.Display
	}
	if symbol == "" {
		symbol = denom
	}
	return entity.TokenMetadata{
		Denom:       denom,
		Symbol:      symbol,
		Decimals:    decimals,
		Name:        m.Name,
		Description: m.Description,
	}
}

type denomMetadataResponse struct {
	Metadata entity.DenomMetadata `json:"metadata"`
}

// queryDenomMetadata fetches bank metadata. Metadata without matching base and display units
// is treated as missing.
func (s *TokenMetadataService) queryDenomMetadata(ctx context.Context, chainID, denom string) (entity.DenomMetadata, bool) {
	var resp denomMetadataResponse
	err := s.endpoints.RequestJSON(ctx, chainID, entity.EndpointKindREST, port.RequestOptions{
		Path: denomsMetadataPath + "/" + url.PathEscape(denom),
	}, &resp)
	if err != nil {
		s.logger.Debug("Denom metadata query failed", zap.String("chainId", chainID), zap.String("denom", denom), zap.Error(err))
		return entity.DenomMetadata{}, false
	}
	if !hasUnits(resp.Metadata) {
		return entity.DenomMetadata{}, false
	}
	return resp.Metadata, true
}

func hasUnits(m entity.DenomMetadata) bool {
	var base, display bool
	for _, u := range m.DenomUnits {
		base = base || u.Denom == m.Base
		display = display || u.Denom == m.Display
	}
	return base && display
}

// BatchResolve resolves denoms concurrently.
func (s *TokenMetadataService) BatchResolve(ctx context.Context, chain entity.ChainInfo, denoms []string) map[string]entity.TokenMetadata {
	var mu sync.Mutex
	out := make(map[string]entity.TokenMetadata, len(denoms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, denom := range denoms {
		denom := denom
		g.Go(func() error {
			md := s.Resolve(gctx, chain, denom)
			mu.Lock()
			out[denom] = md
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

type denomsMetadataResponse struct {
	Metadatas []entity.DenomMetadata `json:"metadatas"`
}

// Preload caches every denomination the chain publishes metadata for and returns how many
// entries were stored.
func (s *TokenMetadataService) Preload(ctx context.Context, chain entity.ChainInfo) (int, error) {
	var resp denomsMetadataResponse
	err := s.endpoints.RequestJSON(ctx, chain.ChainID, entity.EndpointKindREST, port.RequestOptions{
		Path: denomsMetadataPath + "?pagination.limit=" + strconv.Itoa(s.preloadLimit),
	}, &resp)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, m := range resp.Metadatas {
		if !hasUnits(m) {
			continue
		}
		s.store(ctx, chain.ChainID, s.fromDenomMetadata(m.Base, m))
		stored++
	}
	s.logger.Info("Preloaded token metadata",
		zap.String("chainId", chain.ChainID), zap.Int("published", len(resp.Metadatas)), zap.Int("stored", stored),
	)
	return stored, nil
}

// SetDecimalsOverride shadows the decimals of denom on chainID for the rest of the session.
func (s *TokenMetadataService) SetDecimalsOverride(chainID, denom string, decimals int) error {
	if denom == "" {
		return fmt.Errorf("%w: denom is required", apperrors.ErrInvalidInput)
	}
	if decimals < 0 || decimals > MaxDecimals {
		return fmt.Errorf("%w: decimals must be between 0 and %d, got %d", apperrors.ErrInvalidInput, MaxDecimals, decimals)
	}
	s.mu.Lock()
	s.overrides[overrideKey{chainID: chainID, denom: denom}] = decimals
	s.mu.Unlock()
	s.logger.Info("Decimals override set", zap.String("chainId", chainID), zap.String("denom", denom), zap.Int("decimals", decimals))
	return nil
}

// ClearDecimalsOverride removes a manual override.
func (s *TokenMetadataService) ClearDecimalsOverride(chainID, denom string) {
	s.mu.Lock()
	delete(s.overrides, overrideKey{chainID: chainID, denom: denom})
	s.mu.Unlock()
}

// ClearCache drops every cached resolution. Overrides are kept.
func (s *TokenMetadataService) ClearCache(ctx context.Context) error {
	if err := s.cache.ClearMetadata(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheFailure, err)
	}
	s.logger.Info("Token metadata cache cleared")
	return nil
}
