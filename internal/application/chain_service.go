package application

import (
	"context"
	"fmt"
	"time"

	"route-warmer/internal/application/port"
	"route-warmer/internal/config"
	"route-warmer/internal/domain"
	"route-warmer/internal/domain/entity"
	domainRepo "route-warmer/internal/domain/repository"
	"route-warmer/internal/pkg/address"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Compile-time check
var _ port.ChainService = (*ChainService)(nil)

const (
	mainnetKey = "mainnet"
	testnetKey = "testnet"
)

// ChainService answers chain questions from configuration first and the route service listing
// second.
type ChainService struct {
	chainRepo  domainRepo.ChainRepository
	cacheRepo  domainRepo.ChainCacheRepository
	configured []config.ChainConfig
	ttl        time.Duration
	logger     *zap.Logger
}

// NewChainService creates a new instance of the chain service.
func NewChainService(
	chainRepo domainRepo.ChainRepository,
	cacheRepo domainRepo.ChainCacheRepository,
	cfg config.Config,
	logger *zap.Logger,
) *ChainService {
	return &ChainService{
		chainRepo:  chainRepo,
		cacheRepo:  cacheRepo,
		configured: cfg.Chains,
		ttl:        cfg.Cache.ChainsTTL,
		logger:     logger.Named("ChainService"),
	}
}

func (s *ChainService) findConfigured(chainID string) (entity.ChainInfo, bool) {
	for _, ch := range s.configured {
		if ch.ChainID == chainID {
			return ch.Info(), true
		}
	}
	return entity.ChainInfo{}, false
}

// GetChain returns the configured chain or the listed one with the given id.
func (s *ChainService) GetChain(ctx context.Context, chainID string) (entity.ChainInfo, error) {
	if info, ok := s.findConfigured(chainID); ok {
		return info, nil
	}

	for _, testnets := range []bool{false, true} {
		chains, err := s.listed(ctx, testnets)
		if err != nil {
			return entity.ChainInfo{}, fmt.Errorf("looking up chain %s: %w", chainID, err)
		}
		for _, ch := range chains {
			if ch.ChainID == chainID {
				return ch, nil
			}
		}
	}
	return entity.ChainInfo{}, fmt.Errorf("%w: %s", domain.ErrChainNotFound, chainID)
}

// ListChains returns mainnet chains, plus testnets when asked, with configured entries taking
// the place of listed ones.
func (s *ChainService) ListChains(ctx context.Context, filter port.ChainFilter) ([]entity.ChainInfo, error) {
	networks := []bool{false}
	if filter.Testnets {
		networks = append(networks, true)
	}

	results := make([][]entity.ChainInfo, len(networks))
	g, gctx := errgroup.WithContext(ctx)
	for i, testnets := range networks {
		i, testnets := i, testnets
		g.Go(func() error {
			chains, err := s.listed(gctx, testnets)
			if err != nil {
				return err
			}
			results[i] = s.withConfigured(chains, testnets)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []entity.ChainInfo
	for _, chains := range results {
		for _, ch := range chains {
			if filter.CosmosOnly && ch.ChainType != entity.ChainTypeCosmos {
				continue
			}
			out = append(out, ch)
		}
	}
	return out, nil
}

// withConfigured overlays configured chains of the same network onto a listing.
func (s *ChainService) withConfigured(listed []entity.ChainInfo, testnets bool) []entity.ChainInfo {
	out := make([]entity.ChainInfo, 0, len(listed)+len(s.configured))
	seen := make(map[string]struct{}, len(s.configured))
	for _, ch := range listed {
		if info, ok := s.findConfigured(ch.ChainID); ok {
			if info.ChainName == "" {
				info.ChainName = ch.ChainName
			}
			if len(info.FeeCurrencies) == 0 {
				info.FeeCurrencies = ch.FeeCurrencies
			}
			ch = info
			seen[ch.ChainID] = struct{}{}
		}
		out = append(out, ch)
	}
	for _, cc := range s.configured {
		if _, ok := seen[cc.ChainID]; ok || cc.IsTestnet != testnets {
			continue
		}
		out = append(out, cc.Info())
	}
	return out
}

// listed returns the route service listing, cached per network.
func (s *ChainService) listed(ctx context.Context, testnets bool) ([]entity.ChainInfo, error) {
	key := mainnetKey
	if testnets {
		key = testnetKey
	}

	cached, found, err := s.cacheRepo.GetChains(ctx, key)
	if err != nil {
		s.logger.Warn("Cache error when getting chains", zap.String("key", key), zap.Error(err))
	}
	if found {
		return cached, nil
	}

	s.logger.Debug("Cache miss for chains, fetching from repository", zap.String("key", key))
	chains, err := s.chainRepo.GetAllChains(ctx, testnets)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s chains from repository: %w", key, err)
	}
	if err := s.cacheRepo.SetChains(ctx, key, chains, s.ttl); err != nil {
		s.logger.Error("Failed to cache chains", zap.String("key", key), zap.Error(err))
	}
	s.logger.Info("Fetched chains", zap.String("key", key), zap.Int("count", len(chains)))
	return chains, nil
}

// ChainIDForAddress maps an address to the chain that uses its bech32 prefix.
func (s *ChainService) ChainIDForAddress(ctx context.Context, addr string) (string, error) {
	prefix, err := address.Prefix(addr)
	if err != nil {
		return "", err
	}
	for _, ch := range s.configured {
		if ch.Bech32Prefix == prefix {
			return ch.ChainID, nil
		}
	}

	chains, err := s.listed(ctx, false)
	if err != nil {
		return "", fmt.Errorf("resolving chain for prefix %q: %w", prefix, err)
	}
	for _, ch := range chains {
		if ch.Bech32Prefix == prefix {
			return ch.ChainID, nil
		}
	}
	return "", fmt.Errorf("%w: no chain uses the bech32 prefix %q", domain.ErrChainNotFound, prefix)
}

// ConfiguredChainIDs lists the ids of the chains known from configuration.
func (s *ChainService) ConfiguredChainIDs() []string {
	ids := make([]string, 0, len(s.configured))
	for _, ch := range s.configured {
		ids = append(ids, ch.ChainID)
	}
	return ids
}
