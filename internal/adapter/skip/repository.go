package skip

import (
	"context"
	"strconv"

	dto "route-warmer/internal/adapter/skip/dto"
	"route-warmer/internal/domain/entity"
	domainRepo "route-warmer/internal/domain/repository"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.ChainRepository = (*Repository)(nil)

// Repository implements ChainRepository on the Skip chain listing.
type Repository struct {
	client *Client
	logger *zap.Logger
}

// NewRepository creates a new Skip chain repository.
func NewRepository(client *Client, logger *zap.Logger) *Repository {
	return &Repository{
		client: client,
		logger: logger.Named("SkipChainStorage"),
	}
}

// GetAllChains fetches mainnet or testnet chains, including EVM and SVM ones.
func (r *Repository) GetAllChains(ctx context.Context, testnets bool) ([]entity.ChainInfo, error) {
	path := "/info/chains?include_evm=true&include_svm=true&only_testnets=" + strconv.FormatBool(testnets)

	var raw dto.ChainsResponseRaw
	if err := r.client.do(ctx, fasthttp.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	r.logger.Info("Successfully fetched raw chains from Skip API",
		zap.Int("count", len(raw.Chains)), zap.Bool("testnets", testnets),
	)

	chains := toDomainChains(raw.Chains, r.logger)
	r.logger.Debug("Mapped raw DTOs to domain entities", zap.Int("count", len(chains)))
	return chains, nil
}
