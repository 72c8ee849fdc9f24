package skip

import (
	"strings"

	dto "route-warmer/internal/adapter/skip/dto"
	"route-warmer/internal/domain/entity"

	"go.uber.org/zap"
)

// mapChainType converts a raw chain family to its domain counterpart.
func mapChainType(raw dto.ChainTypeRaw) entity.ChainType {
	switch raw {
	case dto.ChainTypeCosmosRaw:
		return entity.ChainTypeCosmos
	case dto.ChainTypeEVMRaw:
		return entity.ChainTypeEVM
	case dto.ChainTypeSVMRaw:
		return entity.ChainTypeSVM
	default:
		return entity.ChainType(strings.ToLower(string(raw)))
	}
}

// toDomainChains converts raw chains, dropping entries without a chain id. Fee assets become
// fee currencies only; their decimals are unknown and left to metadata resolution.
func toDomainChains(rawChains []dto.ChainRaw, logger *zap.Logger) []entity.ChainInfo {
	if rawChains == nil {
		return nil
	}
	chains := make([]entity.ChainInfo, 0, len(rawChains))
	for _, raw := range rawChains {
		if raw.ChainID == "" {
			if logger != nil {
				logger.Warn("Skipping chain without id during mapping", zap.String("chainName", raw.ChainName))
			}
			continue
		}

		var fees []entity.FeeCurrency
		if raw.FeeAssets != nil {
			fees = make([]entity.FeeCurrency, 0, len(raw.FeeAssets))
			for _, fa := range raw.FeeAssets {
				fee := entity.FeeCurrency{Denom: fa.Denom}
				if fa.GasPrice != nil {
					fee.GasPrice = entity.GasPriceStep{Low: fa.GasPrice.Low, Average: fa.GasPrice.Average, High: fa.GasPrice.High}
				}
				fees = append(fees, fee)
			}
		}

		name := raw.PrettyName
		if name == "" {
			name = raw.ChainName
		}
		chains = append(chains, entity.ChainInfo{
			ChainID:       raw.ChainID,
			ChainName:     name,
			Bech32Prefix:  raw.Bech32Prefix,
			ChainType:     mapChainType(raw.ChainType),
			IsTestnet:     raw.IsTestnet,
			FeeCurrencies: fees,
		})
	}
	return chains
}
