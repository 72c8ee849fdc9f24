package config

import "route-warmer/internal/domain/entity"

func defaultOverrides() map[string]EndpointPair {
	publicnode := func(name string) EndpointPair {
		return EndpointPair{
			RPC:  "https://" + name + "-rpc.publicnode.com:443",
			REST: "https://" + name + "-rest.publicnode.com",
		}
	}
	return map[string]EndpointPair{
		"neutron-1": {
			RPC:  "https://rpc-kralum.neutron-1.neutron.org",
			REST: "https://rest-kralum.neutron-1.neutron.org",
		},
		"cosmoshub-4":    publicnode("cosmos"),
		"osmosis-1":      publicnode("osmosis"),
		"axelar-dojo-1":  publicnode("axelar"),
		"stride-1":       publicnode("stride"),
		"juno-1":         publicnode("juno"),
		"stargaze-1":     publicnode("stargaze"),
		"kaiyo-1":        publicnode("kujira"),
		"akashnet-2":     publicnode("akash"),
		"secret-4":       publicnode("secret"),
		"celestia":       publicnode("celestia"),
		"dydx-mainnet-1": publicnode("dydx"),
	}
}

func defaultRPCFallbacks() map[string][]string {
	return map[string][]string{
		"osmosis-1": {
			"https://rpc.osmosis.zone",
			"https://osmosis-rpc.polkachu.com",
			"https://rpc-osmosis.blockapsis.com",
			"https://osmosis.rpc.m.stavr.tech",
		},
		"cosmoshub-4": {
			"https://rpc.cosmos.network",
			"https://cosmos-rpc.polkachu.com",
			"https://rpc-cosmoshub.blockapsis.com",
			"https://cosmos.rpc.m.stavr.tech",
			"https://cosmos-rpc.publicnode.com",
			"https://rpc.cosmoshub.io",
		},
		"neutron-1": {
			"https://rpc-neutron.whispernode.com",
			"https://neutron-rpc.polkachu.com",
			"https://rpc-kralum.neutron-1.neutron.org",
		},
		"stride-1": {
			"https://stride-rpc.polkachu.com",
			"https://stride.rpc.m.stavr.tech",
			"https://rpc.stride.zone",
		},
		"axelar-dojo-1": {
			"https://axelar-rpc.polkachu.com",
			"https://axelar.rpc.m.stavr.tech",
			"https://rpc-axelar.imperator.co",
		},
	}
}

func defaultRESTFallbacks() map[string][]string {
	return map[string][]string{
		"osmosis-1": {
			"https://lcd.osmosis.zone",
			"https://osmosis-api.polkachu.com",
			"https://api-osmosis.blockapsis.com",
			"https://osmosis.api.m.stavr.tech",
		},
		"cosmoshub-4": {
			"https://api.cosmos.network",
			"https://rest.cosmos.network",
			"https://cosmos-api.polkachu.com",
			"https://api-cosmoshub.blockapsis.com",
			"https://cosmos.api.m.stavr.tech",
			"https://cosmos-rest.publicnode.com",
			"https://api.cosmoshub.io",
		},
		"neutron-1": {
			"https://lcd-neutron.whispernode.com",
			"https://neutron-api.polkachu.com",
			"https://api-kralum.neutron-1.neutron.org",
		},
		"stride-1": {
			"https://stride-api.polkachu.com",
			"https://stride.api.m.stavr.tech",
			"https://api.stride.zone",
		},
		"axelar-dojo-1": {
			"https://axelar-api.polkachu.com",
			"https://axelar.api.m.stavr.tech",
			"https://api-axelar.imperator.co",
		},
	}
}

func defaultChains() []ChainConfig {
	return []ChainConfig{
		{
			ChainID:         "osmosis-1",
			ChainName:       "Osmosis",
			Bech32Prefix:    "osmo",
			Currencies:      []CurrencyConfig{{Denom: "OSMO", MinimalDenom: "uosmo", Decimals: 6}},
			FeeDenom:        "uosmo",
			GasPrice:        "0.025",
			GasMultiplier:   1.5,
			SupportedRoutes: []string{"standard-ibc", "eureka-cosmos", "eureka-ethereum"},
		},
		{
			ChainID:         "cosmoshub-4",
			ChainName:       "Cosmos Hub",
			Bech32Prefix:    "cosmos",
			Currencies:      []CurrencyConfig{{Denom: "ATOM", MinimalDenom: "uatom", Decimals: 6}},
			FeeDenom:        "uatom",
			GasPrice:        "0.025",
			GasMultiplier:   1.5,
			EurekaContract:  "cosmos1clswlqlfm8gpn7n5wu0ypu0ugaj36urlhj7yz30hn7v7mkcm2tuqy9f8s5",
			EurekaChannel:   "08-wasm-1369",
			SupportedRoutes: []string{"standard-ibc", "eureka-cosmos", "eureka-ethereum"},
		},
		{
			ChainID:         "seda-1",
			ChainName:       "SEDA",
			Bech32Prefix:    "seda",
			Currencies:      []CurrencyConfig{{Denom: "SEDA", MinimalDenom: "aseda", Decimals: 18}},
			FeeDenom:        "aseda",
			GasPrice:        "10000000000",
			GasMultiplier:   1.5,
			SupportedRoutes: []string{"standard-ibc", "eureka-cosmos"},
		},
		{
			ChainID:         "axelar-dojo-1",
			ChainName:       "Axelar",
			Bech32Prefix:    "axelar",
			Currencies:      []CurrencyConfig{{Denom: "AXL", MinimalDenom: "uaxl", Decimals: 6}},
			FeeDenom:        "uaxl",
			GasPrice:        "0.007",
			GasMultiplier:   1.5,
			SupportedRoutes: []string{"standard-ibc"},
		},
	}
}

// Info converts the configured chain to its domain form.
func (c ChainConfig) Info() entity.ChainInfo {
	info := entity.ChainInfo{
		ChainID:        c.ChainID,
		ChainName:      c.ChainName,
		Bech32Prefix:   c.Bech32Prefix,
		ChainType:      entity.ChainTypeCosmos,
		IsTestnet:      c.IsTestnet,
		GasMultiplier:  c.GasMultiplier,
		EurekaContract: c.EurekaContract,
		EurekaChannel:  c.EurekaChannel,
	}
	for _, cur := range c.Currencies {
		info.Currencies = append(info.Currencies, entity.Currency{
			CoinDenom:        cur.Denom,
			CoinMinimalDenom: cur.MinimalDenom,
			CoinDecimals:     cur.Decimals,
		})
	}
	if c.FeeDenom != "" {
		info.FeeCurrencies = []entity.FeeCurrency{{
			Denom:    c.FeeDenom,
			GasPrice: entity.GasPriceStep{Average: c.GasPrice},
		}}
	}
	for _, r := range c.SupportedRoutes {
		info.SupportedRoutes = append(info.SupportedRoutes, entity.RouteType(r))
	}
	return info
}
