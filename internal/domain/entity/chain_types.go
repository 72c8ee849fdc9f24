package entity

// ChainType classifies chains as listed by the route service.
type ChainType string

// Constants for known chain types.
const (
	ChainTypeCosmos ChainType = "cosmos"
	ChainTypeEVM    ChainType = "evm"
	ChainTypeSVM    ChainType = "svm"
)

// RouteType names the transfer paths a chain can originate.
type RouteType string

// Supported route types.
const (
	RouteStandardIBC    RouteType = "standard-ibc"
	RouteEurekaCosmos   RouteType = "eureka-cosmos"
	RouteEurekaEthereum RouteType = "eureka-ethereum"
)

// Currency is one entry of a chain's known currency list.
type Currency struct {
	CoinDenom        string `json:"coinDenom" mapstructure:"coin_denom"`
	CoinMinimalDenom string `json:"coinMinimalDenom" mapstructure:"coin_minimal_denom"`
	CoinDecimals     int    `json:"coinDecimals" mapstructure:"coin_decimals"`
}

// GasPriceStep holds the low/average/high gas prices advertised for a fee asset.
type GasPriceStep struct {
	Low     string `json:"low,omitempty"`
	Average string `json:"average,omitempty"`
	High    string `json:"high,omitempty"`
}

// FeeCurrency is a currency accepted for fees on the chain.
type FeeCurrency struct {
	Denom    string       `json:"denom"`
	GasPrice GasPriceStep `json:"gasPrice"`
}

// ChainInfo describes a chain as needed to build, simulate and broadcast transfers.
type ChainInfo struct {
	ChainID         string        `json:"chainId"`
	ChainName       string        `json:"chainName"`
	Bech32Prefix    string        `json:"bech32Prefix"`
	ChainType       ChainType     `json:"chainType"`
	IsTestnet       bool          `json:"isTestnet"`
	Currencies      []Currency    `json:"currencies,omitempty"`
	FeeCurrencies   []FeeCurrency `json:"feeCurrencies,omitempty"`
	GasMultiplier   float64       `json:"gasMultiplier,omitempty"`
	EurekaContract  string        `json:"eurekaContract,omitempty"`
	EurekaChannel   string        `json:"eurekaChannel,omitempty"`
	SupportedRoutes []RouteType   `json:"supportedRoutes,omitempty"`
}

// FindCurrency looks up a currency by its minimal denomination.
func (c ChainInfo) FindCurrency(minimalDenom string) (Currency, bool) {
	for _, cur := range c.Currencies {
		if cur.CoinMinimalDenom == minimalDenom {
			return cur, true
		}
	}
	return Currency{}, false
}

// FeeDenom returns the first fee currency, or fallback when the chain lists none.
func (c ChainInfo) FeeDenom(fallback string) string {
	if len(c.FeeCurrencies) > 0 && c.FeeCurrencies[0].Denom != "" {
		return c.FeeCurrencies[0].Denom
	}
	return fallback
}

// Supports reports whether the chain can originate the given route type.
// Chains without an explicit list are assumed to support plain IBC only.
func (c ChainInfo) Supports(route RouteType) bool {
	if len(c.SupportedRoutes) == 0 {
		return route == RouteStandardIBC
	}
	for _, r := range c.SupportedRoutes {
		if r == route {
			return true
		}
	}
	return false
}
