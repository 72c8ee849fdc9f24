package skip_dto

// ChainTypeRaw is the chain family as reported by the Skip API.
type ChainTypeRaw string

// Known chain families.
const (
	ChainTypeCosmosRaw ChainTypeRaw = "cosmos"
	ChainTypeEVMRaw    ChainTypeRaw = "evm"
	ChainTypeSVMRaw    ChainTypeRaw = "svm"
)

// ChainsResponseRaw is the body of GET /info/chains.
type ChainsResponseRaw struct {
	Chains []ChainRaw `json:"chains"`
}

// ChainRaw represents a chain as received from the Skip API.
type ChainRaw struct {
	ChainName    string        `json:"chain_name"`
	ChainID      string        `json:"chain_id"`
	PrettyName   string        `json:"pretty_name,omitempty"`
	ChainType    ChainTypeRaw  `json:"chain_type"`
	IsTestnet    bool          `json:"is_testnet"`
	Bech32Prefix string        `json:"bech32_prefix"`
	LogoURI      string        `json:"logo_uri,omitempty"`
	PFMEnabled   bool          `json:"pfm_enabled,omitempty"`
	SupportsMemo bool          `json:"supports_memo,omitempty"`
	FeeAssets    []FeeAssetRaw `json:"fee_assets,omitempty"`
}

// FeeAssetRaw is a fee currency of a chain.
type FeeAssetRaw struct {
	Denom    string       `json:"denom"`
	GasPrice *GasPriceRaw `json:"gas_price,omitempty"`
}

// GasPriceRaw holds advertised gas prices as decimal strings.
type GasPriceRaw struct {
	Low     string `json:"low"`
	Average string `json:"average"`
	High    string `json:"high"`
}

// RecommendAssetsRequestRaw is the body of POST /fungible/recommend_assets.
type RecommendAssetsRequestRaw struct {
	Requests []RecommendationRequestRaw `json:"requests"`
	ClientID string                     `json:"client_id,omitempty"`
}

// RecommendationRequestRaw asks where an asset ends up on a destination chain.
type RecommendationRequestRaw struct {
	SourceAssetDenom   string `json:"source_asset_denom"`
	SourceAssetChainID string `json:"source_asset_chain_id"`
	DestChainID        string `json:"dest_chain_id"`
}

// RecommendAssetsResponseRaw is the answer of POST /fungible/recommend_assets.
type RecommendAssetsResponseRaw struct {
	RecommendationEntries []RecommendationEntryRaw `json:"recommendation_entries"`
}

// RecommendationEntryRaw holds the recommendations for one request.
type RecommendationEntryRaw struct {
	Recommendations []RecommendationRaw `json:"recommendations"`
	Error           *ErrorRaw           `json:"error,omitempty"`
}

// RecommendationRaw is one recommended destination asset.
type RecommendationRaw struct {
	Asset  AssetRaw `json:"asset"`
	Reason string   `json:"reason,omitempty"`
}

// AssetRaw is an asset on a chain; Trace is "transfer/channel-N[/transfer/channel-M...]".
type AssetRaw struct {
	Denom       string `json:"denom"`
	ChainID     string `json:"chain_id"`
	OriginDenom string `json:"origin_denom,omitempty"`
	Trace       string `json:"trace"`
	Symbol      string `json:"symbol,omitempty"`
	Decimals    int    `json:"decimals,omitempty"`
}

// ErrorRaw is the Skip API error body.
type ErrorRaw struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
