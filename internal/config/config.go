package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Resilience ResilienceConfig `mapstructure:"resilience"`
	Endpoints  EndpointsConfig  `mapstructure:"endpoints"`
	Chains     []ChainConfig    `mapstructure:"chains"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Metadata   MetadataConfig   `mapstructure:"metadata"`
	Transfer   TransferConfig   `mapstructure:"transfer"`
	Skip       SkipConfig       `mapstructure:"skip"`
	Wallet     WalletConfig     `mapstructure:"wallet"`
	Prefs      PrefsConfig      `mapstructure:"prefs"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	// HandlerTimeout bounds a single API call, including waiting for confirmation.
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// ResilienceConfig controls endpoint health checking and request failover.
type ResilienceConfig struct {
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval"`
	ProbeTimeout        time.Duration `mapstructure:"probe_timeout"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	MaxAttempts         int           `mapstructure:"max_attempts"`
	BackoffBase         time.Duration `mapstructure:"backoff_base"`
	MaxWorkers          int           `mapstructure:"max_workers"`
	// RefreshInterval drives the background probe of configured chains; zero disables it.
	RefreshInterval  time.Duration `mapstructure:"refresh_interval"`
	RefreshOnStartup bool          `mapstructure:"refresh_on_startup"`
}

// EndpointPair is an RPC/REST couple for one chain.
type EndpointPair struct {
	RPC  string `mapstructure:"rpc"`
	REST string `mapstructure:"rest"`
}

// EndpointsConfig lists endpoint candidates. Templates may contain {chainId}.
type EndpointsConfig struct {
	SkipRPCTemplate  string                  `mapstructure:"skip_rpc_template"`
	SkipRESTTemplate string                  `mapstructure:"skip_rest_template"`
	Overrides        map[string]EndpointPair `mapstructure:"overrides"`
	RPCFallbacks     map[string][]string     `mapstructure:"rpc_fallbacks"`
	RESTFallbacks    map[string][]string     `mapstructure:"rest_fallbacks"`
}

// CurrencyConfig is a known currency of a configured chain.
type CurrencyConfig struct {
	Denom        string `mapstructure:"denom"`
	MinimalDenom string `mapstructure:"minimal_denom"`
	Decimals     int    `mapstructure:"decimals"`
}

// ChainConfig is a chain known without asking the route service.
type ChainConfig struct {
	ChainID         string           `mapstructure:"chain_id"`
	ChainName       string           `mapstructure:"chain_name"`
	Bech32Prefix    string           `mapstructure:"bech32_prefix"`
	Currencies      []CurrencyConfig `mapstructure:"currencies"`
	FeeDenom        string           `mapstructure:"fee_denom"`
	GasPrice        string           `mapstructure:"gas_price"`
	GasMultiplier   float64          `mapstructure:"gas_multiplier"`
	EurekaContract  string           `mapstructure:"eureka_contract"`
	EurekaChannel   string           `mapstructure:"eureka_channel"`
	SupportedRoutes []string         `mapstructure:"supported_routes"`
	IsTestnet       bool             `mapstructure:"is_testnet"`
}

// CacheConfig holds settings for the caching layer.
type CacheConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	ChainsTTL         time.Duration `mapstructure:"chains_ttl"`
}

// MetadataConfig controls token metadata resolution.
type MetadataConfig struct {
	DefaultDecimals  int `mapstructure:"default_decimals"`
	PreloadLimit     int `mapstructure:"preload_limit"`
	BatchConcurrency int `mapstructure:"batch_concurrency"`
}

// EurekaConfig describes the Eureka entry contract.
type EurekaConfig struct {
	Contract           string              `mapstructure:"contract"`
	Channel            string              `mapstructure:"channel"`
	Encoding           string              `mapstructure:"encoding"`
	SourceChainID      string              `mapstructure:"source_chain_id"`
	DestinationChainID string              `mapstructure:"destination_chain_id"`
	MinAmounts         map[string]string   `mapstructure:"min_amounts"`
	Routes             map[string][]string `mapstructure:"routes"`
}

// TransferConfig controls how warm-up transfers are built and submitted.
type TransferConfig struct {
	TimeoutHorizon    time.Duration `mapstructure:"timeout_horizon"`
	GasMultiplier     float64       `mapstructure:"gas_multiplier"`
	SimulateFeeAmount string        `mapstructure:"simulate_fee_amount"`
	FeeAmount         string        `mapstructure:"fee_amount"`
	HistorySize       int           `mapstructure:"history_size"`
	TrackingTimeout   time.Duration `mapstructure:"tracking_timeout"`
	Eureka            EurekaConfig  `mapstructure:"eureka"`
}

// SkipConfig holds configuration for the Skip route API.
type SkipConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	ClientID string        `mapstructure:"client_id"`
}

// WalletConfig configures the local signing wallet.
type WalletConfig struct {
	PrivateKeyHex string `mapstructure:"private_key_hex"`
}

// PrefsConfig locates the persisted preference file.
type PrefsConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "route-warmer")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.handler_timeout", "3m")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("resilience.health_check_interval", "30s")
	v.SetDefault("resilience.probe_timeout", "5s")
	v.SetDefault("resilience.request_timeout", "10s")
	v.SetDefault("resilience.max_attempts", 3)
	v.SetDefault("resilience.backoff_base", "1s")
	v.SetDefault("resilience.max_workers", 8)
	v.SetDefault("resilience.refresh_interval", "0s")
	v.SetDefault("resilience.refresh_on_startup", false)

	v.SetDefault("endpoints.skip_rpc_template", "https://go.skip.build/api/rpc/{chainId}")
	v.SetDefault("endpoints.skip_rest_template", "")
	v.SetDefault("endpoints.overrides", defaultOverrides())
	v.SetDefault("endpoints.rpc_fallbacks", defaultRPCFallbacks())
	v.SetDefault("endpoints.rest_fallbacks", defaultRESTFallbacks())
	v.SetDefault("chains", defaultChains())

	v.SetDefault("cache.default_expiration", "30m")
	v.SetDefault("cache.cleanup_interval", "1h")
	v.SetDefault("cache.chains_ttl", "30m")

	v.SetDefault("metadata.default_decimals", 6)
	v.SetDefault("metadata.preload_limit", 1000)
	v.SetDefault("metadata.batch_concurrency", 8)

	v.SetDefault("transfer.timeout_horizon", "12h")
	v.SetDefault("transfer.gas_multiplier", 1.5)
	v.SetDefault("transfer.simulate_fee_amount", "1000")
	v.SetDefault("transfer.fee_amount", "0")
	v.SetDefault("transfer.history_size", 10)
	v.SetDefault("transfer.tracking_timeout", "2m")
	v.SetDefault("transfer.eureka.contract", "cosmos1clswlqlfm8gpn7n5wu0ypu0ugaj36urlhj7yz30hn7v7mkcm2tuqy9f8s5")
	v.SetDefault("transfer.eureka.channel", "08-wasm-1369")
	v.SetDefault("transfer.eureka.encoding", "application/x-solidity-abi")
	v.SetDefault("transfer.eureka.source_chain_id", "cosmoshub-4")
	v.SetDefault("transfer.eureka.destination_chain_id", "1")
	v.SetDefault("transfer.eureka.min_amounts", map[string]string{
		"uatom": "1000000",
		"uosmo": "1000000",
		"untrn": "1000000",
		"ustrd": "1000000",
	})
	v.SetDefault("transfer.eureka.routes", map[string][]string{
		"cosmoshub-4": {"1"},
		"osmosis-1":   {"1"},
		"neutron-1":   {"1"},
		"stride-1":    {"1"},
	})

	v.SetDefault("skip.base_url", "https://api.skip.build/v2")
	v.SetDefault("skip.timeout", "15s")
	v.SetDefault("skip.client_id", "")
	v.SetDefault("wallet.private_key_hex", "")
	v.SetDefault("prefs.path", "data/preferences.yaml")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
	}

	v.SetEnvPrefix("ROUTE_WARMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// FindChain returns the configured chain with the given id.
func (c Config) FindChain(chainID string) (ChainConfig, bool) {
	for _, ch := range c.Chains {
		if ch.ChainID == chainID {
			return ch, true
		}
	}
	return ChainConfig{}, false
}

// Attempts returns the retry ceiling, at least one.
func (c ResilienceConfig) Attempts() int {
	if c.MaxAttempts <= 0 {
		return 1
	}
	return c.MaxAttempts
}

func (c CacheConfig) GetDefaultExpiration() time.Duration {
	return c.DefaultExpiration
}

func (c CacheConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}
