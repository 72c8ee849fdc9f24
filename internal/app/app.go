// Package app wires the route warmer's adapters and services for the API server and the CLI.
package app

import (
	"context"
	"fmt"

	handler "route-warmer/internal/adapter/handler/http"
	"route-warmer/internal/adapter/rpc"
	"route-warmer/internal/adapter/skip"
	"route-warmer/internal/adapter/storage/memory"
	"route-warmer/internal/adapter/storage/prefs"
	"route-warmer/internal/adapter/wallet"
	"route-warmer/internal/application"
	"route-warmer/internal/config"
	"route-warmer/internal/domain/message"
	domainService "route-warmer/internal/domain/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv reads .env and lets .env.local override it. Missing files are ignored.
func LoadEnv() {
	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")
}

// App holds the wired services.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Chains    *application.ChainService
	Endpoints *application.EndpointService
	Tokens    *application.TokenMetadataService
	Transfers *application.TransferService
	Prefs     *prefs.FileStore
}

// New builds every adapter and service from cfg.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	logger.Info("Initializing dependencies...")

	// Storage
	cacheRepo := memory.NewCacheRepository(cfg.Cache, logger)
	history := memory.NewHistoryRepository(cfg.Transfer.HistorySize)
	prefStore := prefs.NewFileStore(cfg.Prefs.Path, logger)

	// Route service
	skipClient := skip.NewClient(cfg.Skip, logger)
	chainService := application.NewChainService(skip.NewRepository(skipClient, logger), cacheRepo, *cfg, logger)

	// Nodes
	nodeClient := rpc.NewClient(cfg.Resilience.RequestTimeout, logger)
	registry := application.NewEndpointRegistry(application.ConfigCandidates(cfg.Endpoints))
	endpoints := application.NewEndpointService(
		registry,
		rpc.NewProber(nodeClient, cfg.Resilience.ProbeTimeout, logger),
		nodeClient,
		cfg.Resilience,
		logger,
	)

	var signer domainService.Wallet = wallet.Unconfigured{}
	if cfg.Wallet.PrivateKeyHex != "" {
		local, err := wallet.NewLocalWallet(cfg.Wallet.PrivateKeyHex, chainService, endpoints, logger)
		if err != nil {
			return nil, fmt.Errorf("creating wallet: %w", err)
		}
		signer = local
	} else {
		logger.Warn("No wallet key configured; simulation and broadcasts are disabled")
	}

	tokens := application.NewTokenMetadataService(endpoints, cacheRepo, cfg.Metadata, logger)
	oracle := application.NewAccountOracle(endpoints, logger)
	tracker := rpc.NewTracker(nodeClient, cfg.Resilience.ProbeTimeout, logger)
	broadcaster := application.NewBroadcaster(oracle, signer, tracker, endpoints, cfg.Transfer.TrackingTimeout, logger)

	builder := message.NewBuilder(cfg.Transfer.TimeoutHorizon, message.EurekaConfig{
		Contract:   cfg.Transfer.Eureka.Contract,
		Channel:    cfg.Transfer.Eureka.Channel,
		Encoding:   cfg.Transfer.Eureka.Encoding,
		MinAmounts: cfg.Transfer.Eureka.MinAmounts,
		Routes:     cfg.Transfer.Eureka.Routes,
	})

	transfers := application.NewTransferService(application.TransferDeps{
		Chains:      chainService,
		Tokens:      tokens,
		Builder:     builder,
		Oracle:      oracle,
		Broadcaster: broadcaster,
		Recommender: skip.NewRecommender(skipClient, logger),
		Keys:        signer,
		History:     history,
		Prefs:       prefStore,
	}, cfg.Transfer, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Chains:    chainService,
		Endpoints: endpoints,
		Tokens:    tokens,
		Transfers: transfers,
		Prefs:     prefStore,
	}, nil
}

// Handler builds the API handler over the wired services.
func (a *App) Handler() *handler.Handler {
	return handler.NewHandler(handler.Services{
		Chains:    a.Chains,
		Endpoints: a.Endpoints,
		Tokens:    a.Tokens,
		Transfers: a.Transfers,
		Prefs:     a.Prefs,
	}, a.Config.Server.HandlerTimeout, a.Logger)
}

// StartBackground runs the periodic endpoint refresh of configured chains until ctx is done.
func (a *App) StartBackground(ctx context.Context) {
	go a.Endpoints.StartBackgroundRefresh(ctx, a.Chains.ConfiguredChainIDs())
}
