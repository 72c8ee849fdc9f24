package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"route-warmer/internal/application/port"
	"route-warmer/internal/config"
	"route-warmer/internal/domain"
	"route-warmer/internal/domain/entity"
	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/metrics"
	"route-warmer/internal/pkg/apperrors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Compile-time check
var _ port.EndpointService = (*EndpointService)(nil)

// EndpointService selects live node endpoints per chain and fails requests over between them.
type EndpointService struct {
	registry   *EndpointRegistry
	prober     domainService.EndpointProber
	client     domainService.NodeClient
	cfg        config.ResilienceConfig
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *zap.Logger
	isChecking *atomic.Bool
}

// EndpointOption customises an EndpointService.
type EndpointOption func(*EndpointService)

// WithClock replaces the wall clock used for staleness decisions.
func WithClock(now func() time.Time) EndpointOption {
	return func(s *EndpointService) { s.now = now }
}

// WithSleep replaces the backoff sleep.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) EndpointOption {
	return func(s *EndpointService) { s.sleep = sleep }
}

// NewEndpointService creates the endpoint resilience manager over registry.
func NewEndpointService(
	registry *EndpointRegistry,
	prober domainService.EndpointProber,
	client domainService.NodeClient,
	cfg config.ResilienceConfig,
	logger *zap.Logger,
	opts ...EndpointOption,
) *EndpointService {
	s := &EndpointService{
		registry:   registry,
		prober:     prober,
		client:     client,
		cfg:        cfg,
		now:        time.Now,
		sleep:      sleepContext,
		logger:     logger.Named("EndpointService"),
		isChecking: new(atomic.Bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Endpoints returns the chain's endpoints and their health, ordered by priority.
func (s *EndpointService) Endpoints(chainID string, kind entity.EndpointKind) []entity.Endpoint {
	return s.registry.Snapshot(chainID, kind)
}

// GetHealthyEndpoint returns the highest-priority healthy endpoint, re-probing entries whose
// health information is older than the health check interval. It returns
// domain.ErrNoHealthyEndpoint when nothing answers.
func (s *EndpointService) GetHealthyEndpoint(ctx context.Context, chainID string, kind entity.EndpointKind) (entity.EndpointURL, error) {
	endpoints := s.registry.Snapshot(chainID, kind)
	if len(endpoints) == 0 {
		return "", fmt.Errorf("%w: no %s endpoints configured for chain %s", domain.ErrNoHealthyEndpoint, kind, chainID)
	}

	now := s.now()
	ep, ok := firstHealthy(ctx, endpoints,
		func(e entity.Endpoint) bool { return e.IsStale(now, s.cfg.HealthCheckInterval) },
		func(e entity.Endpoint) bool { return e.IsHealthy() },
		func(ctx context.Context, e entity.Endpoint) bool { return s.probe(ctx, chainID, kind, e.URL) },
	)
	if !ok {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: selecting %s endpoint for %s: %v", apperrors.ErrTimeout, kind, chainID, err)
		}
		s.logger.Warn("No healthy endpoint available",
			zap.String("chainId", chainID), zap.String("kind", string(kind)), zap.Int("candidates", len(endpoints)),
		)
		return "", fmt.Errorf("%w: no healthy %s endpoint for chain %s", domain.ErrNoHealthyEndpoint, kind, chainID)
	}
	return ep.URL, nil
}

// MarkUnhealthy demotes an endpoint after a failed live request.
func (s *EndpointService) MarkUnhealthy(chainID string, kind entity.EndpointKind, url entity.EndpointURL, cause error) {
	if !s.registry.Record(chainID, kind, url, false, 0, cause, s.now()) {
		return
	}
	metrics.ObserveEndpointFailure(chainID, string(kind))
	s.logger.Warn("Endpoint marked unhealthy",
		zap.String("chainId", chainID), zap.String("kind", string(kind)), zap.String("url", url.String()), zap.Error(cause),
	)
}

func (s *EndpointService) probe(ctx context.Context, chainID string, kind entity.EndpointKind, url entity.EndpointURL) bool {
	probeCtx := ctx
	if s.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, s.cfg.ProbeTimeout)
		defer cancel()
	}

	latency, err := s.prober.Probe(probeCtx, chainID, kind, url)
	healthy := err == nil
	s.registry.Record(chainID, kind, url, healthy, latency, err, s.now())
	metrics.ObserveProbe(chainID, string(kind), healthy)

	if healthy {
		s.logger.Debug("Endpoint probe succeeded",
			zap.String("chainId", chainID), zap.String("url", url.String()), zap.Duration("latency", latency),
		)
	} else {
		s.logger.Debug("Endpoint probe failed",
			zap.String("chainId", chainID), zap.String("url", url.String()), zap.Error(err),
		)
	}
	return healthy
}

// Request performs an HTTP call against a healthy endpoint, failing over on transport errors
// and non-2xx answers. HTTP 400 and 404 are final answers from a live node and are not retried.
func (s *EndpointService) Request(ctx context.Context, chainID string, kind entity.EndpointKind, opts port.RequestOptions) ([]byte, error) {
	return s.request(ctx, chainID, kind, opts, nil)
}

// RequestJSON is Request followed by decoding the body into out. A body that does not decode
// counts as an endpoint failure.
func (s *EndpointService) RequestJSON(ctx context.Context, chainID string, kind entity.EndpointKind, opts port.RequestOptions, out any) error {
	_, err := s.request(ctx, chainID, kind, opts, func(body []byte) error {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: decoding %s response: %v", apperrors.ErrMalformedResponse, opts.Path, err)
		}
		return nil
	})
	return err
}

func (s *EndpointService) request(
	ctx context.Context,
	chainID string,
	kind entity.EndpointKind,
	opts port.RequestOptions,
	decode func([]byte) error,
) ([]byte, error) {
	policy := retryPolicy{attempts: s.cfg.Attempts(), backoff: s.cfg.BackoffBase, sleep: s.sleep}

	body, err := retryAcross(ctx, policy,
		func(ctx context.Context) (entity.EndpointURL, error) {
			return s.GetHealthyEndpoint(ctx, chainID, kind)
		},
		func(ctx context.Context, url entity.EndpointURL) ([]byte, error) {
			body, err := s.do(ctx, url, opts)
			if err != nil {
				return nil, err
			}
			if decode != nil {
				if err := decode(body); err != nil {
					return nil, err
				}
			}
			metrics.ObserveRequest(chainID, string(kind), metrics.OutcomeSuccess)
			return body, nil
		},
		func(url entity.EndpointURL, err error) {
			metrics.ObserveRequest(chainID, string(kind), metrics.OutcomeRetry)
			s.MarkUnhealthy(chainID, kind, url, err)
		},
	)
	if err == nil {
		return body, nil
	}

	if isFinal(err) {
		metrics.ObserveRequest(chainID, string(kind), metrics.OutcomeRejected)
		return nil, err
	}
	metrics.ObserveRequest(chainID, string(kind), metrics.OutcomeFailed)
	s.logger.Error("Request failed on every attempt",
		zap.String("chainId", chainID), zap.String("kind", string(kind)), zap.String("path", opts.Path), zap.Error(err),
	)
	return nil, fmt.Errorf("%w: %s %s on chain %s: %w", apperrors.ErrExternalServiceFailure, requestMethod(opts), opts.Path, chainID, err)
}

func (s *EndpointService) do(ctx context.Context, url entity.EndpointURL, opts port.RequestOptions) ([]byte, error) {
	target := url.Join(opts.Path)
	resp, err := s.client.Do(ctx, domainService.NodeRequest{
		Method:  requestMethod(opts),
		URL:     target,
		Body:    opts.Body,
		Headers: opts.Headers,
		Timeout: s.cfg.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, permanent(fmt.Errorf("%w: %s: %s", apperrors.ErrNotFound, target, nodeMessage(resp)))
	case resp.StatusCode == http.StatusBadRequest:
		return nil, permanent(fmt.Errorf("%w: %s: %s", apperrors.ErrUpstreamRejected, target, nodeMessage(resp)))
	default:
		return nil, fmt.Errorf("%w: %s returned http status %d: %s",
			apperrors.ErrExternalServiceFailure, target, resp.StatusCode, nodeMessage(resp),
		)
	}
}

func requestMethod(opts port.RequestOptions) string {
	if opts.Method == "" {
		return http.MethodGet
	}
	return opts.Method
}

// nodeMessage extracts the message of a Cosmos REST error body, or the raw body if it has none.
func nodeMessage(resp *domainService.NodeResponse) string {
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Message != "" {
		return body.Message
	}
	const maxRaw = 256
	if len(resp.Body) > maxRaw {
		return string(resp.Body[:maxRaw])
	}
	return string(resp.Body)
}

// isFinal reports a definitive node answer, which is returned without the retry wrapper.
func isFinal(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrUpstreamRejected)
}

// RefreshAll probes every RPC and REST candidate of a chain concurrently.
func (s *EndpointService) RefreshAll(ctx context.Context, chainID string) error {
	g, gctx := errgroup.WithContext(ctx)
	workers := s.cfg.MaxWorkers
	if workers <= 0 {
		workers = 8
	}
	g.SetLimit(workers)

	for _, kind := range []entity.EndpointKind{entity.EndpointKindRPC, entity.EndpointKindREST} {
		for _, ep := range s.registry.Snapshot(chainID, kind) {
			kind, url := kind, ep.URL
			g.Go(func() error {
				s.probe(gctx, chainID, kind, url)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// StartBackgroundRefresh periodically refreshes the given chains until ctx is done.
func (s *EndpointService) StartBackgroundRefresh(ctx context.Context, chainIDs []string) {
	interval := s.cfg.RefreshInterval
	if interval <= 0 {
		s.logger.Info("Background endpoint refresh disabled (interval <= 0)")
		return
	}

	s.logger.Info("Starting background endpoint refresh",
		zap.Duration("interval", interval), zap.Strings("chains", chainIDs),
	)
	if s.cfg.RefreshOnStartup {
		s.refreshChains(ctx, chainIDs)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refreshChains(ctx, chainIDs)
		case <-ctx.Done():
			s.logger.Info("Background endpoint refresh stopping due to context cancellation.")
			return
		}
	}
}

func (s *EndpointService) refreshChains(ctx context.Context, chainIDs []string) {
	if !s.isChecking.CompareAndSwap(false, true) {
		s.logger.Debug("Background refresh tick: refresh already in progress.")
		return
	}
	defer s.isChecking.Store(false)

	for _, chainID := range chainIDs {
		if ctx.Err() != nil {
			return
		}
		if err := s.RefreshAll(ctx, chainID); err != nil {
			s.logger.Warn("Background refresh interrupted", zap.String("chainId", chainID), zap.Error(err))
			return
		}
	}
	s.logger.Debug("Background endpoint refresh finished", zap.Int("chains", len(chainIDs)))
}
