package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"route-warmer/internal/domain/entity"
	domainService "route-warmer/internal/domain/service"
	"route-warmer/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.EndpointProber = (*Prober)(nil)

// Health paths per endpoint kind.
const (
	rpcStatusPath  = "/status"
	restHealthPath = "/health"
)

// Prober implements domainService.EndpointProber against CometBFT RPC and Cosmos REST nodes.
type Prober struct {
	client  domainService.NodeClient
	timeout time.Duration
	logger  *zap.Logger
}

// NewProber creates a prober whose probes are bounded by timeout.
func NewProber(client domainService.NodeClient, timeout time.Duration, logger *zap.Logger) *Prober {
	return &Prober{
		client:  client,
		timeout: timeout,
		logger:  logger.Named("EndpointProber"),
	}
}

// statusResponse is the subset of the CometBFT /status answer used for identity checks.
type statusResponse struct {
	Result struct {
		NodeInfo struct {
			Network string `json:"network"`
		} `json:"node_info"`
	} `json:"result"`
}

// Probe calls /status on RPC nodes, verifying the reported network, and /health on REST nodes.
func (p *Prober) Probe(
	ctx context.Context,
	chainID string,
	kind entity.EndpointKind,
	url entity.EndpointURL,
) (time.Duration, error) {
	path := restHealthPath
	if kind == entity.EndpointKindRPC {
		path = rpcStatusPath
	}
	target := url.Join(path)

	startTime := time.Now()
	resp, err := p.client.Do(ctx, domainService.NodeRequest{URL: target, Timeout: p.timeout})
	latency := time.Since(startTime)
	if err != nil {
		return latency, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Debug("Probe returned non-OK status",
			zap.String("url", target), zap.Int("statusCode", resp.StatusCode),
		)
		return latency, fmt.Errorf("%w: %s returned http status %d",
			apperrors.ErrExternalServiceFailure, target, resp.StatusCode,
		)
	}

	if kind != entity.EndpointKindRPC {
		return latency, nil
	}

	var status statusResponse
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		p.logger.Debug("Probe failed to unmarshal status", zap.String("url", target), zap.Error(err))
		return latency, fmt.Errorf("%w: %s returned invalid status JSON: %v",
			apperrors.ErrMalformedResponse, target, err,
		)
	}

	if network := status.Result.NodeInfo.Network; network != chainID {
		p.logger.Debug("Probe found chain id mismatch",
			zap.String("url", target), zap.String("expected", chainID), zap.String("network", network),
		)
		return latency, fmt.Errorf("%w: %s serves network %q, expected %q",
			apperrors.ErrExternalServiceFailure, target, network, chainID,
		)
	}

	return latency, nil
}
