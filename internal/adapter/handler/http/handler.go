package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"route-warmer/internal/application/port"
	"route-warmer/internal/domain"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const defaultHandlerTimeout = 3 * time.Minute

// Services groups what the API exposes.
type Services struct {
	Chains    port.ChainService
	Endpoints port.EndpointService
	Tokens    port.TokenMetadataService
	Transfers port.TransferService
	Prefs     port.PreferenceService
}

// Handler serves the route warmer API.
type Handler struct {
	svc     Services
	timeout time.Duration
	logger  *zap.Logger
}

// NewHandler creates a new Handler. Every call runs under timeout.
func NewHandler(svc Services, timeout time.Duration, logger *zap.Logger) *Handler {
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	return &Handler{
		svc:     svc,
		timeout: timeout,
		logger:  logger.Named("Handler"),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// requestContext detaches work from the fasthttp context, which is recycled once the handler
// returns while confirmation tracking may still be running.
func (h *Handler) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), h.timeout)
}

func (h *Handler) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// statusFor maps sentinel errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedRoute):
		return fasthttp.StatusBadRequest
	case errors.Is(err, domain.ErrChainNotFound), errors.Is(err, apperrors.ErrNotFound):
		return fasthttp.StatusNotFound
	case errors.Is(err, domain.ErrDisclaimerNotAccepted):
		return fasthttp.StatusPreconditionFailed
	case errors.Is(err, domain.ErrAccountNotFound):
		return fasthttp.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrConflict):
		return fasthttp.StatusConflict
	case errors.Is(err, apperrors.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return fasthttp.StatusGatewayTimeout
	case errors.Is(err, apperrors.ErrExternalServiceFailure),
		errors.Is(err, apperrors.ErrUpstreamRejected),
		errors.Is(err, apperrors.ErrMalformedResponse),
		errors.Is(err, domain.ErrNoHealthyEndpoint):
		return fasthttp.StatusBadGateway
	default:
		return fasthttp.StatusInternalServerError
	}
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, op string, err error) {
	status := statusFor(err)
	if status >= fasthttp.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("op", op), zap.Int("status", status), zap.Error(err))
	} else {
		h.logger.Debug("Request rejected", zap.String("op", op), zap.Int("status", status), zap.Error(err))
	}
	h.writeJSON(ctx, status, errorResponse{Error: err.Error()})
}

func (h *Handler) decode(ctx *fasthttp.RequestCtx, out any) error {
	if err := json.Unmarshal(ctx.PostBody(), out); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}

func (h *Handler) kindParam(ctx *fasthttp.RequestCtx) (entity.EndpointKind, error) {
	raw := string(ctx.QueryArgs().Peek("kind"))
	kind, ok := entity.ParseEndpointKind(raw)
	if !ok {
		return "", fmt.Errorf("%w: kind must be rpc or rest, got %q", apperrors.ErrInvalidInput, raw)
	}
	return kind, nil
}

// Health answers liveness checks.
func (h *Handler) Health(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString("OK")
}

// ListChains returns known chains. Query: testnets=true, cosmos=true.
func (h *Handler) ListChains(ctx *fasthttp.RequestCtx) {
	c, cancel := h.requestContext()
	defer cancel()

	args := ctx.QueryArgs()
	chains, err := h.svc.Chains.ListChains(c, port.ChainFilter{
		Testnets:   args.GetBool("testnets"),
		CosmosOnly: args.GetBool("cosmos"),
	})
	if err != nil {
		h.writeError(ctx, "list chains", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, chains)
}

// GetChain returns one chain.
func (h *Handler) GetChain(ctx *fasthttp.RequestCtx) {
	c, cancel := h.requestContext()
	defer cancel()

	chain, err := h.svc.Chains.GetChain(c, pathParam(ctx, "chainId"))
	if err != nil {
		h.writeError(ctx, "get chain", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, chain)
}

// ListEndpoints returns the health snapshot of a chain's endpoints of one kind.
func (h *Handler) ListEndpoints(ctx *fasthttp.RequestCtx) {
	kind, err := h.kindParam(ctx)
	if err != nil {
		h.writeError(ctx, "list endpoints", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, h.svc.Endpoints.Endpoints(pathParam(ctx, "chainId"), kind))
}

type healthyEndpointResponse struct {
	ChainID string             `json:"chainId"`
	Kind    entity.EndpointKind `json:"kind"`
	URL     entity.EndpointURL  `json:"url"`
}

// HealthyEndpoint returns the preferred reachable endpoint, probing as needed.
func (h *Handler) HealthyEndpoint(ctx *fasthttp.RequestCtx) {
	kind, err := h.kindParam(ctx)
	if err != nil {
		h.writeError(ctx, "healthy endpoint", err)
		return
	}
	c, cancel := h.requestContext()
	defer cancel()

	chainID := pathParam(ctx, "chainId")
	url, err := h.svc.Endpoints.GetHealthyEndpoint(c, chainID, kind)
	if err != nil {
		h.writeError(ctx, "healthy endpoint", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, healthyEndpointResponse{ChainID: chainID, Kind: kind, URL: url})
}

type refreshResponse struct {
	RPC  []entity.Endpoint `json:"rpc"`
	REST []entity.Endpoint `json:"rest"`
}

// RefreshEndpoints re-probes every endpoint of a chain.
func (h *Handler) RefreshEndpoints(ctx *fasthttp.RequestCtx) {
	c, cancel := h.requestContext()
	defer cancel()

	chainID := pathParam(ctx, "chainId")
	if err := h.svc.Endpoints.RefreshAll(c, chainID); err != nil {
		h.writeError(ctx, "refresh endpoints", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, refreshResponse{
		RPC:  h.svc.Endpoints.Endpoints(chainID, entity.EndpointKindRPC),
		REST: h.svc.Endpoints.Endpoints(chainID, entity.EndpointKindREST),
	})
}

// GetAccount returns an account snapshot with balances.
func (h *Handler) GetAccount(ctx *fasthttp.RequestCtx) {
	c, cancel := h.requestContext()
	defer cancel()

	view, err := h.svc.Transfers.Account(c, pathParam(ctx, "chainId"), pathParam(ctx, "address"))
	if err != nil {
		h.writeError(ctx, "get account", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, view)
}

// GetToken resolves token metadata. The denom may contain slashes.
func (h *Handler) GetToken(ctx *fasthttp.RequestCtx) {
	c, cancel := h.requestContext()
	defer cancel()

	chain, err := h.svc.Chains.GetChain(c, pathParam(ctx, "chainId"))
	if err != nil {
		h.writeError(ctx, "get token", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, h.svc.Tokens.Resolve(c, chain, pathParam(ctx, "denom")))
}

type batchTokensRequest struct {
	Denoms []string `json:"denoms"`
}

// BatchTokens resolves several denoms of one chain at once.
func (h *Handler) BatchTokens(ctx *fasthttp.RequestCtx) {
	var req batchTokensRequest
	if err := h.decode(ctx, &req); err != nil {
		h.writeError(ctx, "batch tokens", err)
		return
	}
	c, cancel := h.requestContext()
	defer cancel()

	chain, err := h.svc.Chains.GetChain(c, pathParam(ctx, "chainId"))
	if err != nil {
		h.writeError(ctx, "batch tokens", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, h.svc.Tokens.BatchResolve(c, chain, req.Denoms))
}

type preloadResponse struct {
	Stored int `json:"stored"`
}

// PreloadTokens caches every denomination the chain publishes metadata for.
func (h *Handler) PreloadTokens(ctx *fasthttp.RequestCtx) {
	c, cancel := h.requestContext()
	defer cancel()

	chain, err := h.svc.Chains.GetChain(c, pathParam(ctx, "chainId"))
	if err != nil {
		h.writeError(ctx, "preload tokens", err)
		return
	}
	stored, err := h.svc.Tokens.Preload(c, chain)
	if err != nil {
		h.writeError(ctx, "preload tokens", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, preloadResponse{Stored: stored})
}

// ClearTokenCache forgets every resolved token.
func (h *Handler) ClearTokenCache(ctx *fasthttp.RequestCtx) {
	c, cancel := h.requestContext()
	defer cancel()

	if err := h.svc.Tokens.ClearCache(c); err != nil {
		h.writeError(ctx, "clear token cache", err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

type decimalsRequest struct {
	Decimals *int `json:"decimals"`
}

// SetDecimals stores a manual decimals override.
func (h *Handler) SetDecimals(ctx *fasthttp.RequestCtx) {
	var req decimalsRequest
	if err := h.decode(ctx, &req); err != nil {
		h.writeError(ctx, "set decimals", err)
		return
	}
	if req.Decimals == nil {
		h.writeError(ctx, "set decimals", fmt.Errorf("%w: decimals is required", apperrors.ErrInvalidInput))
		return
	}
	if err := h.svc.Tokens.SetDecimalsOverride(pathParam(ctx, "chainId"), pathParam(ctx, "denom"), *req.Decimals); err != nil {
		h.writeError(ctx, "set decimals", err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// ClearDecimals removes a manual decimals override.
func (h *Handler) ClearDecimals(ctx *fasthttp.RequestCtx) {
	h.svc.Tokens.ClearDecimalsOverride(pathParam(ctx, "chainId"), pathParam(ctx, "denom"))
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

type recommendRequest struct {
	Denom              string `json:"denom"`
	SourceChainID      string `json:"sourceChainId"`
	DestinationChainID string `json:"destinationChainId"`
}

type recommendResponse struct {
	Channel string `json:"channel"`
}

// RecommendRoute asks the route service for a channel.
func (h *Handler) RecommendRoute(ctx *fasthttp.RequestCtx) {
	var req recommendRequest
	if err := h.decode(ctx, &req); err != nil {
		h.writeError(ctx, "recommend route", err)
		return
	}
	c, cancel := h.requestContext()
	defer cancel()

	channel, err := h.svc.Transfers.RecommendChannel(c, req.Denom, req.SourceChainID, req.DestinationChainID)
	if err != nil {
		h.writeError(ctx, "recommend route", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, recommendResponse{Channel: channel})
}

// SimulateTransfer builds and simulates a transfer without signing it.
func (h *Handler) SimulateTransfer(ctx *fasthttp.RequestCtx) {
	var req port.TransferRequest
	if err := h.decode(ctx, &req); err != nil {
		h.writeError(ctx, "simulate transfer", err)
		return
	}
	c, cancel := h.requestContext()
	defer cancel()

	res, err := h.svc.Transfers.Simulate(c, req)
	if err != nil {
		h.writeError(ctx, "simulate transfer", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, res)
}

// SendTransfer warms a route. The answer is 202 while the transaction is still pending.
func (h *Handler) SendTransfer(ctx *fasthttp.RequestCtx) {
	var req port.TransferRequest
	if err := h.decode(ctx, &req); err != nil {
		h.writeError(ctx, "send transfer", err)
		return
	}
	c, cancel := h.requestContext()
	defer cancel()

	rec, err := h.svc.Transfers.Warm(c, req)
	if err != nil {
		h.writeError(ctx, "send transfer", err)
		return
	}
	status := fasthttp.StatusOK
	if rec.Status == entity.TxPending {
		status = fasthttp.StatusAccepted
	}
	h.writeJSON(ctx, status, rec)
}

// ListTransfers returns recent transfers, newest first.
func (h *Handler) ListTransfers(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, fasthttp.StatusOK, h.svc.Transfers.History())
}

type disclaimerResponse struct {
	Accepted bool `json:"accepted"`
}

// GetDisclaimer reports whether the risk disclaimer was accepted.
func (h *Handler) GetDisclaimer(ctx *fasthttp.RequestCtx) {
	c, cancel := h.requestContext()
	defer cancel()

	accepted, err := h.svc.Prefs.DisclaimerAccepted(c)
	if err != nil {
		h.writeError(ctx, "get disclaimer", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, disclaimerResponse{Accepted: accepted})
}

// AcceptDisclaimer records acceptance of the risk disclaimer.
func (h *Handler) AcceptDisclaimer(ctx *fasthttp.RequestCtx) {
	h.setDisclaimer(ctx, true)
}

// RevokeDisclaimer withdraws acceptance of the risk disclaimer.
func (h *Handler) RevokeDisclaimer(ctx *fasthttp.RequestCtx) {
	h.setDisclaimer(ctx, false)
}

func (h *Handler) setDisclaimer(ctx *fasthttp.RequestCtx, accepted bool) {
	c, cancel := h.requestContext()
	defer cancel()

	if err := h.svc.Prefs.SetDisclaimerAccepted(c, accepted); err != nil {
		h.writeError(ctx, "set disclaimer", err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, disclaimerResponse{Accepted: accepted})
}
