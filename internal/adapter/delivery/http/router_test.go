package http

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	handler "route-warmer/internal/adapter/handler/http"
	"route-warmer/internal/application/port"
	"route-warmer/internal/domain"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/domain/message"
	"route-warmer/internal/pkg/apperrors"

	"github.com/fasthttp/router"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type stubChains struct {
	port.ChainService
}

func (stubChains) GetChain(_ context.Context, chainID string) (entity.ChainInfo, error) {
	if chainID != "cosmoshub-4" {
		return entity.ChainInfo{}, fmt.Errorf("%w: %s", domain.ErrChainNotFound, chainID)
	}
	return entity.ChainInfo{ChainID: chainID, Bech32Prefix: "cosmos"}, nil
}

func (stubChains) ListChains(_ context.Context, filter port.ChainFilter) ([]entity.ChainInfo, error) {
	out := []entity.ChainInfo{{ChainID: "cosmoshub-4"}}
	if filter.Testnets {
		out = append(out, entity.ChainInfo{ChainID: "theta-testnet-001", IsTestnet: true})
	}
	return out, nil
}

type stubEndpoints struct {
	port.EndpointService
}

func (stubEndpoints) GetHealthyEndpoint(_ context.Context, chainID string, _ entity.EndpointKind) (entity.EndpointURL, error) {
	if chainID == "dead-1" {
		return "", fmt.Errorf("%w: %s", domain.ErrNoHealthyEndpoint, chainID)
	}
	return "https://rpc.example", nil
}

func (stubEndpoints) Endpoints(_ string, kind entity.EndpointKind) []entity.Endpoint {
	return []entity.Endpoint{{URL: "https://node.example", Kind: kind, Status: entity.HealthHealthy}}
}

type stubTokens struct {
	port.TokenMetadataService
	overrides map[string]int
}

func (s *stubTokens) Resolve(_ context.Context, _ entity.ChainInfo, denom string) entity.TokenMetadata {
	return entity.TokenMetadata{Denom: denom, Symbol: denom, Decimals: 6}
}

func (s *stubTokens) BatchResolve(ctx context.Context, chain entity.ChainInfo, denoms []string) map[string]entity.TokenMetadata {
	out := make(map[string]entity.TokenMetadata, len(denoms))
	for _, d := range denoms {
		out[d] = s.Resolve(ctx, chain, d)
	}
	return out
}

func (s *stubTokens) Preload(context.Context, entity.ChainInfo) (int, error) { return 42, nil }

func (s *stubTokens) ClearCache(context.Context) error { return nil }

func (s *stubTokens) SetDecimalsOverride(_ string, denom string, decimals int) error {
	if decimals > 18 {
		return fmt.Errorf("%w: too many decimals", apperrors.ErrInvalidInput)
	}
	s.overrides[denom] = decimals
	return nil
}

func (s *stubTokens) ClearDecimalsOverride(_ string, denom string) {
	delete(s.overrides, denom)
}

type stubTransfers struct {
	port.TransferService
	accepted *bool
}

func (s stubTransfers) Simulate(_ context.Context, req port.TransferRequest) (*port.SimulationResult, error) {
	if req.Amount == "" {
		return nil, fmt.Errorf("%w: amount is required", apperrors.ErrInvalidInput)
	}
	return &port.SimulationResult{ChainID: req.SourceChainID, GasUsed: 100000, GasLimit: 150000}, nil
}

func (s stubTransfers) Warm(_ context.Context, req port.TransferRequest) (*entity.TxRecord, error) {
	if !*s.accepted {
		return nil, domain.ErrDisclaimerNotAccepted
	}
	return &entity.TxRecord{Hash: "abc", Status: entity.TxPending, SourceChain: req.SourceChainID}, nil
}

func (s stubTransfers) History() []entity.TxRecord {
	return []entity.TxRecord{{Hash: "abc", Status: entity.TxSuccess}}
}

func (s stubTransfers) RecommendChannel(_ context.Context, _, _, dest string) (string, error) {
	if dest == "" {
		return "", fmt.Errorf("%w: destination is required", apperrors.ErrInvalidInput)
	}
	return "channel-141", nil
}

func (s stubTransfers) Account(_ context.Context, _, _ string) (*port.AccountView, error) {
	return nil, fmt.Errorf("%w: request timed out", apperrors.ErrTimeout)
}

func (s stubTransfers) EurekaFees(string, string) (message.EurekaFees, error) {
	return message.EurekaFees{}, nil
}

type stubPrefs struct {
	accepted *bool
}

func (p stubPrefs) DisclaimerAccepted(context.Context) (bool, error) { return *p.accepted, nil }

func (p stubPrefs) SetDisclaimerAccepted(_ context.Context, accepted bool) error {
	*p.accepted = accepted
	return nil
}

type apiFixture struct {
	handler fasthttp.RequestHandler
	tokens  *stubTokens
}

func newAPIFixture() *apiFixture {
	accepted := false
	tokens := &stubTokens{overrides: map[string]int{}}
	h := handler.NewHandler(handler.Services{
		Chains:    stubChains{},
		Endpoints: stubEndpoints{},
		Tokens:    tokens,
		Transfers: stubTransfers{accepted: &accepted},
		Prefs:     stubPrefs{accepted: &accepted},
	}, time.Second, zap.NewNop())

	r := router.New()
	RegisterRoutes(r, h, zap.NewNop())
	return &apiFixture{handler: LoggingMiddleware(zap.NewNop(), r.Handler), tokens: tokens}
}

func (f *apiFixture) call(method, uri, body string) *fasthttp.Response {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	f.handler(&ctx)
	resp := &fasthttp.Response{}
	ctx.Response.CopyTo(resp)
	return resp
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		uri    string
		body   string
		status int
		expect string
	}{
		{name: "should answer health checks", method: "GET", uri: "/health", status: 200},
		{name: "should list chains with testnets", method: "GET", uri: "/chains?testnets=true", status: 200, expect: "theta-testnet-001"},
		{name: "should return a chain", method: "GET", uri: "/chains/cosmoshub-4", status: 200, expect: `"bech32Prefix":"cosmos"`},
		{name: "should map unknown chains to 404", method: "GET", uri: "/chains/unknown-1", status: 404, expect: "chain not found"},
		{name: "should list endpoints of a kind", method: "GET", uri: "/chains/cosmoshub-4/endpoints?kind=rest", status: 200, expect: `"kind":"rest"`},
		{name: "should reject unknown endpoint kinds", method: "GET", uri: "/chains/cosmoshub-4/endpoints?kind=grpc", status: 400},
		{name: "should return the healthy endpoint", method: "GET", uri: "/chains/cosmoshub-4/endpoints/healthy", status: 200, expect: "https://rpc.example"},
		{name: "should map exhausted endpoints to 502", method: "GET", uri: "/chains/dead-1/endpoints/healthy", status: 502},
		{name: "should map timeouts to 504", method: "GET", uri: "/chains/cosmoshub-4/accounts/cosmos1abc", status: 504},
		{name: "should resolve slash separated denoms", method: "GET", uri: "/chains/cosmoshub-4/tokens/ibc/ABCDEF", status: 200, expect: `"denom":"ibc/ABCDEF"`},
		{name: "should resolve a batch of denoms", method: "POST", uri: "/chains/cosmoshub-4/tokens/batch", body: `{"denoms":["uatom","uosmo"]}`, status: 200, expect: `"uosmo":{`},
		{name: "should preload token metadata", method: "POST", uri: "/chains/cosmoshub-4/tokens/preload", status: 200, expect: `"stored":42`},
		{name: "should clear the token cache", method: "DELETE", uri: "/tokens/cache", status: 204},
		{name: "should recommend a channel", method: "POST", uri: "/routes/recommend", body: `{"denom":"uatom","sourceChainId":"cosmoshub-4","destinationChainId":"osmosis-1"}`, status: 200, expect: "channel-141"},
		{name: "should reject malformed bodies", method: "POST", uri: "/routes/recommend", body: `{`, status: 400},
		{name: "should simulate a transfer", method: "POST", uri: "/transfers/simulate", body: `{"sourceChainId":"cosmoshub-4","denom":"uatom","amount":"1"}`, status: 200, expect: `"gasLimit":150000`},
		{name: "should map validation errors to 400", method: "POST", uri: "/transfers/simulate", body: `{"sourceChainId":"cosmoshub-4"}`, status: 400},
		{name: "should refuse transfers before the disclaimer", method: "POST", uri: "/transfers", body: `{"sourceChainId":"cosmoshub-4"}`, status: 412},
		{name: "should list transfers", method: "GET", uri: "/transfers", status: 200, expect: `"status":"success"`},
		{name: "should expose metrics", method: "GET", uri: "/metrics", status: 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := require.New(t)
			resp := newAPIFixture().call(tc.method, tc.uri, tc.body)
			c.Equal(tc.status, resp.StatusCode(), string(resp.Body()))
			if tc.expect != "" {
				c.Contains(string(resp.Body()), tc.expect)
			}
		})
	}
}

func TestRoutes_DisclaimerFlow(t *testing.T) {
	c := require.New(t)
	f := newAPIFixture()

	resp := f.call("GET", "/disclaimer", "")
	c.JSONEq(`{"accepted":false}`, string(resp.Body()))

	resp = f.call("PUT", "/disclaimer", "")
	c.Equal(200, resp.StatusCode())

	resp = f.call("POST", "/transfers", `{"sourceChainId":"cosmoshub-4","denom":"uatom","amount":"1"}`)
	c.Equal(202, resp.StatusCode())
	var rec entity.TxRecord
	c.NoError(json.Unmarshal(resp.Body(), &rec))
	c.Equal(entity.TxPending, rec.Status)

	resp = f.call("DELETE", "/disclaimer", "")
	c.JSONEq(`{"accepted":false}`, string(resp.Body()))
}

func TestRoutes_DecimalsOverride(t *testing.T) {
	c := require.New(t)
	f := newAPIFixture()

	resp := f.call("PUT", "/chains/cosmoshub-4/decimals/ibc/ABCDEF", `{"decimals":18}`)
	c.Equal(204, resp.StatusCode())
	c.Equal(18, f.tokens.overrides["ibc/ABCDEF"])

	resp = f.call("PUT", "/chains/cosmoshub-4/decimals/uatom", `{"decimals":19}`)
	c.Equal(400, resp.StatusCode())

	resp = f.call("PUT", "/chains/cosmoshub-4/decimals/uatom", `{}`)
	c.Equal(400, resp.StatusCode())

	resp = f.call("DELETE", "/chains/cosmoshub-4/decimals/ibc/ABCDEF", "")
	c.Equal(204, resp.StatusCode())
	c.NotContains(f.tokens.overrides, "ibc/ABCDEF")
}
