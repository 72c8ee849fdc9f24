package application

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"route-warmer/internal/adapter/storage/memory"
	"route-warmer/internal/config"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ibcDenom = "ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2"

var hubChain = entity.ChainInfo{
	ChainID:      "cosmoshub-4",
	ChainName:    "cosmoshub",
	Bech32Prefix: "cosmos",
	ChainType:    entity.ChainTypeCosmos,
	Currencies:   []entity.Currency{{CoinDenom: "ATOM", CoinMinimalDenom: "uatom", CoinDecimals: 6}},
}

func newMetadataFixture(routes map[string]nodeRoute) (*TokenMetadataService, *endpointFixture) {
	f := newEndpointFixture([]entity.EndpointURL{nodeA}, nil, map[entity.EndpointURL]bool{nodeA: true})
	f.client.on(nodeA, pathRouter(nodeA, routes))
	cache := memory.NewCacheRepository(config.CacheConfig{DefaultExpiration: time.Minute, CleanupInterval: time.Minute}, zap.NewNop())
	return NewTokenMetadataService(f.service, cache, config.MetadataConfig{DefaultDecimals: 6, BatchConcurrency: 4}, zap.NewNop()), f
}

func metadataRequests(f *endpointFixture) int {
	n := 0
	for _, req := range f.client.sent() {
		if strings.Contains(req.URL, denomsMetadataPath) {
			n++
		}
	}
	return n
}

func TestTokenMetadataService_Resolve(t *testing.T) {
	t.Run("should answer known currencies without a network call", func(t *testing.T) {
		c := require.New(t)
		svc, f := newMetadataFixture(nil)

		got := svc.Resolve(context.Background(), hubChain, "uatom")
		c.Equal(entity.TokenMetadata{Denom: "uatom", Symbol: "ATOM", Decimals: 6}, got)
		c.Empty(f.client.sent())
	})

	t.Run("should query remote metadata once and then serve it from cache", func(t *testing.T) {
		c := require.New(t)
		svc, f := newMetadataFixture(map[string]nodeRoute{
			denomsMetadataPath: {http.StatusOK, `{"metadata":{
				"description":"Wrapped ether",
				"denom_units":[{"denom":"wei","exponent":0},{"denom":"eth","exponent":18}],
				"base":"wei","display":"eth","name":"Ether","symbol":"ETH"}}`},
		})

		for i := 0; i < 2; i++ {
			got := svc.Resolve(context.Background(), hubChain, ibcDenom)
			c.Equal("ETH", got.Symbol)
			c.Equal(18, got.Decimals)
			c.Equal(ibcDenom, got.Denom)
			c.Equal("Ether", got.Name)
		}
		c.Equal(1, metadataRequests(f))
		c.Contains(f.client.sent()[0].URL, "ibc%2F27394FB0")
	})

	t.Run("should fall back to the display unit as symbol", func(t *testing.T) {
		c := require.New(t)
		svc, _ := newMetadataFixture(map[string]nodeRoute{
			denomsMetadataPath: {http.StatusOK, `{"metadata":{
				"denom_units":[{"denom":"ustars","exponent":0},{"denom":"stars","exponent":6}],
				"base":"ustars","display":"stars"}}`},
		})

		got := svc.Resolve(context.Background(), hubChain, "ustars")
		c.Equal("stars", got.Symbol)
		c.Equal(6, got.Decimals)
	})

	t.Run("should use the default when metadata lacks matching units", func(t *testing.T) {
		c := require.New(t)
		svc, _ := newMetadataFixture(map[string]nodeRoute{
			denomsMetadataPath: {http.StatusOK, `{"metadata":{"denom_units":[],"base":"ufoo","display":"foo"}}`},
		})

		got := svc.Resolve(context.Background(), hubChain, "ufoo")
		c.Equal(entity.TokenMetadata{Denom: "ufoo", Symbol: "ufoo", Decimals: 6}, got)
	})

	t.Run("should cache the default when no node has metadata", func(t *testing.T) {
		c := require.New(t)
		svc, f := newMetadataFixture(nil)

		first := svc.Resolve(context.Background(), hubChain, "ufoo")
		second := svc.Resolve(context.Background(), hubChain, "ufoo")
		c.Equal(first, second)
		c.Equal(6, first.Decimals)
		c.Equal(1, metadataRequests(f))
	})
}

func TestTokenMetadataService_DecimalsOverride(t *testing.T) {
	c := require.New(t)
	svc, _ := newMetadataFixture(nil)
	ctx := context.Background()

	c.NoError(svc.SetDecimalsOverride("cosmoshub-4", "uatom", 8))
	got := svc.Resolve(ctx, hubChain, "uatom")
	c.Equal(8, got.Decimals)
	c.Equal("ATOM", got.Symbol)

	svc.ClearDecimalsOverride("cosmoshub-4", "uatom")
	c.Equal(6, svc.Resolve(ctx, hubChain, "uatom").Decimals)

	c.ErrorIs(svc.SetDecimalsOverride("cosmoshub-4", "uatom", 19), apperrors.ErrInvalidInput)
	c.ErrorIs(svc.SetDecimalsOverride("cosmoshub-4", "uatom", -1), apperrors.ErrInvalidInput)
	c.ErrorIs(svc.SetDecimalsOverride("cosmoshub-4", "", 6), apperrors.ErrInvalidInput)
}

func TestTokenMetadataService_BatchAndPreload(t *testing.T) {
	t.Run("should resolve a batch", func(t *testing.T) {
		c := require.New(t)
		svc, _ := newMetadataFixture(nil)

		got := svc.BatchResolve(context.Background(), hubChain, []string{"uatom", "ufoo", "ubar"})
		c.Len(got, 3)
		c.Equal("ATOM", got["uatom"].Symbol)
		c.Equal("ubar", got["ubar"].Symbol)
	})

	t.Run("should preload published metadata into the cache", func(t *testing.T) {
		c := require.New(t)
		svc, f := newMetadataFixture(map[string]nodeRoute{
			denomsMetadataPath + "?": {http.StatusOK, `{"metadatas":[
				{"denom_units":[{"denom":"uosmo","exponent":0},{"denom":"osmo","exponent":6}],"base":"uosmo","display":"osmo","symbol":"OSMO"},
				{"denom_units":[],"base":"broken","display":"broken"}]}`},
		})

		stored, err := svc.Preload(context.Background(), hubChain)
		c.NoError(err)
		c.Equal(1, stored)

		before := len(f.client.sent())
		got := svc.Resolve(context.Background(), hubChain, "uosmo")
		c.Equal("OSMO", got.Symbol)
		c.Len(f.client.sent(), before)
	})

	t.Run("should forget cached entries on clear", func(t *testing.T) {
		c := require.New(t)
		svc, f := newMetadataFixture(nil)
		ctx := context.Background()

		svc.Resolve(ctx, hubChain, "ufoo")
		c.NoError(svc.ClearCache(ctx))
		svc.Resolve(ctx, hubChain, "ufoo")
		c.Equal(2, metadataRequests(f))
	})
}
