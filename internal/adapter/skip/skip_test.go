package skip

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dto "route-warmer/internal/adapter/skip/dto"
	"route-warmer/internal/config"
	"route-warmer/internal/domain/entity"
	"route-warmer/internal/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.SkipConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, ClientID: "route-warmer"}, zap.NewNop())
}

const chainsBody = `{"chains":[
	{"chain_name":"osmosis","chain_id":"osmosis-1","pretty_name":"Osmosis","chain_type":"cosmos","is_testnet":false,
	 "bech32_prefix":"osmo","fee_assets":[{"denom":"uosmo","gas_price":{"low":"0.0025","average":"0.025","high":"0.04"}}]},
	{"chain_name":"ethereum","chain_id":"1","chain_type":"evm","is_testnet":false,"bech32_prefix":""},
	{"chain_name":"broken","chain_id":"","chain_type":"cosmos"}
]}`

func TestRepository_GetAllChains(t *testing.T) {
	t.Run("should request the listing with evm and svm chains and map it", func(t *testing.T) {
		c := require.New(t)
		var query string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			c.Equal("/info/chains", r.URL.Path)
			_, _ = io.WriteString(w, chainsBody)
		})

		chains, err := NewRepository(client, zap.NewNop()).GetAllChains(context.Background(), false)
		c.NoError(err)
		c.Equal("include_evm=true&include_svm=true&only_testnets=false", query)
		c.Len(chains, 2)

		osmo := chains[0]
		c.Equal("osmosis-1", osmo.ChainID)
		c.Equal("Osmosis", osmo.ChainName)
		c.Equal("osmo", osmo.Bech32Prefix)
		c.Equal(entity.ChainTypeCosmos, osmo.ChainType)
		c.Equal("uosmo", osmo.FeeDenom(""))
		c.Equal("0.025", osmo.FeeCurrencies[0].GasPrice.Average)
		c.Empty(osmo.Currencies)

		c.Equal(entity.ChainTypeEVM, chains[1].ChainType)
		c.Equal("ethereum", chains[1].ChainName)
	})

	t.Run("should decompress gzip answers", func(t *testing.T) {
		c := require.New(t)
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			c.Contains(r.URL.RawQuery, "only_testnets=true")
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, _ = zw.Write([]byte(`{"chains":[{"chain_id":"osmo-test-5","chain_name":"osmosistestnet","chain_type":"cosmos","is_testnet":true}]}`))
			_ = zw.Close()
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write(buf.Bytes())
		})

		chains, err := NewRepository(client, zap.NewNop()).GetAllChains(context.Background(), true)
		c.NoError(err)
		c.Len(chains, 1)
		c.True(chains[0].IsTestnet)
	})

	t.Run("should map upstream failures", func(t *testing.T) {
		testCases := []struct {
			name    string
			status  int
			body    string
			wantErr error
		}{
			{name: "not found", status: http.StatusNotFound, body: `{}`, wantErr: apperrors.ErrNotFound},
			{name: "server error", status: http.StatusBadGateway, body: `oops`, wantErr: apperrors.ErrExternalServiceFailure},
			{name: "bad json", status: http.StatusOK, body: `{"chains":`, wantErr: apperrors.ErrMalformedResponse},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				c := require.New(t)
				client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(tc.status)
					_, _ = io.WriteString(w, tc.body)
				})

				_, err := NewRepository(client, zap.NewNop()).GetAllChains(context.Background(), false)
				c.ErrorIs(err, tc.wantErr)
			})
		}
	})
}

func TestRecommender_RecommendChannel(t *testing.T) {
	t.Run("should return the last trace segment of the first recommendation", func(t *testing.T) {
		c := require.New(t)
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			c.Equal(http.MethodPost, r.Method)
			c.Equal("/fungible/recommend_assets", r.URL.Path)

			var req dto.RecommendAssetsRequestRaw
			c.NoError(json.NewDecoder(r.Body).Decode(&req))
			c.Equal("route-warmer", req.ClientID)
			c.Equal(dto.RecommendationRequestRaw{
				SourceAssetDenom:   "uatom",
				SourceAssetChainID: "cosmoshub-4",
				DestChainID:        "osmosis-1",
			}, req.Requests[0])

			_, _ = io.WriteString(w, `{"recommendation_entries":[{"recommendations":[
				{"asset":{"denom":"ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2","chain_id":"osmosis-1","trace":"transfer/channel-141"}},
				{"asset":{"denom":"ibc/OTHER","chain_id":"osmosis-1","trace":"transfer/channel-9"}}
			]}]}`)
		})

		channel, err := NewRecommender(client, zap.NewNop()).RecommendChannel(context.Background(), "uatom", "cosmoshub-4", "osmosis-1")
		c.NoError(err)
		c.Equal("channel-141", channel)
	})

	testCases := []struct {
		name string
		body string
	}{
		{name: "should report not found without entries", body: `{"recommendation_entries":[]}`},
		{name: "should report not found without recommendations", body: `{"recommendation_entries":[{"recommendations":[]}]}`},
		{name: "should report not found for an empty trace", body: `{"recommendation_entries":[{"recommendations":[{"asset":{"trace":""}}]}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := require.New(t)
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tc.body)
			})

			_, err := NewRecommender(client, zap.NewNop()).RecommendChannel(context.Background(), "uatom", "cosmoshub-4", "juno-1")
			c.ErrorIs(err, apperrors.ErrNotFound)
		})
	}

	t.Run("should surface the api message on rejection", func(t *testing.T) {
		c := require.New(t)
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"code":3,"message":"invalid source asset"}`)
		})

		_, err := NewRecommender(client, zap.NewNop()).RecommendChannel(context.Background(), "bogus", "cosmoshub-4", "osmosis-1")
		c.ErrorIs(err, apperrors.ErrUpstreamRejected)
		c.Contains(err.Error(), "invalid source asset")
	})
}
