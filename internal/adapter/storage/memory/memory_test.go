package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"route-warmer/internal/config"
	"route-warmer/internal/domain/entity"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache() *CacheRepository {
	return NewCacheRepository(config.CacheConfig{
		DefaultExpiration: time.Minute,
		CleanupInterval:   time.Minute,
		ChainsTTL:         time.Minute,
	}, zap.NewNop())
}

func TestCacheRepository_Chains(t *testing.T) {
	c := require.New(t)
	ctx := context.Background()
	repo := newTestCache()

	_, found, err := repo.GetChains(ctx, "mainnet")
	c.NoError(err)
	c.False(found)

	chains := []entity.ChainInfo{{ChainID: "osmosis-1", Bech32Prefix: "osmo"}}
	c.NoError(repo.SetChains(ctx, "mainnet", chains, 0))

	got, found, err := repo.GetChains(ctx, "mainnet")
	c.NoError(err)
	c.True(found)
	c.Equal(chains, got)

	_, found, _ = repo.GetChains(ctx, "testnet")
	c.False(found)
}

func TestCacheRepository_ChainsExpire(t *testing.T) {
	c := require.New(t)
	ctx := context.Background()
	repo := newTestCache()

	c.NoError(repo.SetChains(ctx, "mainnet", []entity.ChainInfo{{ChainID: "osmosis-1"}}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, found, err := repo.GetChains(ctx, "mainnet")
	c.NoError(err)
	c.False(found)
}

func TestCacheRepository_Metadata(t *testing.T) {
	c := require.New(t)
	ctx := context.Background()
	repo := newTestCache()

	md := entity.TokenMetadata{Denom: "uosmo", Symbol: "OSMO", Decimals: 6}
	c.NoError(repo.SetMetadata(ctx, "osmosis-1", "uosmo", md))

	got, found, err := repo.GetMetadata(ctx, "osmosis-1", "uosmo")
	c.NoError(err)
	c.True(found)
	c.Equal(md, got)

	_, found, _ = repo.GetMetadata(ctx, "cosmoshub-4", "uosmo")
	c.False(found, "entries are keyed by chain and denom")

	c.NoError(repo.ClearMetadata(ctx))
	_, found, _ = repo.GetMetadata(ctx, "osmosis-1", "uosmo")
	c.False(found)
}

func TestHistoryRepository(t *testing.T) {
	t.Run("should keep the newest entries first and evict beyond the limit", func(t *testing.T) {
		c := require.New(t)
		repo := NewHistoryRepository(3)
		for i := 1; i <= 5; i++ {
			repo.Add(entity.TxRecord{Hash: fmt.Sprintf("hash-%d", i), Status: entity.TxPending})
		}

		list := repo.List()
		c.Len(list, 3)
		c.Equal("hash-5", list[0].Hash)
		c.Equal("hash-3", list[2].Hash)

		_, found := repo.Get("hash-1")
		c.False(found)
	})

	t.Run("should update records in place", func(t *testing.T) {
		c := require.New(t)
		repo := NewHistoryRepository(10)
		repo.Add(entity.TxRecord{
			Hash:   "abc",
			Status: entity.TxPending,
			Steps:  []entity.TxStep{{Chain: "cosmoshub-4", Status: entity.TxPending}},
		})

		c.True(repo.Update("abc", func(r *entity.TxRecord) { r.Resolve(entity.TxSuccess) }))
		c.False(repo.Update("missing", func(*entity.TxRecord) {}))

		rec, found := repo.Get("abc")
		c.True(found)
		c.Equal(entity.TxSuccess, rec.Status)
		c.Equal(entity.TxSuccess, rec.Steps[0].Status)
	})

	t.Run("should hand out copies", func(t *testing.T) {
		c := require.New(t)
		repo := NewHistoryRepository(10)
		repo.Add(entity.TxRecord{Hash: "abc", Steps: []entity.TxStep{{Chain: "a"}}})

		list := repo.List()
		list[0].Steps[0].Chain = "mutated"

		rec, _ := repo.Get("abc")
		c.Equal("a", rec.Steps[0].Chain)
	})
}
