package redis_repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestProductRedisRepo(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(ctx, mr.Addr(), WithDB(0), WithPoolSize(2))
	require.NoError(t, err)
	defer client.Close()

	repo := NewProductRedisRepo(client, time.Minute)

	_, err = repo.GetProductStock(ctx, "1")
	require.ErrorIs(t, err, ErrStockCacheMiss)

	require.NoError(t, repo.SetProductStock(ctx, "1", 200))
	require.NoError(t, repo.SetProductStock(ctx, "2", 40))
	stock, err := repo.GetProductStock(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 200, stock)
	require.Equal(t, time.Minute, mr.TTL("product:1:stock"))

	require.NoError(t, repo.DeleteProductStock(ctx, "1", "2"))
	_, err = repo.GetProductStock(ctx, "2")
	require.ErrorIs(t, err, ErrStockCacheMiss)
	require.NoError(t, repo.DeleteProductStock(ctx))

	// ttl 到期
	require.NoError(t, repo.SetProductStock(ctx, "1", 5))
	mr.FastForward(2 * time.Minute)
	_, err = repo.GetProductStock(ctx, "1")
	require.ErrorIs(t, err, ErrStockCacheMiss)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr)
	require.Error(t, err)
}
