package deployer

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedClientForwards(t *testing.T) {
	fake := newFakeChain(84532)
	fake.code[common.HexToAddress("0x01")] = []byte{0x01}
	c := NewRateLimitedClient(fake, 0, 0)
	ctx := context.Background()

	id, err := c.ChainID(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(84532), id.Uint64())
	code, err := c.CodeAt(ctx, common.HexToAddress("0x01"), nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, code)

	c.Close()
	require.True(t, fake.closed)
}

func TestRateLimitedClientThrottles(t *testing.T) {
	c := NewRateLimitedClient(newFakeChain(1), 20, 1)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 5; i++ {
		_, err := c.ChainID(ctx)
		require.NoError(t, err)
	}
	require.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestRateLimitedClientHonoursContext(t *testing.T) {
	c := NewRateLimitedClient(newFakeChain(1), 0.001, 1)
	_, err := c.ChainID(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.ChainID(ctx)
	require.Error(t, err)
}
