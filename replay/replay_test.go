package replay

import (
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestConsume(t *testing.T) {
	g := NewGuard()
	key := common.HexToHash("0x01")

	require.False(t, g.Used(Messages, key))
	require.NoError(t, g.Check(Messages, key))
	require.NoError(t, g.Consume(Messages, key))
	require.True(t, g.Used(Messages, key))

	err := g.Consume(Messages, key)
	require.ErrorIs(t, err, ErrReplay)
	require.ErrorIs(t, g.Check(Messages, key), ErrReplay)
	require.True(t, g.Used(Messages, key))
	require.Equal(t, 1, g.Len(Messages))
}

func TestKeyspacesAreIndependent(t *testing.T) {
	g := NewGuard()
	key := common.HexToHash("0xabcdef")

	require.NoError(t, g.Consume(Messages, key))
	require.False(t, g.Used(Intents, key))
	require.NoError(t, g.Consume(Intents, key))
	require.True(t, g.Used(Intents, key))
	require.Equal(t, 1, g.Len(Messages))
	require.Equal(t, 1, g.Len(Intents))
}

func TestConcurrentConsumeAdmitsExactlyOnce(t *testing.T) {
	g := NewGuard()
	key := common.HexToHash("0x02")
	const workers = 32

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Consume(Intents, key) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, accepted)
}

func TestKeyspaceString(t *testing.T) {
	require.Equal(t, "messages", Messages.String())
	require.Equal(t, "intents", Intents.String())
	require.Equal(t, "keyspace(7)", Keyspace(7).String())
}
