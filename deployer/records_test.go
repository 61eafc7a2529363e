package deployer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestRecordStoreMissingFile(t *testing.T) {
	s := NewRecordStore[common.Address](filepath.Join(t.TempDir(), "nested", "factories.json"))
	_, ok, err := s.Get("1")
	require.NoError(t, err)
	require.False(t, ok)
	all, err := s.All()
	require.NoError(t, err)
	require.Empty(t, all)

	require.NoError(t, s.Put("1", common.HexToAddress("0x01")))
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.JSONEq(t, `{"1":"0x0000000000000000000000000000000000000001"}`, string(data))
}

func TestRecordStoreKeepsForeignEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factories.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"97":"0x00000000000000000000000000000000000000aa"}`), 0o600))
	s := NewRecordStore[common.Address](path)

	require.NoError(t, s.Put("84532", common.HexToAddress("0xbb")))
	all, err := s.All()
	require.NoError(t, err)
	require.Equal(t, map[string]common.Address{
		"97":    common.HexToAddress("0xaa"),
		"84532": common.HexToAddress("0xbb"),
	}, all)
}

func TestRecordStoreConcurrentWriters(t *testing.T) {
	s := NewRecordStore[RouterRecord](filepath.Join(t.TempDir(), "router-deploys.json"))
	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			require.NoError(t, s.Put(fmt.Sprint(i), RouterRecord{ChainID: uint64(i), Address: common.BigToAddress(common.Big1)}))
		}(i)
	}
	wg.Wait()

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, writers)
	for i := 0; i < writers; i++ {
		require.Equal(t, uint64(i), all[fmt.Sprint(i)].ChainID)
	}
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(s.Path()), "*.tmp"))
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestRecordStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factories.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	s := NewRecordStore[common.Address](path)
	_, _, err := s.Get("1")
	require.Error(t, err)
	require.Error(t, s.Put("1", common.Address{}))
}
