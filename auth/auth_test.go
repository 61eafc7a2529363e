package auth

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	anyone   = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	legacy   = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	adapterA = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	adapterB = common.HexToAddress("0x00000000000000000000000000000000000000a2")
)

func set(addrs ...common.Address) map[common.Address]struct{} {
	m := make(map[common.Address]struct{}, len(addrs))
	for _, a := range addrs {
		m[a] = struct{}{}
	}
	return m
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		legacy   common.Address
		adapters map[common.Address]struct{}
		state    State
		allowed  []common.Address
		denied   []common.Address
	}{
		{
			name:    "nothing configured is open to any caller",
			state:   Open,
			allowed: []common.Address{anyone, legacy, adapterA},
		},
		{
			name:    "legacy adapter only",
			legacy:  legacy,
			state:   LegacyAdapterSet,
			allowed: []common.Address{legacy},
			denied:  []common.Address{anyone, adapterA},
		},
		{
			name:     "role set without legacy",
			adapters: set(adapterA, adapterB),
			state:    RoleSet,
			allowed:  []common.Address{adapterA, adapterB},
			denied:   []common.Address{anyone, legacy},
		},
		{
			name:     "role set keeps legacy adapter",
			legacy:   legacy,
			adapters: set(adapterA),
			state:    RoleSet,
			allowed:  []common.Address{adapterA, legacy},
			denied:   []common.Address{anyone, adapterB},
		},
		{
			name:     "empty set falls back to legacy",
			legacy:   legacy,
			adapters: set(),
			state:    LegacyAdapterSet,
			allowed:  []common.Address{legacy},
			denied:   []common.Address{anyone},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Select(tt.legacy, tt.adapters)
			require.Equal(t, tt.state, a.State())
			for _, c := range tt.allowed {
				require.NoError(t, a.Authorize(c), c.Hex())
			}
			for _, c := range tt.denied {
				require.ErrorIs(t, a.Authorize(c), ErrUnauthorized, c.Hex())
			}
		})
	}
}

func TestSelectCopiesAdapterSet(t *testing.T) {
	adapters := set(adapterA)
	a := Select(common.Address{}, adapters)
	delete(adapters, adapterA)
	require.NoError(t, a.Authorize(adapterA))
}

func TestStateString(t *testing.T) {
	require.Equal(t, "OPEN", Open.String())
	require.Equal(t, "LEGACY_ADAPTER_SET", LegacyAdapterSet.String())
	require.Equal(t, "ROLE_SET", RoleSet.String())
	require.Equal(t, "State(9)", State(9).String())
}

func TestSortedAdapters(t *testing.T) {
	require.Equal(t, []common.Address{adapterA, adapterB}, SortedAdapters(set(adapterB, adapterA)))
	require.Empty(t, SortedAdapters(nil))
}
