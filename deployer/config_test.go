package deployer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestEthToWei(t *testing.T) {
	for in, want := range map[string]string{
		"":                     "0",
		"0.01":                 "10000000000000000",
		" 1 ":                  "1000000000000000000",
		"0.0000000000000000001": "0",
	} {
		got, err := EthToWei(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got.String(), in)
	}
	for _, in := range []string{"-1", "one"} {
		_, err := EthToWei(in)
		require.Error(t, err, in)
	}
	require.Equal(t, "1.5", WeiToEth(big.NewInt(1_500_000_000_000_000_000)))
	require.Equal(t, "0", WeiToEth(nil))
}

func TestSelectedChains(t *testing.T) {
	cfg := Config{Chains: []ChainConfig{
		{Name: "ethereum-sepolia", ChainID: 11155111},
		{Name: "bsc-testnet", ChainID: 97},
		{Name: "bob-testnet", ChainID: 97},
		{Name: "base-sepolia", ChainID: 84532},
	}}
	require.Len(t, cfg.SelectedChains(), 4)

	cfg.AllowList = []string{" Base-Sepolia ", "97", ""}
	var names []string
	for _, c := range cfg.SelectedChains() {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"bsc-testnet", "bob-testnet", "base-sepolia"}, names)
}

func TestChainOverrides(t *testing.T) {
	c := ChainConfig{Name: "xdc-apothem"}
	price, err := c.GasPriceWei()
	require.NoError(t, err)
	require.Nil(t, price)

	c.GasPriceGwei = "0.5"
	price, err = c.GasPriceWei()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(500_000_000), price)

	c.GasPriceGwei = "-2"
	_, err = c.GasPriceWei()
	require.Error(t, err)

	fallback := common.HexToAddress("0xde")
	got, err := c.DefaultTargetOr(fallback)
	require.NoError(t, err)
	require.Equal(t, fallback, got)

	c.DefaultTarget = "0x00000000000000000000000000000000000000ef"
	got, err = c.DefaultTargetOr(fallback)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0xef"), got)

	c.DefaultTarget = "nope"
	_, err = c.DefaultTargetOr(fallback)
	require.Error(t, err)
}

func TestMinBalanceWei(t *testing.T) {
	minWei, err := Config{MinBalanceEth: "0.005"}.MinBalanceWei()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(5_000_000_000_000_000), minWei)
}
