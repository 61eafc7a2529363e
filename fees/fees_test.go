package fees

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

func maxUint256() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
}

func TestCompute(t *testing.T) {
	tenth := big.NewInt(100_000_000_000_000_000)
	tests := []struct {
		name        string
		amount      *big.Int
		protocolFee *big.Int
		relayerFee  *big.Int
		expectedNet *big.Int
		expectedErr error
	}{
		{
			name:        "100 tokens with 0.1 fees each",
			amount:      e18(100),
			protocolFee: tenth,
			relayerFee:  tenth,
			expectedNet: e18(98),
		},
		{
			name:        "no fees",
			amount:      big.NewInt(5),
			protocolFee: big.NewInt(0),
			relayerFee:  nil,
			expectedNet: big.NewInt(5),
		},
		{
			name:        "fees leave one unit",
			amount:      big.NewInt(10),
			protocolFee: big.NewInt(4),
			relayerFee:  big.NewInt(5),
			expectedNet: big.NewInt(1),
		},
		{
			name:        "fees equal to amount",
			amount:      big.NewInt(10),
			protocolFee: big.NewInt(5),
			relayerFee:  big.NewInt(5),
			expectedErr: ErrInvalidFee,
		},
		{
			name:        "fees above amount",
			amount:      big.NewInt(10),
			protocolFee: big.NewInt(11),
			relayerFee:  big.NewInt(0),
			expectedErr: ErrInvalidFee,
		},
		{
			name:        "zero amount",
			amount:      big.NewInt(0),
			protocolFee: big.NewInt(0),
			relayerFee:  big.NewInt(0),
			expectedErr: ErrInvalidFee,
		},
		{
			name:        "fee sum overflows",
			amount:      maxUint256(),
			protocolFee: maxUint256(),
			relayerFee:  big.NewInt(1),
			expectedErr: ErrInvalidFee,
		},
		{
			name:        "amount wider than 256 bits",
			amount:      new(big.Int).Lsh(big.NewInt(1), 256),
			protocolFee: big.NewInt(0),
			relayerFee:  big.NewInt(0),
			expectedErr: ErrAmountOverflow,
		},
		{
			name:        "negative fee",
			amount:      big.NewInt(10),
			protocolFee: big.NewInt(-1),
			relayerFee:  big.NewInt(0),
			expectedErr: ErrAmountOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Compute(tt.amount, tt.protocolFee, tt.relayerFee)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedNet, b.Net)
			sum := new(big.Int).Add(b.Net, b.ProtocolFee)
			sum.Add(sum, b.RelayerFee)
			require.Equal(t, 0, sum.Cmp(tt.amount), "net + fees must equal amount")
		})
	}
}

func TestSplitBps(t *testing.T) {
	tests := []struct {
		name     string
		amount   *big.Int
		bps      uint16
		expected *big.Int
	}{
		{"zero bps", big.NewInt(1000), 0, big.NewInt(0)},
		{"full", big.NewInt(1000), 10_000, big.NewInt(1000)},
		{"half", big.NewInt(1001), 5_000, big.NewInt(500)},
		{"floor", big.NewInt(9_999), 1, big.NewInt(0)},
		{"30 bps of 100 tokens", e18(100), 30, new(big.Int).Mul(big.NewInt(3), big.NewInt(100_000_000_000_000_000))},
		{"max amount full rate does not overflow", maxUint256(), 10_000, maxUint256()},
		{
			name:     "max amount half rate",
			amount:   maxUint256(),
			bps:      5_000,
			expected: new(big.Int).Rsh(maxUint256(), 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitBps(tt.amount, tt.bps)
			require.NoError(t, err)
			require.Equal(t, 0, tt.expected.Cmp(got), "expected %s got %s", tt.expected, got)
		})
	}
}

func TestValidateBps(t *testing.T) {
	require.NoError(t, ValidateBps(0))
	require.NoError(t, ValidateBps(10_000))
	require.ErrorIs(t, ValidateBps(10_001), ErrBpsOutOfRange)

	require.NoError(t, ValidateShares(6_000, 4_000))
	require.ErrorIs(t, ValidateShares(6_000, 4_001), ErrBpsOutOfRange)
	require.ErrorIs(t, ValidateShares(10_001, 0), ErrBpsOutOfRange)
}

func TestSplitShares(t *testing.T) {
	s, err := SplitShares(big.NewInt(1_000), 7_000, 2_500)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(700), s.Protocol)
	require.Equal(t, big.NewInt(250), s.LP)
	require.Equal(t, big.NewInt(50), s.Remainder)

	_, err = SplitShares(big.NewInt(1_000), 7_000, 3_001)
	require.ErrorIs(t, err, ErrBpsOutOfRange)
}

func TestQuote(t *testing.T) {
	p, r, err := Quote(e18(100), 10, 10)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(100_000_000_000_000_000), p)
	require.Equal(t, big.NewInt(100_000_000_000_000_000), r)

	_, _, err = Quote(e18(1), 10_001, 0)
	require.ErrorIs(t, err, ErrBpsOutOfRange)
}
