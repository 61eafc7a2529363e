package fees

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// MaxBps is 100% expressed in basis points
const MaxBps = 10_000

var (
	// ErrInvalidFee is returned when the fees consume the whole amount
	ErrInvalidFee = errors.New("invalid fee")
	// ErrBpsOutOfRange is returned for rates above MaxBps
	ErrBpsOutOfRange = errors.New("bps out of range")
	// ErrAmountOverflow is returned for values that do not fit in 256 bits
	ErrAmountOverflow = errors.New("amount overflows 256 bits")

	maxBps = uint256.NewInt(MaxBps)
)

// Breakdown is the split of a gross amount
type Breakdown struct {
	Amount      *big.Int
	Net         *big.Int
	ProtocolFee *big.Int
	RelayerFee  *big.Int
}

// Compute deducts the absolute fees from amount. It fails with ErrInvalidFee
// unless protocolFee + relayerFee < amount
func Compute(amount, protocolFee, relayerFee *big.Int) (Breakdown, error) {
	a, err := toU256(amount)
	if err != nil {
		return Breakdown{}, err
	}
	p, err := toU256(protocolFee)
	if err != nil {
		return Breakdown{}, err
	}
	r, err := toU256(relayerFee)
	if err != nil {
		return Breakdown{}, err
	}
	total, overflow := new(uint256.Int).AddOverflow(p, r)
	if overflow || total.Cmp(a) >= 0 {
		return Breakdown{}, fmt.Errorf("%w: fees %s + %s must be below amount %s", ErrInvalidFee, p.Dec(), r.Dec(), a.Dec())
	}
	net := new(uint256.Int).Sub(a, total)
	return Breakdown{
		Amount:      a.ToBig(),
		Net:         net.ToBig(),
		ProtocolFee: p.ToBig(),
		RelayerFee:  r.ToBig(),
	}, nil
}

// SplitBps returns floor(amount * bps / 10000) using a 512 bit intermediate
// product, so it never overflows for any 256 bit amount. bps is not range checked
func SplitBps(amount *big.Int, bps uint16) (*big.Int, error) {
	a, err := toU256(amount)
	if err != nil {
		return nil, err
	}
	part, _ := new(uint256.Int).MulDivOverflow(a, uint256.NewInt(uint64(bps)), maxBps)
	return part.ToBig(), nil
}

// ValidateBps rejects a rate above MaxBps
func ValidateBps(bps uint16) error {
	if bps > MaxBps {
		return fmt.Errorf("%w: %d > %d", ErrBpsOutOfRange, bps, MaxBps)
	}
	return nil
}

// ValidateShares checks both shares and their sum
func ValidateShares(protocolShareBps, lpShareBps uint16) error {
	if err := ValidateBps(protocolShareBps); err != nil {
		return err
	}
	if err := ValidateBps(lpShareBps); err != nil {
		return err
	}
	if uint32(protocolShareBps)+uint32(lpShareBps) > MaxBps {
		return fmt.Errorf("%w: protocol share %d + lp share %d > %d",
			ErrBpsOutOfRange, protocolShareBps, lpShareBps, MaxBps)
	}
	return nil
}

// Shares splits a collected protocol fee between the protocol and liquidity providers.
// The remainder after both shares stays with the fee collector
type Shares struct {
	Protocol  *big.Int
	LP        *big.Int
	Remainder *big.Int
}

// SplitShares applies both share rates to fee
func SplitShares(fee *big.Int, protocolShareBps, lpShareBps uint16) (Shares, error) {
	if err := ValidateShares(protocolShareBps, lpShareBps); err != nil {
		return Shares{}, err
	}
	protocol, err := SplitBps(fee, protocolShareBps)
	if err != nil {
		return Shares{}, err
	}
	lp, err := SplitBps(fee, lpShareBps)
	if err != nil {
		return Shares{}, err
	}
	rest := new(big.Int).Sub(fee, protocol)
	rest.Sub(rest, lp)
	return Shares{Protocol: protocol, LP: lp, Remainder: rest}, nil
}

// Quote derives absolute protocol and relayer fees from configured rates
func Quote(amount *big.Int, protocolFeeBps, relayerFeeBps uint16) (protocolFee, relayerFee *big.Int, err error) {
	if err = ValidateBps(protocolFeeBps); err != nil {
		return nil, nil, err
	}
	if err = ValidateBps(relayerFeeBps); err != nil {
		return nil, nil, err
	}
	if protocolFee, err = SplitBps(amount, protocolFeeBps); err != nil {
		return nil, nil, err
	}
	if relayerFee, err = SplitBps(amount, relayerFeeBps); err != nil {
		return nil, nil, err
	}
	return protocolFee, relayerFee, nil
}

func toU256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value %s", ErrAmountOverflow, v)
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("%w: %s", ErrAmountOverflow, v)
	}
	return u, nil
}
