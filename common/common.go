package common

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const wordSize = 32

// Uint64ToBytes converts a uint64 to a byte slice
func Uint64ToBytes(num uint64) []byte {
	const uint64ByteSize = 8

	bytes := make([]byte, uint64ByteSize)
	binary.BigEndian.PutUint64(bytes, num)

	return bytes
}

// BigToWord returns n as a 32 byte big-endian word. Negative values and
// values wider than 256 bits are truncated to their low 256 bits
func BigToWord(n *big.Int) []byte {
	word := make([]byte, wordSize)
	if n == nil {
		return word
	}
	b := n.Bytes()
	if len(b) > wordSize {
		b = b[len(b)-wordSize:]
	}
	copy(word[wordSize-len(b):], b)
	return word
}

// ParseBigInt accepts decimal or 0x prefixed hex
func ParseBigInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty integer")
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hexutil.DecodeBig(s)
	}
	n, ok := new(big.Int).SetString(s, 10) //nolint:mnd
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

// ChainKey is the key used for a chain in persisted records
func ChainKey(chainID uint64) string {
	return strconv.FormatUint(chainID, 10) //nolint:mnd
}

// SrcChainID truncates an EVM chain id to the 16 bits stored by the router
func SrcChainID(chainID uint64) uint16 {
	return uint16(chainID & 0xffff) //nolint:mnd
}
