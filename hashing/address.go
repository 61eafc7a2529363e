package hashing

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

const create2Prefix = 0xff

// Create2Address is lastBytes20(keccak(0xff | factory | salt | initCodeHash))
func Create2Address(factory common.Address, salt, initCodeHash common.Hash) common.Address {
	return common.BytesToAddress(
		crypto.Keccak256([]byte{create2Prefix}, factory.Bytes(), salt.Bytes(), initCodeHash.Bytes())[12:])
}

// Create2AddressFromCode hashes initCode and derives the CREATE2 address
func Create2AddressFromCode(factory common.Address, salt common.Hash, initCode []byte) common.Address {
	return Create2Address(factory, salt, crypto.Keccak256Hash(initCode))
}

// CreateAddress is the address of the contract created by sender's
// transaction with the given nonce: lastBytes20(keccak(rlp([sender, nonce])))
func CreateAddress(sender common.Address, nonce uint64) common.Address {
	return common.BytesToAddress(crypto.Keccak256(EncodeCreation(sender, nonce))[12:])
}

// EncodeCreation returns rlp([sender, nonce]). The nonce uses the minimal
// big-endian form, zero encodes as the empty string (0x80)
func EncodeCreation(sender common.Address, nonce uint64) []byte {
	enc, err := rlp.EncodeToBytes([]interface{}{sender, nonce})
	if err != nil {
		panic(fmt.Sprintf("rlp encoding of creation tuple: %v", err))
	}
	return enc
}

// ParseSalt decodes a 0x prefixed bytes32 salt. Shorter values are left padded
func ParseSalt(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Hash{}, fmt.Errorf("empty salt")
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid salt %q: %w", s, err)
	}
	if len(b) > common.HashLength {
		return common.Hash{}, fmt.Errorf("salt longer than 32 bytes: %d", len(b))
	}
	return common.BytesToHash(b), nil
}

// SaltFromLabel derives a salt from a human readable label
func SaltFromLabel(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}
