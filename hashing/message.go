package hashing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iden3/go-iden3-crypto/keccak256"
	cmn "github.com/zoopx/evm-thin-router/common"
)

// MessageFields are the route attributes bound by a message hash
type MessageFields struct {
	SrcChainID  uint64
	SrcAdapter  common.Address
	Recipient   common.Address
	Asset       common.Address
	Amount      *big.Int
	PayloadHash common.Hash
	Nonce       uint64
	DstChainID  uint64
}

// MessageHash packs the fields with fixed widths and no padding between them:
// src u64 | srcAdapter 20 | recipient 20 | asset 20 | amount 32 | payloadHash 32 | nonce u64 | dst u64
func MessageHash(m MessageFields) common.Hash {
	return common.BytesToHash(keccak256.Hash(
		cmn.Uint64ToBytes(m.SrcChainID),
		m.SrcAdapter.Bytes(),
		m.Recipient.Bytes(),
		m.Asset.Bytes(),
		cmn.BigToWord(m.Amount),
		m.PayloadHash.Bytes(),
		cmn.Uint64ToBytes(m.Nonce),
		cmn.Uint64ToBytes(m.DstChainID),
	))
}

// GlobalRouteID correlates every message hash produced for one logical route
func GlobalRouteID(srcChainID, dstChainID uint64, initiator common.Address,
	messageHash common.Hash, nonce uint64) common.Hash {
	return common.BytesToHash(keccak256.Hash(
		cmn.Uint64ToBytes(srcChainID),
		cmn.Uint64ToBytes(dstChainID),
		initiator.Bytes(),
		messageHash.Bytes(),
		cmn.Uint64ToBytes(nonce),
	))
}

// PayloadHash is the keccak of an opaque route payload. An empty payload
// hashes to keccak(""), not to the zero hash
func PayloadHash(payload []byte) common.Hash {
	return common.BytesToHash(keccak256.Hash(payload))
}
