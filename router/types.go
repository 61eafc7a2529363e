package router

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zoopx/evm-thin-router/auth"
)

// RouteArgs is one transfer request
type RouteArgs struct {
	Asset       common.Address `json:"asset"`
	Amount      *big.Int       `json:"amount"`
	ProtocolFee *big.Int       `json:"protocolFee"`
	RelayerFee  *big.Int       `json:"relayerFee"`
	Payload     []byte         `json:"payload"`
	Target      common.Address `json:"target"`
	DstChainID  uint64         `json:"dstChainId"`
	Nonce       uint64         `json:"nonce"`
}

// BridgeInitiated is emitted once per committed route
type BridgeInitiated struct {
	Initiator     common.Address
	Asset         common.Address
	Amount        *big.Int
	ProtocolFee   *big.Int
	RelayerFee    *big.Int
	Net           *big.Int
	Target        common.Address
	SrcChainID    uint64
	DstChainID    uint64
	Nonce         uint64
	MessageHash   common.Hash
	GlobalRouteID common.Hash
	// IntentHash and Relayer are only set on the signed path
	IntentHash common.Hash
	Relayer    common.Address
}

// Signed reports whether the route came through the signed path
func (e BridgeInitiated) Signed() bool {
	return e.IntentHash != (common.Hash{})
}

// Identity is fixed at construction, except for the admin
type Identity struct {
	// Address of the router, spender of initiator allowances and EIP-712 verifying contract
	Address common.Address
	// ChainID is the full EVM chain id, used for the EIP-712 domain
	ChainID       uint64
	Admin         common.Address
	FeeRecipient  common.Address
	DefaultTarget common.Address
}

// RouterConfig is the admin controlled configuration
type RouterConfig struct {
	LegacyAdapter    common.Address
	Adapters         map[common.Address]struct{}
	FeeCollector     common.Address
	ProtocolFeeBps   uint16
	RelayerFeeBps    uint16
	ProtocolShareBps uint16
	LPShareBps       uint16
}

// Clone returns a deep copy
func (c RouterConfig) Clone() RouterConfig {
	out := c
	out.Adapters = make(map[common.Address]struct{}, len(c.Adapters))
	for a := range c.Adapters {
		out.Adapters[a] = struct{}{}
	}
	return out
}

// Authorizer builds the direct path authorizer for this configuration
func (c RouterConfig) Authorizer() auth.Authorizer {
	return auth.Select(c.LegacyAdapter, c.Adapters)
}

// AdapterList returns the adapter set in byte order
func (c RouterConfig) AdapterList() []common.Address {
	return auth.SortedAdapters(c.Adapters)
}
