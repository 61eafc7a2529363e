package router

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zoopx/evm-thin-router/auth"
	"github.com/zoopx/evm-thin-router/hashing"
	"github.com/zoopx/evm-thin-router/replay"
)

// Address of the router
func (r *Router) Address() common.Address {
	return r.id.Address
}

// Admin returns the current admin
func (r *Router) Admin() common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id.Admin
}

// FeeRecipient returns the fee recipient fixed at construction
func (r *Router) FeeRecipient() common.Address {
	return r.id.FeeRecipient
}

// DefaultTarget returns the target used when a route names none
func (r *Router) DefaultTarget() common.Address {
	return r.id.DefaultTarget
}

// SrcChainID returns the 16 bit source chain id bound into message hashes
func (r *Router) SrcChainID() uint16 {
	return r.srcChainID()
}

// Domain returns the EIP-712 domain intents must be signed for
func (r *Router) Domain() hashing.Domain {
	return r.domain()
}

// UsedMessages reports whether a direct path message hash was consumed
func (r *Router) UsedMessages(h common.Hash) bool {
	return r.guard.Used(replay.Messages, h)
}

// UsedIntents reports whether a signed intent hash was consumed
func (r *Router) UsedIntents(h common.Hash) bool {
	return r.guard.Used(replay.Intents, h)
}

// ComputeMessageHash binds the route fields to this router's source chain
func (r *Router) ComputeMessageHash(srcAdapter, recipient, asset common.Address, amount *big.Int,
	payloadHash common.Hash, nonce, dstChainID uint64) common.Hash {
	return hashing.MessageHash(hashing.MessageFields{
		SrcChainID:  uint64(r.srcChainID()),
		SrcAdapter:  srcAdapter,
		Recipient:   recipient,
		Asset:       asset,
		Amount:      amount,
		PayloadHash: payloadHash,
		Nonce:       nonce,
		DstChainID:  dstChainID,
	})
}

// ComputeGlobalRouteID derives the global route id from this router's source chain
func (r *Router) ComputeGlobalRouteID(dstChainID uint64, initiator common.Address,
	messageHash common.Hash, nonce uint64) common.Hash {
	return hashing.GlobalRouteID(uint64(r.srcChainID()), dstChainID, initiator, messageHash, nonce)
}

// Config returns a copy of the admin controlled configuration
func (r *Router) Config() RouterConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.Clone()
}

// AuthorizationState returns the current direct path mode
func (r *Router) AuthorizationState() auth.State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.Authorizer().State()
}

// IsAdapter reports whether a is in the adapter set or the legacy slot
func (r *Router) IsAdapter(a common.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.cfg.Adapters[a]; ok {
		return true
	}
	return a != (common.Address{}) && a == r.cfg.LegacyAdapter
}

// Adapters returns the adapter set in byte order
func (r *Router) Adapters() []common.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.AdapterList()
}
