package routeindex

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zoopx/evm-thin-router/router"
)

// Route is one indexed BridgeInitiated record
type Route struct {
	ID            int64          `meddler:"id,pk"`
	MessageHash   common.Hash    `meddler:"message_hash,hash"`
	GlobalRouteID common.Hash    `meddler:"global_route_id,hash"`
	Initiator     common.Address `meddler:"initiator,address"`
	Asset         common.Address `meddler:"asset,address"`
	Amount        *big.Int       `meddler:"amount,bigint"`
	ProtocolFee   *big.Int       `meddler:"protocol_fee,bigint"`
	RelayerFee    *big.Int       `meddler:"relayer_fee,bigint"`
	Net           *big.Int       `meddler:"net,bigint"`
	Target        common.Address `meddler:"target,address"`
	SrcChainID    uint64         `meddler:"src_chain_id"`
	DstChainID    uint64         `meddler:"dst_chain_id"`
	Nonce         uint64         `meddler:"nonce"`
	IntentHash    common.Hash    `meddler:"intent_hash,hash"`
	Relayer       common.Address `meddler:"relayer,address"`
	CreatedAt     int64          `meddler:"created_at"`
}

// NewRoute builds the row for ev
func NewRoute(ev router.BridgeInitiated, createdAt int64) *Route {
	return &Route{
		MessageHash:   ev.MessageHash,
		GlobalRouteID: ev.GlobalRouteID,
		Initiator:     ev.Initiator,
		Asset:         ev.Asset,
		Amount:        ev.Amount,
		ProtocolFee:   ev.ProtocolFee,
		RelayerFee:    ev.RelayerFee,
		Net:           ev.Net,
		Target:        ev.Target,
		SrcChainID:    ev.SrcChainID,
		DstChainID:    ev.DstChainID,
		Nonce:         ev.Nonce,
		IntentHash:    ev.IntentHash,
		Relayer:       ev.Relayer,
		CreatedAt:     createdAt,
	}
}

// Event converts the row back to the record the router emitted
func (r Route) Event() router.BridgeInitiated {
	return router.BridgeInitiated{
		Initiator:     r.Initiator,
		Asset:         r.Asset,
		Amount:        r.Amount,
		ProtocolFee:   r.ProtocolFee,
		RelayerFee:    r.RelayerFee,
		Net:           r.Net,
		Target:        r.Target,
		SrcChainID:    r.SrcChainID,
		DstChainID:    r.DstChainID,
		Nonce:         r.Nonce,
		MessageHash:   r.MessageHash,
		GlobalRouteID: r.GlobalRouteID,
		IntentHash:    r.IntentHash,
		Relayer:       r.Relayer,
	}
}
