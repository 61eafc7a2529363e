package router

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	cmn "github.com/zoopx/evm-thin-router/common"
	"github.com/zoopx/evm-thin-router/fees"
	"github.com/zoopx/evm-thin-router/hashing"
	"github.com/zoopx/evm-thin-router/log"
	"github.com/zoopx/evm-thin-router/replay"
)

// Router moves value for cross-chain routes. Every state changing call runs
// under a single writer lock: validate, authorize, guard, settle, emit
type Router struct {
	logger *log.Logger
	ledger Ledger
	guard  *replay.Guard
	now    func() time.Time

	mu       sync.RWMutex
	id       Identity
	cfg      RouterConfig
	sinks    []EventSink
	adapters map[common.Address]Adapter

	// dispatchMu is taken before mu is released so sinks see routes in commit order
	dispatchMu sync.Mutex
}

// Option customizes a Router
type Option func(*Router)

// WithClock replaces the wall clock used for intent expiry
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithEventSink registers a sink for committed routes
func WithEventSink(s EventSink) Option {
	return func(r *Router) { r.sinks = append(r.sinks, s) }
}

// New creates a router in the OPEN authorization state
func New(logger *log.Logger, id Identity, ledger Ledger, opts ...Option) (*Router, error) {
	if id.Admin == (common.Address{}) {
		return nil, fmt.Errorf("%w: admin is the zero address", ErrConfiguration)
	}
	if id.FeeRecipient == (common.Address{}) {
		return nil, fmt.Errorf("%w: fee recipient is the zero address", ErrConfiguration)
	}
	if logger == nil {
		logger = log.WithFields("module", "router")
	}
	r := &Router{
		logger:   logger,
		ledger:   ledger,
		guard:    replay.NewGuard(),
		now:      time.Now,
		id:       id,
		cfg:      RouterConfig{Adapters: map[common.Address]struct{}{}},
		adapters: map[common.Address]Adapter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Bridge is the direct path: caller pays amount out of its own balance,
// through the allowance it granted the router
func (r *Router) Bridge(ctx context.Context, caller common.Address, args RouteArgs) (BridgeInitiated, error) {
	r.mu.Lock()
	ev, err := r.bridge(caller, args)
	var d delivery
	if err == nil {
		d = r.prepareDelivery()
	}
	r.mu.Unlock()
	if err != nil {
		r.logger.Debugf("direct route from %s rejected: %v", caller.Hex(), err)
		return BridgeInitiated{}, err
	}
	r.logger.Infof("route %s committed: initiator %s, net %s to %s on chain %d",
		ev.MessageHash.Hex(), ev.Initiator.Hex(), ev.Net, ev.Target.Hex(), ev.DstChainID)
	r.dispatch(ctx, d, ev)
	return ev, nil
}

func (r *Router) bridge(caller common.Address, args RouteArgs) (BridgeInitiated, error) {
	breakdown, target, err := r.validate(args)
	if err != nil {
		return BridgeInitiated{}, err
	}
	if err := r.cfg.Authorizer().Authorize(caller); err != nil {
		return BridgeInitiated{}, err
	}
	ev := r.newEvent(caller, target, args, breakdown)
	if err := r.guard.Check(replay.Messages, ev.MessageHash); err != nil {
		return BridgeInitiated{}, err
	}
	if err := r.settle(caller, target, args.Asset, breakdown); err != nil {
		return BridgeInitiated{}, err
	}
	if err := r.guard.Consume(replay.Messages, ev.MessageHash); err != nil {
		// checked under the same lock, unreachable
		return BridgeInitiated{}, err
	}
	return ev, nil
}

// BridgeWithSignature is the signed path: relayer submits a route the
// recipient of intent signed. Funds are pulled from intent.Recipient
func (r *Router) BridgeWithSignature(ctx context.Context, relayer common.Address, args RouteArgs,
	intent hashing.RouteIntent, sig []byte, claimedSigner common.Address) (BridgeInitiated, error) {
	r.mu.Lock()
	ev, err := r.bridgeWithSignature(relayer, args, intent, sig, claimedSigner)
	var d delivery
	if err == nil {
		d = r.prepareDelivery()
	}
	r.mu.Unlock()
	if err != nil {
		r.logger.Debugf("signed route relayed by %s rejected: %v", relayer.Hex(), err)
		return BridgeInitiated{}, err
	}
	r.logger.Infof("signed route %s committed: initiator %s, relayer %s, net %s to %s on chain %d",
		ev.MessageHash.Hex(), ev.Initiator.Hex(), relayer.Hex(), ev.Net, ev.Target.Hex(), ev.DstChainID)
	r.dispatch(ctx, d, ev)
	return ev, nil
}

func (r *Router) bridgeWithSignature(relayer common.Address, args RouteArgs,
	intent hashing.RouteIntent, sig []byte, claimedSigner common.Address) (BridgeInitiated, error) {
	breakdown, target, err := r.validate(args)
	if err != nil {
		return BridgeInitiated{}, err
	}
	if now := uint64(r.now().Unix()); now > intent.Expiry {
		return BridgeInitiated{}, fmt.Errorf("%w: expired at %d, now %d", ErrExpiredIntent, intent.Expiry, now)
	}
	if err := matchIntent(args, intent); err != nil {
		return BridgeInitiated{}, err
	}
	if claimedSigner != intent.Recipient {
		return BridgeInitiated{}, fmt.Errorf("%w: claimed signer %s is not the intent recipient %s",
			ErrUnauthorized, claimedSigner.Hex(), intent.Recipient.Hex())
	}
	intentHash := hashing.TypedDataHash(r.domain(), intent)
	signer, err := hashing.RecoverSigner(intentHash, sig)
	if err != nil {
		return BridgeInitiated{}, err
	}
	if signer != claimedSigner {
		return BridgeInitiated{}, fmt.Errorf("%w: recovered %s, claimed %s",
			ErrInvalidSignature, signer.Hex(), claimedSigner.Hex())
	}
	if err := r.guard.Check(replay.Intents, intentHash); err != nil {
		return BridgeInitiated{}, err
	}
	initiator := intent.Recipient
	ev := r.newEvent(initiator, target, args, breakdown)
	ev.IntentHash = intentHash
	ev.Relayer = relayer
	if err := r.settle(initiator, target, args.Asset, breakdown); err != nil {
		return BridgeInitiated{}, err
	}
	if err := r.guard.Consume(replay.Intents, intentHash); err != nil {
		return BridgeInitiated{}, err
	}
	return ev, nil
}

// validate checks the parts shared by both paths and resolves the target
func (r *Router) validate(args RouteArgs) (fees.Breakdown, common.Address, error) {
	breakdown, err := fees.Compute(args.Amount, args.ProtocolFee, args.RelayerFee)
	if err != nil {
		return fees.Breakdown{}, common.Address{}, err
	}
	if args.DstChainID == uint64(r.srcChainID()) {
		return fees.Breakdown{}, common.Address{}, fmt.Errorf("%w: %d", ErrSameChain, args.DstChainID)
	}
	target := args.Target
	if target == (common.Address{}) {
		target = r.id.DefaultTarget
	}
	if target == (common.Address{}) {
		return fees.Breakdown{}, common.Address{}, ErrInvalidTarget
	}
	return breakdown, target, nil
}

func matchIntent(args RouteArgs, intent hashing.RouteIntent) error {
	mismatch := func(field string) error {
		return fmt.Errorf("%w: %s", ErrIntentMismatch, field)
	}
	switch {
	case intent.Nonce != args.Nonce:
		return mismatch("nonce")
	case intent.Token != args.Asset:
		return mismatch("token")
	case cmpBig(intent.Amount, args.Amount) != 0:
		return mismatch("amount")
	case cmpBig(intent.ProtocolFee, args.ProtocolFee) != 0:
		return mismatch("protocolFee")
	case cmpBig(intent.RelayerFee, args.RelayerFee) != 0:
		return mismatch("relayerFee")
	case intent.Target != args.Target:
		return mismatch("target")
	case intent.DstChainID != args.DstChainID:
		return mismatch("dstChainId")
	case intent.PayloadHash != hashing.PayloadHash(args.Payload):
		return mismatch("payloadHash")
	}
	return nil
}

// settle moves net to target and both fees to the fee destination. Any
// failure restores the ledger to its state before the first transfer
func (r *Router) settle(from, target, asset common.Address, b fees.Breakdown) error {
	snapshot := r.ledger.Snapshot()
	feeDest := r.feeDestination()
	transfers := []struct {
		to     common.Address
		amount *big.Int
	}{
		{target, b.Net},
		{feeDest, b.ProtocolFee},
		{feeDest, b.RelayerFee},
	}
	for _, t := range transfers {
		if t.amount.Sign() == 0 {
			continue
		}
		if err := r.ledger.TransferFrom(asset, r.id.Address, from, t.to, t.amount); err != nil {
			if errRevert := r.ledger.RevertToSnapshot(snapshot); errRevert != nil {
				r.logger.Errorf("reverting ledger snapshot %d: %v", snapshot, errRevert)
			}
			return fmt.Errorf("%w: %w", ErrTransferFailure, err)
		}
	}
	if err := r.ledger.DiscardSnapshot(snapshot); err != nil {
		r.logger.Errorf("releasing ledger snapshot %d: %v", snapshot, err)
	}
	return nil
}

func (r *Router) newEvent(initiator, target common.Address, args RouteArgs, b fees.Breakdown) BridgeInitiated {
	src := uint64(r.srcChainID())
	messageHash := hashing.MessageHash(hashing.MessageFields{
		SrcChainID:  src,
		SrcAdapter:  initiator,
		Recipient:   target,
		Asset:       args.Asset,
		Amount:      b.Amount,
		PayloadHash: hashing.PayloadHash(args.Payload),
		Nonce:       args.Nonce,
		DstChainID:  args.DstChainID,
	})
	return BridgeInitiated{
		Initiator:     initiator,
		Asset:         args.Asset,
		Amount:        b.Amount,
		ProtocolFee:   b.ProtocolFee,
		RelayerFee:    b.RelayerFee,
		Net:           b.Net,
		Target:        target,
		SrcChainID:    src,
		DstChainID:    args.DstChainID,
		Nonce:         args.Nonce,
		MessageHash:   messageHash,
		GlobalRouteID: hashing.GlobalRouteID(src, args.DstChainID, initiator, messageHash, args.Nonce),
	}
}

func (r *Router) feeDestination() common.Address {
	if r.cfg.FeeCollector != (common.Address{}) {
		return r.cfg.FeeCollector
	}
	return r.id.FeeRecipient
}

func (r *Router) srcChainID() uint16 {
	return cmn.SrcChainID(r.id.ChainID)
}

func (r *Router) domain() hashing.Domain {
	return hashing.NewDomain(r.id.ChainID, r.id.Address)
}

func cmpBig(a, b *big.Int) int {
	if a == nil {
		a = new(big.Int)
	}
	if b == nil {
		b = new(big.Int)
	}
	return a.Cmp(b)
}
