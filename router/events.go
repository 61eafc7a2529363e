package router

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zoopx/evm-thin-router/auth"
)

// EventSink receives every committed BridgeInitiated record, in commit order.
// Sinks and adapters must not call back into the Router
type EventSink interface {
	OnBridgeInitiated(ctx context.Context, ev BridgeInitiated) error
}

// Adapter is the cross-chain messaging counterpart of the router
type Adapter interface {
	Identify() common.Address
	Authorize(ctx context.Context, ev BridgeInitiated) error
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(ctx context.Context, ev BridgeInitiated) error

// OnBridgeInitiated implements EventSink
func (f EventSinkFunc) OnBridgeInitiated(ctx context.Context, ev BridgeInitiated) error {
	return f(ctx, ev)
}

// delivery is what dispatch needs from the router state at commit time
type delivery struct {
	sinks      []EventSink
	authorizer auth.Authorizer
	adapters   []Adapter
}

// prepareDelivery captures the sinks and adapters and takes dispatchMu.
// Callers hold mu, so the next committed route queues behind this one
func (r *Router) prepareDelivery() delivery {
	d := delivery{
		sinks:      append([]EventSink(nil), r.sinks...),
		authorizer: r.cfg.Authorizer(),
		adapters:   make([]Adapter, 0, len(r.adapters)),
	}
	for _, a := range r.adapters {
		d.adapters = append(d.adapters, a)
	}
	r.dispatchMu.Lock()
	return d
}

// dispatch hands ev to every sink and to the adapters currently holding authority,
// then releases dispatchMu. Delivery is best effort: the route is already committed
func (r *Router) dispatch(ctx context.Context, d delivery, ev BridgeInitiated) {
	defer r.dispatchMu.Unlock()
	for _, s := range d.sinks {
		if err := s.OnBridgeInitiated(ctx, ev); err != nil {
			r.logger.Warnf("event sink failed for message %s: %v", ev.MessageHash.Hex(), err)
		}
	}
	for _, a := range d.adapters {
		if d.authorizer.State() == auth.Open {
			break
		}
		if err := d.authorizer.Authorize(a.Identify()); err != nil {
			continue
		}
		if err := a.Authorize(ctx, ev); err != nil {
			r.logger.Warnf("adapter %s rejected message %s: %v", a.Identify().Hex(), ev.MessageHash.Hex(), err)
		}
	}
}
