package router

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zoopx/evm-thin-router/fees"
)

// update applies mutate to a copy of the configuration and commits it only
// if caller is the admin and mutate succeeds
func (r *Router) update(caller common.Address, what string, mutate func(cfg *RouterConfig) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.id.Admin {
		return fmt.Errorf("%w: %s is not the admin", ErrUnauthorized, caller.Hex())
	}
	next := r.cfg.Clone()
	if err := mutate(&next); err != nil {
		return err
	}
	r.cfg = next
	r.logger.Infof("router config updated: %s", what)
	return nil
}

// SetAdapter sets the legacy single adapter slot. The zero address clears it
func (r *Router) SetAdapter(caller, adapter common.Address) error {
	return r.update(caller, "legacy adapter "+adapter.Hex(), func(cfg *RouterConfig) error {
		cfg.LegacyAdapter = adapter
		return nil
	})
}

// AddAdapter grants the adapter role
func (r *Router) AddAdapter(caller, adapter common.Address) error {
	return r.update(caller, "add adapter "+adapter.Hex(), func(cfg *RouterConfig) error {
		if adapter == (common.Address{}) {
			return fmt.Errorf("%w: adapter is the zero address", ErrConfiguration)
		}
		cfg.Adapters[adapter] = struct{}{}
		return nil
	})
}

// RemoveAdapter revokes the adapter role
func (r *Router) RemoveAdapter(caller, adapter common.Address) error {
	return r.update(caller, "remove adapter "+adapter.Hex(), func(cfg *RouterConfig) error {
		delete(cfg.Adapters, adapter)
		return nil
	})
}

// SetFeeCollector overrides where fees go. The zero address falls back to the fee recipient
func (r *Router) SetFeeCollector(caller, collector common.Address) error {
	return r.update(caller, "fee collector "+collector.Hex(), func(cfg *RouterConfig) error {
		cfg.FeeCollector = collector
		return nil
	})
}

// SetProtocolFeeBps sets the protocol fee rate
func (r *Router) SetProtocolFeeBps(caller common.Address, bps uint16) error {
	return r.update(caller, fmt.Sprintf("protocol fee %d bps", bps), func(cfg *RouterConfig) error {
		if err := configErr(fees.ValidateBps(bps)); err != nil {
			return err
		}
		cfg.ProtocolFeeBps = bps
		return nil
	})
}

// SetRelayerFeeBps sets the relayer fee rate
func (r *Router) SetRelayerFeeBps(caller common.Address, bps uint16) error {
	return r.update(caller, fmt.Sprintf("relayer fee %d bps", bps), func(cfg *RouterConfig) error {
		if err := configErr(fees.ValidateBps(bps)); err != nil {
			return err
		}
		cfg.RelayerFeeBps = bps
		return nil
	})
}

// SetProtocolShareBps sets the protocol share of collected fees
func (r *Router) SetProtocolShareBps(caller common.Address, bps uint16) error {
	return r.update(caller, fmt.Sprintf("protocol share %d bps", bps), func(cfg *RouterConfig) error {
		if err := configErr(fees.ValidateShares(bps, cfg.LPShareBps)); err != nil {
			return err
		}
		cfg.ProtocolShareBps = bps
		return nil
	})
}

// SetLPShareBps sets the liquidity provider share of collected fees
func (r *Router) SetLPShareBps(caller common.Address, bps uint16) error {
	return r.update(caller, fmt.Sprintf("lp share %d bps", bps), func(cfg *RouterConfig) error {
		if err := configErr(fees.ValidateShares(cfg.ProtocolShareBps, bps)); err != nil {
			return err
		}
		cfg.LPShareBps = bps
		return nil
	})
}

// TransferAdmin hands the admin role to next
func (r *Router) TransferAdmin(caller, next common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.id.Admin {
		return fmt.Errorf("%w: %s is not the admin", ErrUnauthorized, caller.Hex())
	}
	if next == (common.Address{}) {
		return fmt.Errorf("%w: admin is the zero address", ErrConfiguration)
	}
	r.id.Admin = next
	r.logger.Infof("router admin transferred to %s", next.Hex())
	return nil
}

// RegisterAdapter attaches an adapter implementation. It is notified of
// committed routes while its address holds adapter authority
func (r *Router) RegisterAdapter(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Identify()] = a
}

// AddEventSink registers a sink for committed routes
func (r *Router) AddEventSink(s EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, s)
}

func configErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrConfiguration, err)
}
