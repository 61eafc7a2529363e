package router

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zoopx/evm-thin-router/fees"
)

// Settings is the router section of the configuration file: the constructor
// identity plus the configuration applied right after deployment
type Settings struct {
	// Admin is the constructor admin
	Admin common.Address `mapstructure:"Admin"`
	// FeeRecipient receives fees unless a fee collector is set
	FeeRecipient common.Address `mapstructure:"FeeRecipient"`
	// DefaultTarget is used by routes that name no target
	DefaultTarget common.Address `mapstructure:"DefaultTarget"`
	// FeeCollector overrides FeeRecipient when non zero
	FeeCollector common.Address `mapstructure:"FeeCollector"`
	// Adapters are granted the adapter role, the first one also takes the legacy slot
	Adapters []string `mapstructure:"Adapters"`

	ProtocolFeeBps   uint16 `mapstructure:"ProtocolFeeBps"`
	RelayerFeeBps    uint16 `mapstructure:"RelayerFeeBps"`
	ProtocolShareBps uint16 `mapstructure:"ProtocolShareBps"`
	LPShareBps       uint16 `mapstructure:"LPShareBps"`
}

// AdapterAddresses parses Adapters, skipping blanks
func (s Settings) AdapterAddresses() ([]common.Address, error) {
	out := make([]common.Address, 0, len(s.Adapters))
	for _, a := range s.Adapters {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("%w: invalid adapter address %q", ErrConfiguration, a)
		}
		out = append(out, common.HexToAddress(a))
	}
	return out, nil
}

// RouterConfig validates the settings and builds the configuration they describe
func (s Settings) RouterConfig() (RouterConfig, error) {
	adapters, err := s.AdapterAddresses()
	if err != nil {
		return RouterConfig{}, err
	}
	for _, bps := range []uint16{s.ProtocolFeeBps, s.RelayerFeeBps} {
		if err := configErr(fees.ValidateBps(bps)); err != nil {
			return RouterConfig{}, err
		}
	}
	if err := configErr(fees.ValidateShares(s.ProtocolShareBps, s.LPShareBps)); err != nil {
		return RouterConfig{}, err
	}
	cfg := RouterConfig{
		Adapters:         make(map[common.Address]struct{}, len(adapters)),
		FeeCollector:     s.FeeCollector,
		ProtocolFeeBps:   s.ProtocolFeeBps,
		RelayerFeeBps:    s.RelayerFeeBps,
		ProtocolShareBps: s.ProtocolShareBps,
		LPShareBps:       s.LPShareBps,
	}
	for _, a := range adapters {
		if a == (common.Address{}) {
			return RouterConfig{}, fmt.Errorf("%w: adapter is the zero address", ErrConfiguration)
		}
		cfg.Adapters[a] = struct{}{}
	}
	if len(adapters) > 0 {
		cfg.LegacyAdapter = adapters[0]
	}
	return cfg, nil
}

// ApplySettings replaces the whole admin configuration. Nothing changes if
// any value is invalid
func (r *Router) ApplySettings(caller common.Address, s Settings) error {
	next, err := s.RouterConfig()
	if err != nil {
		return err
	}
	return r.update(caller, "settings", func(cfg *RouterConfig) error {
		*cfg = next
		return nil
	})
}
