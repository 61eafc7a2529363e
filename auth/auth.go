package auth

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnauthorized is returned when the caller may not initiate a route
var ErrUnauthorized = errors.New("unauthorized")

// State is the authorization mode derived from the router configuration
type State int

const (
	// Open lets any caller use the direct path
	Open State = iota
	// LegacyAdapterSet restricts the direct path to the single legacy adapter
	LegacyAdapterSet
	// RoleSet restricts the direct path to the adapter set (plus the legacy adapter)
	RoleSet
)

func (s State) String() string {
	switch s {
	case Open:
		return "OPEN"
	case LegacyAdapterSet:
		return "LEGACY_ADAPTER_SET"
	case RoleSet:
		return "ROLE_SET"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Authorizer decides whether caller may use the direct route path
type Authorizer interface {
	Authorize(caller common.Address) error
	State() State
}

// OpenOrSingleAdapter admits everyone while no legacy adapter is configured,
// and only the legacy adapter afterwards
type OpenOrSingleAdapter struct {
	Legacy common.Address
}

// Authorize implements Authorizer
func (a OpenOrSingleAdapter) Authorize(caller common.Address) error {
	if a.Legacy == (common.Address{}) || caller == a.Legacy {
		return nil
	}
	return fmt.Errorf("%w: %s is not the adapter", ErrUnauthorized, caller.Hex())
}

// State implements Authorizer
func (a OpenOrSingleAdapter) State() State {
	if a.Legacy == (common.Address{}) {
		return Open
	}
	return LegacyAdapterSet
}

// RoleSetAuthorizer admits members of the adapter set. The legacy slot keeps
// finalize authority for callers that still target it
type RoleSetAuthorizer struct {
	Legacy   common.Address
	Adapters map[common.Address]struct{}
}

// Authorize implements Authorizer
func (a RoleSetAuthorizer) Authorize(caller common.Address) error {
	if _, ok := a.Adapters[caller]; ok {
		return nil
	}
	if a.Legacy != (common.Address{}) && caller == a.Legacy {
		return nil
	}
	return fmt.Errorf("%w: %s holds no adapter role", ErrUnauthorized, caller.Hex())
}

// State implements Authorizer
func (a RoleSetAuthorizer) State() State {
	return RoleSet
}

// Select returns the authorizer matching the configuration: a non empty
// adapter set wins, then the legacy slot, otherwise the path is open
func Select(legacy common.Address, adapters map[common.Address]struct{}) Authorizer {
	if len(adapters) > 0 {
		set := make(map[common.Address]struct{}, len(adapters))
		for a := range adapters {
			set[a] = struct{}{}
		}
		return RoleSetAuthorizer{Legacy: legacy, Adapters: set}
	}
	return OpenOrSingleAdapter{Legacy: legacy}
}

// SortedAdapters returns the set members in byte order
func SortedAdapters(adapters map[common.Address]struct{}) []common.Address {
	out := make([]common.Address, 0, len(adapters))
	for a := range adapters {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Cmp(out[j]) < 0
	})
	return out
}
