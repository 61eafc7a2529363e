package replay

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrReplay is returned when a key was already consumed
var ErrReplay = errors.New("replay")

// Keyspace separates direct path message hashes from signed intent hashes
type Keyspace uint8

const (
	// Messages holds message hashes consumed by the direct path
	Messages Keyspace = iota
	// Intents holds typed data hashes consumed by the signed path
	Intents
)

func (k Keyspace) String() string {
	switch k {
	case Messages:
		return "messages"
	case Intents:
		return "intents"
	default:
		return fmt.Sprintf("keyspace(%d)", uint8(k))
	}
}

// Guard tracks consumed keys. Entries are never removed
type Guard struct {
	mu   sync.RWMutex
	used map[Keyspace]map[common.Hash]struct{}
}

// NewGuard returns an empty guard
func NewGuard() *Guard {
	return &Guard{
		used: map[Keyspace]map[common.Hash]struct{}{
			Messages: {},
			Intents:  {},
		},
	}
}

// Used reports whether key was consumed in space
func (g *Guard) Used(space Keyspace, key common.Hash) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.used[space][key]
	return ok
}

// Check fails with ErrReplay if key was consumed, without marking it
func (g *Guard) Check(space Keyspace, key common.Hash) error {
	if g.Used(space, key) {
		return fmt.Errorf("%w: %s %s", ErrReplay, space, key.Hex())
	}
	return nil
}

// Consume marks key as used. It fails with ErrReplay and changes nothing if it already was
func (g *Guard) Consume(space Keyspace, key common.Hash) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	keys, ok := g.used[space]
	if !ok {
		keys = make(map[common.Hash]struct{})
		g.used[space] = keys
	}
	if _, seen := keys[key]; seen {
		return fmt.Errorf("%w: %s %s", ErrReplay, space, key.Hex())
	}
	keys[key] = struct{}{}
	return nil
}

// Len returns the number of consumed keys in space
func (g *Guard) Len(space Keyspace) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.used[space])
}
