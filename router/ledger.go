package router

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInsufficientBalance the source does not hold enough of the asset
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientAllowance the spender may not move that much from the source
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrInvalidSnapshot the snapshot id is unknown
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Ledger moves assets between accounts. Snapshot opens an undo point for the
// router's transfers: RevertToSnapshot rolls them back, DiscardSnapshot keeps
// them and releases the undo point
type Ledger interface {
	BalanceOf(asset, account common.Address) *big.Int
	Allowance(asset, owner, spender common.Address) *big.Int
	TransferFrom(asset, spender, from, to common.Address, amount *big.Int) error
	Snapshot() int
	RevertToSnapshot(id int) error
	DiscardSnapshot(id int) error
}

type allowanceKey struct {
	asset, owner, spender common.Address
}

type balanceKey struct {
	asset, account common.Address
}

// transferUndo is the journal entry of one TransferFrom
type transferUndo struct {
	from, to  balanceKey
	allowance *allowanceKey
	amount    *big.Int
}

// MemoryLedger is an in-memory ERC20 style ledger. Only transfers are
// journaled, so a revert never touches a Mint or Approve made meanwhile
type MemoryLedger struct {
	mu         sync.Mutex
	balances   map[balanceKey]*big.Int
	allowances map[allowanceKey]*big.Int
	// journal holds the transfers made while a snapshot is open
	journal []transferUndo
	// snapshots are journal offsets, one per open snapshot
	snapshots []int
}

var _ Ledger = (*MemoryLedger)(nil)

// NewMemoryLedger returns an empty ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances:   make(map[balanceKey]*big.Int),
		allowances: make(map[allowanceKey]*big.Int),
	}
}

// Mint credits amount of asset to account
func (l *MemoryLedger) Mint(asset, account common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := balanceKey{asset, account}
	l.balances[k] = new(big.Int).Add(l.balance(k), amount)
}

// Approve sets the amount spender may move out of owner
func (l *MemoryLedger) Approve(asset, owner, spender common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[allowanceKey{asset, owner, spender}] = new(big.Int).Set(amount)
}

// BalanceOf implements Ledger
func (l *MemoryLedger) BalanceOf(asset, account common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.balance(balanceKey{asset, account}))
}

// Allowance implements Ledger
func (l *MemoryLedger) Allowance(asset, owner, spender common.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.allowance(allowanceKey{asset, owner, spender}))
}

// TransferFrom implements Ledger. A spender moving its own funds needs no allowance
func (l *MemoryLedger) TransferFrom(asset, spender, from, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount.Sign() < 0 {
		return fmt.Errorf("negative transfer %s", amount)
	}
	fromKey := balanceKey{asset, from}
	if l.balance(fromKey).Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.Hex(), l.balance(fromKey), amount)
	}
	entry := transferUndo{from: fromKey, to: balanceKey{asset, to}, amount: new(big.Int).Set(amount)}
	if spender != from {
		ak := allowanceKey{asset, from, spender}
		if l.allowance(ak).Cmp(amount) < 0 {
			return fmt.Errorf("%w: %s may move %s, needs %s", ErrInsufficientAllowance, spender.Hex(), l.allowance(ak), amount)
		}
		entry.allowance = &ak
	}
	l.apply(entry, false)
	if len(l.snapshots) > 0 {
		l.journal = append(l.journal, entry)
	}
	return nil
}

// apply performs the transfer in e, or undoes it
func (l *MemoryLedger) apply(e transferUndo, undo bool) {
	amount := e.amount
	if undo {
		amount = new(big.Int).Neg(amount)
	}
	if e.allowance != nil {
		l.allowances[*e.allowance] = new(big.Int).Sub(l.allowance(*e.allowance), amount)
	}
	l.balances[e.from] = new(big.Int).Sub(l.balance(e.from), amount)
	l.balances[e.to] = new(big.Int).Add(l.balance(e.to), amount)
}

// Snapshot implements Ledger
func (l *MemoryLedger) Snapshot() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshots = append(l.snapshots, len(l.journal))
	return len(l.snapshots) - 1
}

// RevertToSnapshot implements Ledger. Transfers made since id are undone in
// reverse order and snapshots taken after id are released
func (l *MemoryLedger) RevertToSnapshot(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkSnapshot(id); err != nil {
		return err
	}
	offset := l.snapshots[id]
	for i := len(l.journal) - 1; i >= offset; i-- {
		l.apply(l.journal[i], true)
	}
	l.journal = l.journal[:offset]
	l.release(id)
	return nil
}

// DiscardSnapshot implements Ledger. Transfers since id are kept
func (l *MemoryLedger) DiscardSnapshot(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkSnapshot(id); err != nil {
		return err
	}
	l.release(id)
	return nil
}

// OpenSnapshots returns the number of snapshots not yet reverted or discarded
func (l *MemoryLedger) OpenSnapshots() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.snapshots)
}

func (l *MemoryLedger) checkSnapshot(id int) error {
	if id < 0 || id >= len(l.snapshots) {
		return fmt.Errorf("%w: %d", ErrInvalidSnapshot, id)
	}
	return nil
}

func (l *MemoryLedger) release(id int) {
	l.snapshots = l.snapshots[:id]
	if len(l.snapshots) == 0 {
		l.journal = nil
	}
}

func (l *MemoryLedger) balance(k balanceKey) *big.Int {
	if v, ok := l.balances[k]; ok {
		return v
	}
	return new(big.Int)
}

func (l *MemoryLedger) allowance(k allowanceKey) *big.Int {
	if v, ok := l.allowances[k]; ok {
		return v
	}
	return new(big.Int)
}
