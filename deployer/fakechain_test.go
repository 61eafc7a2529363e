package deployer

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// fakeChain is an in-memory EthClienter. Creation txs place their data as code
// at the CREATE address, factory deploy calls place the creation code at the
// CREATE2 address and router getters answer from getters
type fakeChain struct {
	mu sync.Mutex

	id       *big.Int
	balances map[common.Address]*big.Int
	nonces   map[common.Address]uint64
	code     map[common.Address][]byte
	receipts map[common.Hash]*types.Receipt
	getters  map[common.Address]Getters
	sent     []*types.Transaction

	// routerGetters, when set, is installed for every contract created by a plain creation tx
	routerGetters *Getters
	estimateErr   error
	sendFailures  int
	noReceipts    bool
	revert        bool
	chainIDErr    error
	closed        bool
}

func newFakeChain(chainID uint64) *fakeChain {
	return &fakeChain{
		id:       new(big.Int).SetUint64(chainID),
		balances: map[common.Address]*big.Int{},
		nonces:   map[common.Address]uint64{},
		code:     map[common.Address][]byte{},
		receipts: map[common.Hash]*types.Receipt{},
		getters:  map[common.Address]Getters{},
	}
}

func (f *fakeChain) fund(addr common.Address, wei *big.Int) *fakeChain {
	f.balances[addr] = wei
	return f
}

func (f *fakeChain) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeChain) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	if f.chainIDErr != nil {
		return nil, f.chainIDErr
	}
	return new(big.Int).Set(f.id), nil
}

func (f *fakeChain) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[account]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (f *fakeChain) StorageAt(context.Context, common.Address, common.Hash, *big.Int) ([]byte, error) {
	return make([]byte, common.HashLength), nil
}

func (f *fakeChain) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code[account], nil
}

func (f *fakeChain) NonceAt(_ context.Context, account common.Address, _ *big.Int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonces[account], nil
}

func (f *fakeChain) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return f.NonceAt(ctx, account, nil)
}

func (f *fakeChain) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if call.To == nil || len(call.Data) < 4 {
		return nil, errors.New("bad call")
	}
	g, ok := f.getters[*call.To]
	if !ok {
		return nil, nil
	}
	for name, method := range gettersABI.Methods {
		if !bytes.Equal(method.ID, call.Data[:4]) {
			continue
		}
		switch name {
		case "admin":
			return method.Outputs.Pack(g.Admin)
		case "feeRecipient":
			return method.Outputs.Pack(g.FeeRecipient)
		case "defaultTarget":
			return method.Outputs.Pack(g.DefaultTarget)
		case "SRC_CHAIN_ID":
			return method.Outputs.Pack(g.SrcChainID)
		}
	}
	return nil, errors.New("execution reverted")
}

func (f *fakeChain) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return 1_000_000, nil
}

func (f *fakeChain) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeChain) TransactionByHash(_ context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.sent {
		if tx.Hash() == hash {
			return tx, false, nil
		}
	}
	return nil, false, ethereum.NotFound
}

func (f *fakeChain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.receipts[hash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (f *fakeChain) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendFailures > 0 {
		f.sendFailures--
		return errors.New("intrinsic gas too low")
	}
	from, err := types.Sender(types.LatestSignerForChainID(f.id), tx)
	if err != nil {
		return err
	}
	if tx.Nonce() != f.nonces[from] {
		return errors.New("invalid nonce")
	}
	f.nonces[from]++
	f.sent = append(f.sent, tx)

	receipt := &types.Receipt{TxHash: tx.Hash(), Status: types.ReceiptStatusSuccessful}
	switch {
	case f.revert:
		receipt.Status = types.ReceiptStatusFailed
	case tx.To() == nil:
		addr := crypto.CreateAddress(from, tx.Nonce())
		f.code[addr] = tx.Data()
		if f.routerGetters != nil {
			f.getters[addr] = *f.routerGetters
		}
		receipt.ContractAddress = addr
	default:
		method := factoryABI.Methods["deploy"]
		data := tx.Data()
		if len(data) >= 4 && bytes.Equal(data[:4], method.ID) && len(f.code[*tx.To()]) > 0 {
			args, err := method.Inputs.Unpack(data[4:])
			if err != nil {
				return err
			}
			salt, _ := args[0].([32]byte)
			initCode, _ := args[1].([]byte)
			f.code[crypto.CreateAddress2(*tx.To(), salt, crypto.Keccak256(initCode))] = initCode
		} else {
			receipt.Status = types.ReceiptStatusFailed
		}
	}
	if !f.noReceipts {
		f.receipts[tx.Hash()] = receipt
	}
	return nil
}

// fakeDialer serves one fakeChain per RPC URL
func fakeDialer(chains map[string]*fakeChain) Dialer {
	return func(_ context.Context, rpcURL string) (EthClienter, error) {
		c, ok := chains[rpcURL]
		if !ok {
			return nil, ErrRPCUnavailable
		}
		return c, nil
	}
}
