package deployer

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	cmn "github.com/zoopx/evm-thin-router/common"
	"github.com/zoopx/evm-thin-router/hashing"
	"github.com/zoopx/evm-thin-router/log"
)

// Status of one chain in a run
type Status string

const (
	StatusDeployed        Status = "deployed"
	StatusAlreadyDeployed Status = "already-deployed"
	StatusOK              Status = "ok"
	StatusSkipped         Status = "skipped"
	StatusFailed          Status = "failed"
)

// Result of a job on one chain
type Result struct {
	Chain     string
	ChainID   uint64
	Status    Status
	Address   common.Address
	Tx        common.Hash
	Message   string
	Err       error
	Getters   *Getters
	Readiness *Readiness
}

func (r Result) String() string {
	s := fmt.Sprintf("[%s] %s", r.Chain, r.Status)
	if r.Address != (common.Address{}) {
		s += " " + r.Address.Hex()
	}
	if r.Tx != (common.Hash{}) {
		s += " tx=" + r.Tx.Hex()
	}
	if r.Message != "" {
		s += " " + r.Message
	}
	if r.Err != nil {
		s += ": " + r.Err.Error()
	}
	return s
}

// ChainEnv is everything a job needs to work on one chain
type ChainEnv struct {
	Chain   ChainConfig
	ChainID uint64
	// ChainIDMatch is false when the configured id differs from the RPC one
	ChainIDMatch bool
	Client       EthClienter
	// Wallet is nil for jobs that only read
	Wallet  *Wallet
	Balance *big.Int
	Logger  *log.Logger

	sender *txSender
}

func (e *ChainEnv) key() string {
	return cmn.ChainKey(e.ChainID)
}

func (e *ChainEnv) failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// Job runs against one chain. Jobs must be safe to run concurrently on different chains
type Job interface {
	Name() string
	// ReadOnly jobs never send transactions, so they are not subject to the balance guard
	ReadOnly() bool
	Run(ctx context.Context, env *ChainEnv) Result
}

// resolveFactory returns the persisted factory of the chain, or the address the
// next creation from the deployer would get
func resolveFactory(ctx context.Context, env *ChainEnv, factories *RecordStore[common.Address]) (common.Address, bool, error) {
	addr, ok, err := factories.Get(env.key())
	if err != nil {
		return common.Address{}, false, err
	}
	if ok {
		return addr, true, nil
	}
	if env.Wallet == nil {
		return common.Address{}, false, nil
	}
	nonce, err := env.Client.NonceAt(ctx, env.Wallet.Address, nil)
	if err != nil {
		return common.Address{}, false, fmt.Errorf("%w: reading nonce: %w", ErrRPCUnavailable, err)
	}
	return hashing.CreateAddress(env.Wallet.Address, nonce), false, nil
}

// confirmCreation waits for a creation tx and returns the created address. On
// a receipt timeout it falls back to looking for code at the expected address
func confirmCreation(ctx context.Context, env *ChainEnv, tx *types.Transaction, expected common.Address) (common.Address, error) {
	receipt, err := env.sender.waitMined(ctx, tx.Hash())
	switch {
	case err == nil:
		if receipt.ContractAddress != (common.Address{}) {
			return receipt.ContractAddress, nil
		}
		return expected, nil
	case errors.Is(err, ErrConfirmationTimeout):
		ok, codeErr := hasCode(ctx, env.Client, expected)
		if codeErr != nil || !ok {
			return common.Address{}, err
		}
		env.Logger.Warnf("no receipt for %s but code found at %s", tx.Hash().Hex(), expected.Hex())
		return expected, nil
	default:
		return common.Address{}, err
	}
}

// FactoryJob deploys the CREATE2 factory from the deployer account
type FactoryJob struct {
	Bytecode   []byte
	Factories  *RecordStore[common.Address]
	GasCeiling uint64
}

func (j *FactoryJob) Name() string   { return cmn.FACTORY }
func (j *FactoryJob) ReadOnly() bool { return false }

func (j *FactoryJob) Run(ctx context.Context, env *ChainEnv) Result {
	expected, persisted, err := resolveFactory(ctx, env, j.Factories)
	if err != nil {
		return env.failed(err)
	}
	deployed, err := hasCode(ctx, env.Client, expected)
	if err != nil {
		return env.failed(err)
	}
	if deployed {
		if !persisted {
			if err := j.Factories.Put(env.key(), expected); err != nil {
				return env.failed(err)
			}
		}
		return Result{Status: StatusAlreadyDeployed, Address: expected}
	}
	if persisted {
		env.Logger.Warnf("persisted factory %s has no code, deploying a new one", expected.Hex())
	}

	tx, err := env.sender.send(ctx, nil, j.Bytecode, j.GasCeiling)
	if err != nil {
		return env.failed(err)
	}
	addr, err := confirmCreation(ctx, env, tx, hashing.CreateAddress(env.Wallet.Address, tx.Nonce()))
	if err != nil {
		return Result{Status: StatusFailed, Tx: tx.Hash(), Err: err}
	}
	if err := j.Factories.Put(env.key(), addr); err != nil {
		return Result{Status: StatusFailed, Address: addr, Tx: tx.Hash(), Err: err}
	}
	return Result{Status: StatusDeployed, Address: addr, Tx: tx.Hash()}
}

// Create2Job deploys CreationCode through the chain factory at the address
// derived from (factory, Salt, CreationCode)
type Create2Job struct {
	Salt         common.Hash
	CreationCode []byte
	Factories    *RecordStore[common.Address]
	Records      *RecordStore[Create2Record]
	GasCeiling   uint64
}

func (j *Create2Job) Name() string   { return cmn.CREATE2 }
func (j *Create2Job) ReadOnly() bool { return false }

func (j *Create2Job) Run(ctx context.Context, env *ChainEnv) Result {
	factory, persisted, err := resolveFactory(ctx, env, j.Factories)
	if err != nil {
		return env.failed(err)
	}
	if !persisted {
		env.Logger.Warnf("no persisted factory, assuming %s", factory.Hex())
	}
	expected := hashing.Create2AddressFromCode(factory, j.Salt, j.CreationCode)
	record := Create2Record{Factory: factory, Address: expected, Salt: j.Salt}

	deployed, err := hasCode(ctx, env.Client, expected)
	if err != nil {
		return env.failed(err)
	}
	if deployed {
		if _, ok, err := j.Records.Get(env.key()); err != nil {
			return env.failed(err)
		} else if !ok {
			if err := j.Records.Put(env.key(), record); err != nil {
				return env.failed(err)
			}
		}
		return Result{Status: StatusAlreadyDeployed, Address: expected}
	}
	factoryCode, err := hasCode(ctx, env.Client, factory)
	if err != nil {
		return env.failed(err)
	}
	if !factoryCode {
		return Result{Status: StatusFailed, Address: expected,
			Err: fmt.Errorf("%w: no code at %s", ErrFactoryMissing, factory.Hex())}
	}

	data, err := FactoryDeployCalldata(j.Salt, j.CreationCode)
	if err != nil {
		return env.failed(err)
	}
	tx, err := env.sender.send(ctx, &factory, data, j.GasCeiling)
	if err != nil {
		return Result{Status: StatusFailed, Address: expected, Err: err}
	}
	_, waitErr := env.sender.waitMined(ctx, tx.Hash())
	if waitErr != nil && !errors.Is(waitErr, ErrConfirmationTimeout) {
		return Result{Status: StatusFailed, Address: expected, Tx: tx.Hash(), Err: waitErr}
	}
	ok, err := hasCode(ctx, env.Client, expected)
	if err != nil {
		return Result{Status: StatusFailed, Address: expected, Tx: tx.Hash(), Err: err}
	}
	if !ok {
		if waitErr == nil {
			waitErr = fmt.Errorf("tx %s mined but no code at %s", tx.Hash().Hex(), expected.Hex())
		}
		return Result{Status: StatusFailed, Address: expected, Tx: tx.Hash(), Err: waitErr}
	}
	record.Tx = tx.Hash()
	if err := j.Records.Put(env.key(), record); err != nil {
		return Result{Status: StatusFailed, Address: expected, Tx: tx.Hash(), Err: err}
	}
	return Result{Status: StatusDeployed, Address: expected, Tx: tx.Hash()}
}

// RouterParams are the router construction parameters. Zero addresses default
// to the deployer account (DefaultTarget excluded)
type RouterParams struct {
	Admin         common.Address
	FeeRecipient  common.Address
	DefaultTarget common.Address
}

// DirectRouterJob deploys the router with a plain creation transaction and
// reads back its getters
type DirectRouterJob struct {
	Artifact   *Artifact
	Params     RouterParams
	Records    *RecordStore[RouterRecord]
	GasCeiling uint64
}

func (j *DirectRouterJob) Name() string   { return cmn.ROUTER }
func (j *DirectRouterJob) ReadOnly() bool { return false }

func (j *DirectRouterJob) Run(ctx context.Context, env *ChainEnv) Result {
	rec, ok, err := j.Records.Get(env.key())
	if err != nil {
		return env.failed(err)
	}
	if ok {
		deployed, err := hasCode(ctx, env.Client, rec.Address)
		if err != nil {
			return env.failed(err)
		}
		if deployed {
			return Result{Status: StatusAlreadyDeployed, Address: rec.Address, Tx: rec.Tx, Getters: rec.Getters}
		}
		env.Logger.Warnf("persisted router %s has no code, redeploying", rec.Address.Hex())
	}

	expect, err := j.constructorParams(env)
	if err != nil {
		return env.failed(err)
	}
	code, err := j.Artifact.CreationCodeWith(RouterConstructorArgs,
		expect.Admin, expect.FeeRecipient, expect.DefaultTarget, expect.SrcChainID)
	if err != nil {
		return env.failed(err)
	}
	tx, err := env.sender.send(ctx, nil, code, j.GasCeiling)
	if err != nil {
		return env.failed(err)
	}
	addr, err := confirmCreation(ctx, env, tx, hashing.CreateAddress(env.Wallet.Address, tx.Nonce()))
	if err != nil {
		return Result{Status: StatusFailed, Tx: tx.Hash(), Err: err}
	}

	res := Result{Status: StatusDeployed, Address: addr, Tx: tx.Hash()}
	getters, err := ReadGetters(ctx, env.Client, addr)
	if err != nil {
		env.Logger.Warnf("unable to read back getters of %s: %v", addr.Hex(), err)
		res.Message = "getters unavailable"
	} else {
		res.Getters = &getters
		if getters != expect {
			env.Logger.Warnf("getters of %s differ from constructor args: got %+v want %+v", addr.Hex(), getters, expect)
			res.Message = "getters mismatch"
		}
	}
	err = j.Records.Put(env.key(), RouterRecord{
		Name:    env.Chain.Name,
		RPC:     env.Chain.RPC,
		ChainID: env.ChainID,
		Address: addr,
		Tx:      tx.Hash(),
		Getters: res.Getters,
	})
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
	}
	return res
}

func (j *DirectRouterJob) constructorParams(env *ChainEnv) (Getters, error) {
	g := Getters{
		Admin:        j.Params.Admin,
		FeeRecipient: j.Params.FeeRecipient,
		SrcChainID:   cmn.SrcChainID(env.ChainID),
	}
	if g.Admin == (common.Address{}) {
		g.Admin = env.Wallet.Address
	}
	if g.FeeRecipient == (common.Address{}) {
		g.FeeRecipient = env.Wallet.Address
	}
	target, err := env.Chain.DefaultTargetOr(j.Params.DefaultTarget)
	if err != nil {
		return Getters{}, err
	}
	if target == (common.Address{}) {
		return Getters{}, errors.New("no default target configured")
	}
	g.DefaultTarget = target
	return g, nil
}

// VerifyJob reads the getters of the recorded router and checks them against
// the chain id and, when set, Expect
type VerifyJob struct {
	Records *RecordStore[RouterRecord]
	Expect  RouterParams
}

func (j *VerifyJob) Name() string   { return "verify" }
func (j *VerifyJob) ReadOnly() bool { return true }

func (j *VerifyJob) Run(ctx context.Context, env *ChainEnv) Result {
	if !env.ChainIDMatch {
		return env.failed(fmt.Errorf("%w: configured %d, rpc %d", ErrChainIDMismatch, env.Chain.ChainID, env.ChainID))
	}
	rec, ok, err := j.Records.Get(env.key())
	if err != nil {
		return env.failed(err)
	}
	if !ok {
		return Result{Status: StatusSkipped, Err: ErrNoRouterRecord}
	}
	deployed, err := hasCode(ctx, env.Client, rec.Address)
	if err != nil {
		return env.failed(err)
	}
	if !deployed {
		return Result{Status: StatusFailed, Address: rec.Address, Err: fmt.Errorf("no code at %s", rec.Address.Hex())}
	}
	getters, err := ReadGetters(ctx, env.Client, rec.Address)
	if err != nil {
		return Result{Status: StatusFailed, Address: rec.Address, Err: err}
	}
	res := Result{Status: StatusOK, Address: rec.Address, Getters: &getters}
	if err := j.check(env, getters); err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	rec.Getters = &getters
	if err := j.Records.Put(env.key(), rec); err != nil {
		res.Status = StatusFailed
		res.Err = err
	}
	return res
}

func (j *VerifyJob) check(env *ChainEnv, g Getters) error {
	if want := cmn.SrcChainID(env.ChainID); g.SrcChainID != want {
		return fmt.Errorf("srcChainId is %d, want %d", g.SrcChainID, want)
	}
	for _, c := range []struct {
		name      string
		got, want common.Address
	}{
		{"admin", g.Admin, j.Expect.Admin},
		{"feeRecipient", g.FeeRecipient, j.Expect.FeeRecipient},
		{"defaultTarget", g.DefaultTarget, j.Expect.DefaultTarget},
	} {
		if c.want != (common.Address{}) && c.got != c.want {
			return fmt.Errorf("%s is %s, want %s", c.name, c.got.Hex(), c.want.Hex())
		}
	}
	return nil
}
