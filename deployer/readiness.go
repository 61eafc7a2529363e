package deployer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zoopx/evm-thin-router/hashing"
)

// Readiness is the pre-flight view of one chain
type Readiness struct {
	ChainIDMatch     bool
	Balance          string
	Nonce            uint64
	ExpectedFactory  common.Address
	FactoryPersisted bool
	FactoryCode      bool
	ExpectedRouter   *common.Address
	RouterCode       bool
}

func (r Readiness) String() string {
	parts := []string{
		fmt.Sprintf("chainId ok=%t", r.ChainIDMatch),
		"balance=" + r.Balance + " ETH",
		fmt.Sprintf("nonce=%d", r.Nonce),
		fmt.Sprintf("factory=%s persisted=%t code=%t", r.ExpectedFactory.Hex(), r.FactoryPersisted, r.FactoryCode),
	}
	if r.ExpectedRouter != nil {
		parts = append(parts, fmt.Sprintf("router=%s code=%t", r.ExpectedRouter.Hex(), r.RouterCode))
	}
	return strings.Join(parts, " ")
}

// ReadinessJob reports what a deployment would do on each chain without sending anything
type ReadinessJob struct {
	Factories *RecordStore[common.Address]
	// Salt and CreationCode are optional; when both are set the expected router is reported
	Salt         *common.Hash
	CreationCode []byte
}

func (j *ReadinessJob) Name() string   { return "readiness" }
func (j *ReadinessJob) ReadOnly() bool { return true }

func (j *ReadinessJob) Run(ctx context.Context, env *ChainEnv) Result {
	r := &Readiness{ChainIDMatch: env.ChainIDMatch, Balance: WeiToEth(env.Balance)}
	if env.Wallet != nil {
		nonce, err := env.Client.NonceAt(ctx, env.Wallet.Address, nil)
		if err != nil {
			return env.failed(fmt.Errorf("%w: reading nonce: %w", ErrRPCUnavailable, err))
		}
		r.Nonce = nonce
	}
	factory, persisted, err := resolveFactory(ctx, env, j.Factories)
	if err != nil {
		return env.failed(err)
	}
	r.ExpectedFactory, r.FactoryPersisted = factory, persisted
	if r.FactoryCode, err = hasCode(ctx, env.Client, factory); err != nil {
		return env.failed(err)
	}
	if j.Salt != nil && len(j.CreationCode) > 0 {
		router := hashing.Create2AddressFromCode(factory, *j.Salt, j.CreationCode)
		r.ExpectedRouter = &router
		if r.RouterCode, err = hasCode(ctx, env.Client, router); err != nil {
			return env.failed(err)
		}
	}
	return Result{Status: StatusOK, Readiness: r, Message: r.String()}
}
