package deployer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/zoopx/evm-thin-router/log"
	"golang.org/x/sync/errgroup"
)

const (
	defaultReceiptTimeout = 2 * time.Minute
	defaultPollInterval   = 3 * time.Second
)

// Orchestrator runs a Job on every selected chain, each chain independently
type Orchestrator struct {
	logger     *log.Logger
	cfg        Config
	dial       Dialer
	wallet     *Wallet
	minBalance *big.Int
}

// NewOrchestrator validates the global settings. wallet may be nil for read only runs
func NewOrchestrator(logger *log.Logger, cfg Config, dial Dialer, wallet *Wallet) (*Orchestrator, error) {
	minBalance, err := cfg.MinBalanceWei()
	if err != nil {
		return nil, err
	}
	if dial == nil {
		dial = NewRPCDialer(cfg.RequestsPerSecond, cfg.RequestsBurst)
	}
	return &Orchestrator{
		logger:     logger,
		cfg:        cfg,
		dial:       dial,
		wallet:     wallet,
		minBalance: minBalance,
	}, nil
}

// Report collects the per chain results of a run, in catalogue order
type Report struct {
	Job     string
	Results []Result
}

// Err aggregates the chain failures. Skips and already deployed chains are not errors
func (r *Report) Err() error {
	var merr *multierror.Error
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			err := res.Err
			if err == nil {
				err = errors.New("failed")
			}
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", res.Chain, err))
		}
	}
	return merr.ErrorOrNil()
}

// Count returns the number of chains that ended with status
func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// WriteTo prints one status line per chain followed by a summary
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	for _, res := range r.Results {
		sb.WriteString(res.String())
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%s: %d deployed, %d already deployed, %d ok, %d skipped, %d failed\n", r.Job,
		r.Count(StatusDeployed), r.Count(StatusAlreadyDeployed), r.Count(StatusOK),
		r.Count(StatusSkipped), r.Count(StatusFailed))
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// Run executes job on the selected chains with at most MaxConcurrency chains in flight
func (o *Orchestrator) Run(ctx context.Context, job Job) *Report {
	chains := o.cfg.SelectedChains()
	report := &Report{Job: job.Name(), Results: make([]Result, len(chains))}

	var g errgroup.Group
	if o.cfg.MaxConcurrency > 0 {
		g.SetLimit(o.cfg.MaxConcurrency)
	}
	for i, chain := range chains {
		i, chain := i, chain
		g.Go(func() error {
			report.Results[i] = o.runChain(ctx, job, chain)
			return nil
		})
	}
	_ = g.Wait()
	return report
}

func (o *Orchestrator) runChain(ctx context.Context, job Job, chain ChainConfig) Result {
	logger := o.logger.WithFields("chain", chain.Name)
	res := o.prepareAndRun(ctx, logger, job, chain)
	if res.Chain == "" {
		res.Chain = chain.Name
	}
	if res.ChainID == 0 {
		res.ChainID = chain.ChainID
	}
	switch res.Status {
	case StatusFailed:
		logger.Errorf("%s failed: %v", job.Name(), res.Err)
	case StatusSkipped:
		logger.Warnf("%s skipped: %v %s", job.Name(), res.Err, res.Message)
	case StatusAlreadyDeployed:
		logger.Infof("already deployed at %s", res.Address.Hex())
	default:
		logger.Infof("%s %s %s", job.Name(), res.Status, res.Message)
	}
	return res
}

func (o *Orchestrator) prepareAndRun(ctx context.Context, logger *log.Logger, job Job, chain ChainConfig) Result {
	if strings.TrimSpace(chain.RPC) == "" {
		return Result{Status: StatusSkipped, Message: "RPC not set"}
	}
	client, err := o.dial(ctx, chain.RPC)
	if err != nil {
		return Result{Status: StatusFailed, Err: err}
	}
	if c, ok := client.(interface{ Close() }); ok {
		defer c.Close()
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("%w: reading chain id: %w", ErrRPCUnavailable, err)}
	}
	env := &ChainEnv{
		Chain:        chain,
		ChainID:      id.Uint64(),
		ChainIDMatch: chain.ChainID == 0 || chain.ChainID == id.Uint64(),
		Client:       client,
		Wallet:       o.wallet,
		Balance:      new(big.Int),
		Logger:       logger.WithFields("chainId", id.Uint64()),
	}
	res := Result{ChainID: env.ChainID}
	if !env.ChainIDMatch && !job.ReadOnly() {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%w: configured %d, rpc %d", ErrChainIDMismatch, chain.ChainID, env.ChainID)
		return res
	}

	if o.wallet != nil {
		if env.Balance, err = client.BalanceAt(ctx, o.wallet.Address, nil); err != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("%w: reading balance: %w", ErrRPCUnavailable, err)
			return res
		}
	}
	if !job.ReadOnly() {
		if o.wallet == nil {
			res.Status = StatusFailed
			res.Err = ErrMissingKey
			return res
		}
		if env.Balance.Sign() == 0 || env.Balance.Cmp(o.minBalance) < 0 {
			res.Status = StatusSkipped
			res.Err = ErrInsufficientBalance
			res.Message = fmt.Sprintf("balance %s ETH, minimum %s ETH", WeiToEth(env.Balance), WeiToEth(o.minBalance))
			return res
		}
		env.sender = &txSender{
			logger:  env.Logger,
			client:  client,
			wallet:  o.wallet,
			chain:   chain,
			chainID: id,
			timeout: durationOr(o.cfg.ReceiptTimeout.Duration, defaultReceiptTimeout),
			poll:    durationOr(o.cfg.ReceiptPollInterval.Duration, defaultPollInterval),
		}
	}

	out := job.Run(ctx, env)
	out.ChainID = env.ChainID
	return out
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
