package deployer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// EthClienter is the subset of the JSON-RPC API the deployer needs
type EthClienter interface {
	ethereum.ChainStateReader
	ethereum.ContractCaller
	ethereum.GasEstimator
	ethereum.GasPricer
	ethereum.TransactionReader
	ethereum.TransactionSender
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// Dialer opens a client for one chain endpoint
type Dialer func(ctx context.Context, rpcURL string) (EthClienter, error)

// NewRPCDialer dials with ethclient and applies the per chain rate limit
func NewRPCDialer(requestsPerSecond float64, burst int) Dialer {
	return func(ctx context.Context, rpcURL string) (EthClienter, error) {
		client, err := ethclient.DialContext(ctx, rpcURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRPCUnavailable, err)
		}
		return NewRateLimitedClient(client, requestsPerSecond, burst), nil
	}
}

// RateLimitedClient throttles every call made through it. Each chain gets its
// own instance, so a slow endpoint only delays its own chain
type RateLimitedClient struct {
	next    EthClienter
	limiter *rate.Limiter
}

var _ EthClienter = (*RateLimitedClient)(nil)

// NewRateLimitedClient wraps next. A non positive rate disables the limit
func NewRateLimitedClient(next EthClienter, requestsPerSecond float64, burst int) *RateLimitedClient {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{next: next, limiter: rate.NewLimiter(limit, burst)}
}

// Close closes the wrapped client when it supports it
func (c *RateLimitedClient) Close() {
	if closer, ok := c.next.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (c *RateLimitedClient) ChainID(ctx context.Context) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.ChainID(ctx)
}

func (c *RateLimitedClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.BalanceAt(ctx, account, blockNumber)
}

func (c *RateLimitedClient) StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.StorageAt(ctx, account, key, blockNumber)
}

func (c *RateLimitedClient) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.CodeAt(ctx, account, blockNumber)
}

func (c *RateLimitedClient) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return c.next.NonceAt(ctx, account, blockNumber)
}

func (c *RateLimitedClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return c.next.PendingNonceAt(ctx, account)
}

func (c *RateLimitedClient) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.CallContract(ctx, call, blockNumber)
}

func (c *RateLimitedClient) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return c.next.EstimateGas(ctx, call)
}

func (c *RateLimitedClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.SuggestGasPrice(ctx)
}

func (c *RateLimitedClient) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}
	return c.next.TransactionByHash(ctx, txHash)
}

func (c *RateLimitedClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.TransactionReceipt(ctx, txHash)
}

func (c *RateLimitedClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.next.SendTransaction(ctx, tx)
}
