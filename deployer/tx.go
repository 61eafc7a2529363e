package deployer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sethvargo/go-retry"
	"github.com/zoopx/evm-thin-router/log"
)

// txSender builds, signs and submits the deployer transactions of one chain
type txSender struct {
	logger  *log.Logger
	client  EthClienter
	wallet  *Wallet
	chain   ChainConfig
	chainID *big.Int
	timeout time.Duration
	poll    time.Duration
}

// send submits a zero value transaction. The first attempt uses the chain gas
// limit override or the node estimate; if estimation or submission fails the
// only retry uses ceiling as explicit gas
func (s *txSender) send(ctx context.Context, to *common.Address, data []byte, ceiling uint64) (*types.Transaction, error) {
	gasPrice, err := s.gasPrice(ctx)
	if err != nil {
		return nil, err
	}
	attempt := 0
	var sent *types.Transaction
	err = retry.Do(ctx, retry.WithMaxRetries(1, retry.NewConstant(s.poll)), func(ctx context.Context) error {
		attempt++
		gas := ceiling
		if attempt == 1 {
			estimated, err := s.firstAttemptGas(ctx, to, data)
			if err != nil {
				s.logger.Warnf("gas estimation failed, retrying with explicit gas %d: %v", ceiling, err)
				return retry.RetryableError(err)
			}
			gas = estimated
		}
		if gas == 0 {
			return errors.New("no gas limit available")
		}
		tx, err := s.signAndSend(ctx, to, data, gas, gasPrice)
		if err != nil {
			if attempt == 1 {
				s.logger.Warnf("sending with gas %d failed, retrying with explicit gas %d: %v", gas, ceiling, err)
				return retry.RetryableError(err)
			}
			return err
		}
		sent = tx
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGasEstimation, err)
	}
	s.logger.Infof("sent tx %s (nonce %d, gas %d)", sent.Hash().Hex(), sent.Nonce(), sent.Gas())
	return sent, nil
}

func (s *txSender) firstAttemptGas(ctx context.Context, to *common.Address, data []byte) (uint64, error) {
	if s.chain.GasLimit > 0 {
		return s.chain.GasLimit, nil
	}
	return s.client.EstimateGas(ctx, ethereum.CallMsg{From: s.wallet.Address, To: to, Data: data})
}

func (s *txSender) gasPrice(ctx context.Context) (*big.Int, error) {
	override, err := s.chain.GasPriceWei()
	if err != nil {
		return nil, err
	}
	if override != nil {
		return override, nil
	}
	price, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: suggesting gas price: %w", ErrRPCUnavailable, err)
	}
	return price, nil
}

func (s *txSender) signAndSend(ctx context.Context, to *common.Address, data []byte,
	gas uint64, gasPrice *big.Int) (*types.Transaction, error) {
	nonce, err := s.client.PendingNonceAt(ctx, s.wallet.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: reading nonce: %w", ErrRPCUnavailable, err)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       to,
		Value:    new(big.Int),
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.wallet.Key)
	if err != nil {
		return nil, err
	}
	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return nil, err
	}
	return signed, nil
}

// waitMined polls for the receipt until the receipt timeout
func (s *txSender) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	backoff := retry.WithMaxDuration(s.timeout, retry.NewConstant(s.poll))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := s.client.TransactionReceipt(ctx, hash)
		if err != nil {
			return retry.RetryableError(err)
		}
		if r == nil {
			return retry.RetryableError(ethereum.NotFound)
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: tx %s: %w", ErrConfirmationTimeout, hash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: tx %s", ErrDeploymentReverted, hash.Hex())
	}
	return receipt, nil
}

func hasCode(ctx context.Context, client EthClienter, addr common.Address) (bool, error) {
	code, err := client.CodeAt(ctx, addr, nil)
	if err != nil {
		return false, fmt.Errorf("%w: reading code at %s: %w", ErrRPCUnavailable, addr.Hex(), err)
	}
	return len(code) > 0, nil
}
