package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"
	"github.com/zoopx/evm-thin-router/common"
	"github.com/zoopx/evm-thin-router/fees"
	"github.com/zoopx/evm-thin-router/hashing"
	"github.com/zoopx/evm-thin-router/log"
	"github.com/zoopx/evm-thin-router/routeindex"
	"github.com/zoopx/evm-thin-router/router"
)

const (
	flagProtocolFeeBps = "protocol-fee-bps"
	flagRelayerFeeBps  = "relayer-fee-bps"
	flagNoIndex        = "no-index"

	smokeIntentTTL = time.Hour
)

func smokeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{Name: flagChainID, Value: 11155111, Usage: "source chain id"},
		&cli.Uint64Flag{Name: flagDstChainID, Value: 84532, Usage: "destination chain id"},
		&cli.StringFlag{Name: flagAmount, Value: "100000000000000000000", Usage: "route amount in base units"},
		&cli.UintFlag{Name: flagProtocolFeeBps, Value: 10},
		&cli.UintFlag{Name: flagRelayerFeeBps, Value: 10},
		&cli.BoolFlag{Name: flagNoIndex, Usage: "do not write the routes to the route index"},
	}
}

type smokeParams struct {
	ChainID        uint64
	DstChainID     uint64
	Amount         *big.Int
	ProtocolFeeBps uint16
	RelayerFeeBps  uint16
}

type smokeResult struct {
	Identity      router.Identity
	Events        []router.BridgeInitiated
	TargetBalance *big.Int
	FeeBalance    *big.Int
	FeeDest       ethCommon.Address
}

func smokeCmd(cliCtx *cli.Context) error {
	c, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}
	amount, err := common.ParseBigInt(cliCtx.String(flagAmount))
	if err != nil {
		return fmt.Errorf("--%s: %w", flagAmount, err)
	}
	protocolFeeBps, err := bpsFlag(cliCtx, flagProtocolFeeBps)
	if err != nil {
		return err
	}
	relayerFeeBps, err := bpsFlag(cliCtx, flagRelayerFeeBps)
	if err != nil {
		return err
	}
	params := smokeParams{
		ChainID:        cliCtx.Uint64(flagChainID),
		DstChainID:     cliCtx.Uint64(flagDstChainID),
		Amount:         amount,
		ProtocolFeeBps: protocolFeeBps,
		RelayerFeeBps:  relayerFeeBps,
	}
	var sink router.EventSink
	if !cliCtx.Bool(flagNoIndex) {
		store, err := routeindex.New(log.WithFields("module", "routeindex"), c.RouteIndex)
		if err != nil {
			return err
		}
		defer store.Close()
		sink = store
	}
	res, err := runSmoke(cliCtx.Context, log.WithFields("module", "router"), c.Router, params, sink)
	if err != nil {
		return err
	}
	return printSmoke(os.Stdout, res)
}

// bpsFlag reads a rate flag, rejecting values above fees.MaxBps before narrowing
func bpsFlag(cliCtx *cli.Context, name string) (uint16, error) {
	return parseBps(name, cliCtx.Uint(name))
}

func parseBps(name string, v uint) (uint16, error) {
	if v > fees.MaxBps {
		return 0, fmt.Errorf("--%s: %w: %d > %d", name, fees.ErrBpsOutOfRange, v, fees.MaxBps)
	}
	return uint16(v), nil
}

func labelAddress(label string) ethCommon.Address {
	return ethCommon.BytesToAddress(crypto.Keccak256([]byte("zoopx-smoke:" + label)))
}

func orLabel(a ethCommon.Address, label string) ethCommon.Address {
	if a == (ethCommon.Address{}) {
		return labelAddress(label)
	}
	return a
}

// runSmoke applies settings to a fresh router, commits a direct route, checks
// that replaying it is rejected, then commits a signed route relayed on behalf
// of the same initiator. With adapters configured the first one sends the
// direct route
func runSmoke(ctx context.Context, logger *log.Logger, settings router.Settings,
	p smokeParams, sink router.EventSink) (*smokeResult, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	initiator := crypto.PubkeyToAddress(key.PublicKey)
	id := router.Identity{
		Address:       labelAddress("router"),
		ChainID:       p.ChainID,
		Admin:         orLabel(settings.Admin, "admin"),
		FeeRecipient:  orLabel(settings.FeeRecipient, "fee-recipient"),
		DefaultTarget: orLabel(settings.DefaultTarget, "default-target"),
	}
	ledger := router.NewMemoryLedger()
	var opts []router.Option
	if sink != nil {
		opts = append(opts, router.WithEventSink(sink))
	}
	r, err := router.New(logger, id, ledger, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.ApplySettings(id.Admin, settings); err != nil {
		return nil, fmt.Errorf("router settings: %w", err)
	}
	directCaller := initiator
	if legacy := r.Config().LegacyAdapter; legacy != (ethCommon.Address{}) {
		directCaller = legacy
	}

	protocolFee, relayerFee, err := fees.Quote(p.Amount, p.ProtocolFeeBps, p.RelayerFeeBps)
	if err != nil {
		return nil, err
	}
	asset := labelAddress("asset")
	funds := new(big.Int).Lsh(p.Amount, 1)
	for _, owner := range []ethCommon.Address{initiator, directCaller} {
		ledger.Mint(asset, owner, funds)
		ledger.Approve(asset, owner, id.Address, funds)
	}

	args := router.RouteArgs{
		Asset:       asset,
		Amount:      p.Amount,
		ProtocolFee: protocolFee,
		RelayerFee:  relayerFee,
		Payload:     []byte("smoke"),
		DstChainID:  p.DstChainID,
		Nonce:       1,
	}
	direct, err := r.Bridge(ctx, directCaller, args)
	if err != nil {
		return nil, fmt.Errorf("direct route: %w", err)
	}
	if _, err := r.Bridge(ctx, directCaller, args); !errors.Is(err, router.ErrReplay) {
		return nil, fmt.Errorf("replayed route not rejected: %v", err)
	}

	args.Nonce = 2
	intent := hashing.RouteIntent{
		RouteID:     direct.GlobalRouteID,
		Token:       args.Asset,
		Amount:      args.Amount,
		ProtocolFee: args.ProtocolFee,
		RelayerFee:  args.RelayerFee,
		Target:      args.Target,
		DstChainID:  args.DstChainID,
		Nonce:       args.Nonce,
		Expiry:      uint64(time.Now().Add(smokeIntentTTL).Unix()), //nolint:gosec
		PayloadHash: hashing.PayloadHash(args.Payload),
		Recipient:   initiator,
	}
	sig, err := hashing.SignIntent(key, r.Domain(), intent)
	if err != nil {
		return nil, err
	}
	relayer := labelAddress("relayer")
	signed, err := r.BridgeWithSignature(ctx, relayer, args, intent, sig, initiator)
	if err != nil {
		return nil, fmt.Errorf("signed route: %w", err)
	}
	if _, err := r.BridgeWithSignature(ctx, relayer, args, intent, sig, initiator); !errors.Is(err, router.ErrReplay) {
		return nil, fmt.Errorf("replayed intent not rejected: %v", err)
	}

	feeDest := r.Config().FeeCollector
	if feeDest == (ethCommon.Address{}) {
		feeDest = r.FeeRecipient()
	}
	return &smokeResult{
		Identity:      id,
		Events:        []router.BridgeInitiated{direct, signed},
		TargetBalance: ledger.BalanceOf(asset, id.DefaultTarget),
		FeeBalance:    ledger.BalanceOf(asset, feeDest),
		FeeDest:       feeDest,
	}, nil
}

func printSmoke(w io.Writer, res *smokeResult) error {
	if _, err := fmt.Fprintf(w, "router %s on chain %d (src id %d)\n",
		res.Identity.Address.Hex(), res.Identity.ChainID, common.SrcChainID(res.Identity.ChainID)); err != nil {
		return err
	}
	for _, ev := range res.Events {
		kind := "direct"
		if ev.Signed() {
			kind = "signed"
		}
		if _, err := fmt.Fprintf(w, "%s route %s: amount %s, fees %s + %s, net %s to %s, global id %s\n",
			kind, ev.MessageHash.Hex(), ev.Amount, ev.ProtocolFee, ev.RelayerFee, ev.Net,
			ev.Target.Hex(), ev.GlobalRouteID.Hex()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "target balance %s, fee balance %s\n", res.TargetBalance, res.FeeBalance)
	return err
}
