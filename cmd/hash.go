package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"github.com/zoopx/evm-thin-router/common"
	"github.com/zoopx/evm-thin-router/deployer"
	"github.com/zoopx/evm-thin-router/hashing"
)

const (
	flagSrcChainID  = "src-chain-id"
	flagDstChainID  = "dst-chain-id"
	flagChainID     = "chain-id"
	flagSrcAdapter  = "src-adapter"
	flagRecipient   = "recipient"
	flagAsset       = "asset"
	flagAmount      = "amount"
	flagPayload     = "payload"
	flagNonce       = "nonce"
	flagInitiator   = "initiator"
	flagMessageHash = "message-hash"
	flagSender      = "sender"
	flagFactory     = "factory"
	flagSalt        = "salt"
	flagInitCode    = "init-code"
	flagArtifact    = "artifact"
	flagIntent      = "intent"
	flagRouter      = "router"
)

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:  "hash",
		Usage: "Compute route hashes and deployment addresses offline",
		Subcommands: []*cli.Command{
			{
				Name:  "message",
				Usage: "Message hash of a route",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: flagSrcChainID, Usage: "source chain id (chainId & 0xffff on chain)", Required: true},
					&cli.StringFlag{Name: flagSrcAdapter, Usage: "source adapter address"},
					&cli.StringFlag{Name: flagRecipient, Usage: "recipient address", Required: true},
					&cli.StringFlag{Name: flagAsset, Usage: "asset address", Required: true},
					&cli.StringFlag{Name: flagAmount, Usage: "amount in base units, decimal or 0x hex", Required: true},
					&cli.StringFlag{Name: flagPayload, Usage: "0x hex payload"},
					&cli.Uint64Flag{Name: flagNonce},
					&cli.Uint64Flag{Name: flagDstChainID, Required: true},
				},
				Action: hashMessageCmd,
			},
			{
				Name:  "route-id",
				Usage: "Global route id",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: flagSrcChainID, Required: true},
					&cli.Uint64Flag{Name: flagDstChainID, Required: true},
					&cli.StringFlag{Name: flagInitiator, Required: true},
					&cli.StringFlag{Name: flagMessageHash, Required: true},
					&cli.Uint64Flag{Name: flagNonce},
				},
				Action: hashRouteIDCmd,
			},
			{
				Name:  "create",
				Usage: "Address of a contract created by sender at nonce",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagSender, Required: true},
					&cli.Uint64Flag{Name: flagNonce},
				},
				Action: hashCreateCmd,
			},
			{
				Name:  "create2",
				Usage: "CREATE2 address of init code deployed by factory with salt",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: flagFactory, Required: true},
					&cli.StringFlag{Name: flagSalt, Usage: "bytes32 hex salt, or any label hashed with keccak", Required: true},
					&cli.StringFlag{Name: flagInitCode, Usage: "0x hex creation code"},
					&cli.StringFlag{Name: flagArtifact, Usage: "artifact to take the bytecode from when no init code is given"},
				},
				Action: hashCreate2Cmd,
			},
			{
				Name:   "intent",
				Usage:  "EIP-712 digest of a route intent",
				Flags:  intentFlags(),
				Action: hashIntentCmd,
			},
		},
	}
}

func intentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagIntent, Usage: "JSON file with the route intent", Required: true},
		&cli.Uint64Flag{Name: flagChainID, Usage: "full chain id of the domain", Required: true},
		&cli.StringFlag{Name: flagRouter, Usage: "router address, the verifying contract", Required: true},
	}
}

func addressFlag(cliCtx *cli.Context, name string) (ethCommon.Address, error) {
	s := cliCtx.String(name)
	if s == "" {
		return ethCommon.Address{}, nil
	}
	if !ethCommon.IsHexAddress(s) {
		return ethCommon.Address{}, fmt.Errorf("--%s: invalid address %q", name, s)
	}
	return ethCommon.HexToAddress(s), nil
}

func bytesFlag(cliCtx *cli.Context, name string) ([]byte, error) {
	s := cliCtx.String(name)
	if s == "" {
		return nil, nil
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return b, nil
}

func hashMessageCmd(cliCtx *cli.Context) error {
	fields := hashing.MessageFields{
		SrcChainID: cliCtx.Uint64(flagSrcChainID),
		Nonce:      cliCtx.Uint64(flagNonce),
		DstChainID: cliCtx.Uint64(flagDstChainID),
	}
	var err error
	if fields.SrcAdapter, err = addressFlag(cliCtx, flagSrcAdapter); err != nil {
		return err
	}
	if fields.Recipient, err = addressFlag(cliCtx, flagRecipient); err != nil {
		return err
	}
	if fields.Asset, err = addressFlag(cliCtx, flagAsset); err != nil {
		return err
	}
	if fields.Amount, err = common.ParseBigInt(cliCtx.String(flagAmount)); err != nil {
		return fmt.Errorf("--%s: %w", flagAmount, err)
	}
	payload, err := bytesFlag(cliCtx, flagPayload)
	if err != nil {
		return err
	}
	fields.PayloadHash = hashing.PayloadHash(payload)
	fmt.Println(hashing.MessageHash(fields).Hex())
	return nil
}

func hashRouteIDCmd(cliCtx *cli.Context) error {
	initiator, err := addressFlag(cliCtx, flagInitiator)
	if err != nil {
		return err
	}
	msg, err := hexutil.Decode(cliCtx.String(flagMessageHash))
	if err != nil || len(msg) != ethCommon.HashLength {
		return fmt.Errorf("--%s: expected 32 bytes hex", flagMessageHash)
	}
	id := hashing.GlobalRouteID(cliCtx.Uint64(flagSrcChainID), cliCtx.Uint64(flagDstChainID),
		initiator, ethCommon.BytesToHash(msg), cliCtx.Uint64(flagNonce))
	fmt.Println(id.Hex())
	return nil
}

func hashCreateCmd(cliCtx *cli.Context) error {
	sender, err := addressFlag(cliCtx, flagSender)
	if err != nil {
		return err
	}
	fmt.Println(hashing.CreateAddress(sender, cliCtx.Uint64(flagNonce)).Hex())
	return nil
}

func hashCreate2Cmd(cliCtx *cli.Context) error {
	factory, err := addressFlag(cliCtx, flagFactory)
	if err != nil {
		return err
	}
	salt, err := hashing.ParseSalt(cliCtx.String(flagSalt))
	if err != nil {
		salt = hashing.SaltFromLabel(cliCtx.String(flagSalt))
	}
	code, err := bytesFlag(cliCtx, flagInitCode)
	if err != nil {
		return err
	}
	if len(code) == 0 {
		path := cliCtx.String(flagArtifact)
		if path == "" {
			return fmt.Errorf("either --%s or --%s is required", flagInitCode, flagArtifact)
		}
		artifact, err := deployer.LoadArtifact(path)
		if err != nil {
			return err
		}
		code = artifact.Bytecode
	}
	fmt.Println(hashing.Create2AddressFromCode(factory, salt, code).Hex())
	return nil
}

func readIntent(cliCtx *cli.Context) (hashing.Domain, hashing.RouteIntent, error) {
	var intent hashing.RouteIntent
	data, err := os.ReadFile(filepath.Clean(cliCtx.String(flagIntent)))
	if err != nil {
		return hashing.Domain{}, intent, err
	}
	if err := json.Unmarshal(data, &intent); err != nil {
		return hashing.Domain{}, intent, fmt.Errorf("invalid intent: %w", err)
	}
	routerAddr, err := addressFlag(cliCtx, flagRouter)
	if err != nil {
		return hashing.Domain{}, intent, err
	}
	return hashing.NewDomain(cliCtx.Uint64(flagChainID), routerAddr), intent, nil
}

func hashIntentCmd(cliCtx *cli.Context) error {
	domain, intent, err := readIntent(cliCtx)
	if err != nil {
		return err
	}
	fmt.Printf("domainSeparator: %s\nstructHash:      %s\ndigest:          %s\n",
		domain.Separator().Hex(), intent.StructHash().Hex(), hashing.TypedDataHash(domain, intent).Hex())
	return nil
}

func signIntentCmd(cliCtx *cli.Context) error {
	domain, intent, err := readIntent(cliCtx)
	if err != nil {
		return err
	}
	c, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}
	wallet, err := deployer.NewWallet(c.Deployer)
	if err != nil {
		return err
	}
	if intent.Recipient != wallet.Address {
		return fmt.Errorf("intent recipient %s is not the signer %s", intent.Recipient.Hex(), wallet.Address.Hex())
	}
	sig, err := hashing.SignIntent(wallet.Key, domain, intent)
	if err != nil {
		return err
	}
	fmt.Printf("signer:    %s\ndigest:    %s\nsignature: %s\n",
		wallet.Address.Hex(), hashing.TypedDataHash(domain, intent).Hex(), hexutil.Encode(sig))
	return nil
}
