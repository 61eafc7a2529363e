package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"github.com/zoopx/evm-thin-router/common"
	"github.com/zoopx/evm-thin-router/config"
	"github.com/zoopx/evm-thin-router/deployer"
	"github.com/zoopx/evm-thin-router/hashing"
	"github.com/zoopx/evm-thin-router/log"
)

func deployCmd(component string) cli.ActionFunc {
	return func(cliCtx *cli.Context) error {
		c, err := loadConfig(cliCtx)
		if err != nil {
			return err
		}
		wallet, err := deployer.NewWallet(c.Deployer)
		if err != nil {
			return err
		}
		job, err := newDeployJob(component, c)
		if err != nil {
			return err
		}
		log.Infof("deploying %s from %s", component, wallet.Address.Hex())
		return runJob(cliCtx, c, wallet, job)
	}
}

func newDeployJob(component string, c *config.Config) (deployer.Job, error) {
	d := c.Deployer
	factories := deployer.NewRecordStore[ethCommon.Address](d.FactoryRecordsPath)
	switch component {
	case common.FACTORY:
		artifact, err := deployer.LoadArtifact(d.FactoryArtifactPath)
		if err != nil {
			return nil, err
		}
		return &deployer.FactoryJob{
			Bytecode:   artifact.Bytecode,
			Factories:  factories,
			GasCeiling: d.FactoryGasCeiling,
		}, nil
	case common.CREATE2:
		salt, err := parseSalt(d.Salt)
		if err != nil {
			return nil, err
		}
		code, err := routerCreationCode(d)
		if err != nil {
			return nil, err
		}
		return &deployer.Create2Job{
			Salt:         salt,
			CreationCode: code,
			Factories:    factories,
			Records:      deployer.NewRecordStore[deployer.Create2Record](d.Create2RecordsPath),
			GasCeiling:   d.Create2GasCeiling,
		}, nil
	case common.ROUTER:
		artifact, err := deployer.LoadArtifact(d.ArtifactPath)
		if err != nil {
			return nil, err
		}
		return &deployer.DirectRouterJob{
			Artifact: artifact,
			Params: deployer.RouterParams{
				Admin:         c.Router.Admin,
				FeeRecipient:  c.Router.FeeRecipient,
				DefaultTarget: c.Router.DefaultTarget,
			},
			Records:    deployer.NewRecordStore[deployer.RouterRecord](d.RouterRecordsPath),
			GasCeiling: d.DirectGasCeiling,
		}, nil
	default:
		return nil, fmt.Errorf("unknown deployment %q", component)
	}
}

func parseSalt(s string) (ethCommon.Hash, error) {
	if strings.TrimSpace(s) == "" {
		return ethCommon.Hash{}, deployer.ErrMissingSalt
	}
	return hashing.ParseSalt(s)
}

func routerCreationCode(d deployer.Config) ([]byte, error) {
	artifact, err := deployer.LoadArtifact(d.ArtifactPath)
	if err != nil {
		return nil, err
	}
	return artifact.CreationCode(d.ConstructorArgsJSON)
}

func runJob(cliCtx *cli.Context, c *config.Config, wallet *deployer.Wallet, job deployer.Job) error {
	o, err := deployer.NewOrchestrator(log.WithFields("module", "deployer"), c.Deployer, nil, wallet)
	if err != nil {
		return err
	}
	report := o.Run(cliCtx.Context, job)
	if _, err := report.WriteTo(os.Stdout); err != nil {
		return err
	}
	return report.Err()
}

func readinessCmd(cliCtx *cli.Context) error {
	c, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}
	wallet, err := deployer.NewWallet(c.Deployer)
	if errors.Is(err, deployer.ErrMissingKey) {
		log.Warn("no deployer key configured, balance and nonce are not reported")
		wallet = nil
	} else if err != nil {
		return err
	}
	job := &deployer.ReadinessJob{
		Factories: deployer.NewRecordStore[ethCommon.Address](c.Deployer.FactoryRecordsPath),
	}
	if salt, err := parseSalt(c.Deployer.Salt); err == nil {
		if code, err := routerCreationCode(c.Deployer); err == nil {
			job.Salt, job.CreationCode = &salt, code
		} else {
			log.Warnf("expected router not reported: %v", err)
		}
	}
	return runJob(cliCtx, c, wallet, job)
}

func verifyCmd(cliCtx *cli.Context) error {
	c, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}
	job := &deployer.VerifyJob{
		Records: deployer.NewRecordStore[deployer.RouterRecord](c.Deployer.RouterRecordsPath),
		Expect: deployer.RouterParams{
			Admin:         c.Router.Admin,
			FeeRecipient:  c.Router.FeeRecipient,
			DefaultTarget: c.Router.DefaultTarget,
		},
	}
	return runJob(cliCtx, c, nil, job)
}
