package main

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"
	thinrouter "github.com/zoopx/evm-thin-router"
	"github.com/zoopx/evm-thin-router/config"
	"github.com/zoopx/evm-thin-router/log"
)

// loadConfig renders the configuration, initialises the logger and applies the
// command line overrides
func loadConfig(cliCtx *cli.Context) (*config.Config, error) {
	c, err := config.Load(cliCtx)
	if err != nil {
		return nil, err
	}
	log.Init(c.Log)
	if c.Log.Environment == log.EnvironmentProduction {
		logVersion()
	}

	if chains := cliCtx.StringSlice(config.FlagChains); len(chains) > 0 {
		c.Deployer.AllowList = chains
	}
	if pk := cliCtx.String(config.FlagPrivateKey); pk != "" {
		c.Deployer.PrivateKey = pk
	}
	if ks := cliCtx.String(config.FlagKeyStorePath); ks != "" {
		c.Deployer.Keystore.Path = ks
		c.Deployer.Keystore.Password = cliCtx.String(config.FlagPassword)
	}
	return c, nil
}

func logVersion() {
	log.Infow("Starting application",
		"version", thinrouter.Version,
		"gitRevision", thinrouter.GitRev,
		"gitBranch", thinrouter.GitBranch,
		"goVersion", runtime.Version(),
		"built", thinrouter.BuildDate,
		"os/arch", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	)
}
