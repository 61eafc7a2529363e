package main

import (
	"os"

	"github.com/urfave/cli/v2"
	thinrouter "github.com/zoopx/evm-thin-router"
	"github.com/zoopx/evm-thin-router/common"
	"github.com/zoopx/evm-thin-router/config"
	"github.com/zoopx/evm-thin-router/log"
)

const appName = "zoopx-router"

var (
	configFileFlag = cli.StringSliceFlag{
		Name:    config.FlagCfg,
		Aliases: []string{"c"},
		Usage:   "Configuration file(s), merged over the default configuration",
	}
	saveConfigFlag = cli.StringFlag{
		Name:     config.FlagSaveConfigPath,
		Aliases:  []string{"s"},
		Usage:    "Save final configuration into to the indicated path (name: router_config.toml)",
		Required: false,
	}
	disableDefaultConfigVars = cli.BoolFlag{
		Name:     config.FlagDisableDefaultConfigVars,
		Aliases:  []string{"d"},
		Usage:    "Disable default configuration variables, all of them must be defined on config files",
		Required: false,
	}
	chainsFlag = cli.StringSliceFlag{
		Name:  config.FlagChains,
		Usage: "Restrict the run to these chain names or ids",
	}
	privateKeyFlag = cli.StringFlag{
		Name:  config.FlagPrivateKey,
		Usage: "Hex encoded deployer or signer key, overrides the configuration",
	}
	keyStorePathFlag = cli.StringFlag{
		Name:  config.FlagKeyStorePath,
		Usage: "Keystore file with the deployer or signer key",
	}
	passwordFlag = cli.StringFlag{
		Name:  config.FlagPassword,
		Usage: "Password of the keystore file",
	}
	outputFileFlag = cli.StringFlag{
		Name:    config.FlagOutputFile,
		Aliases: []string{"o"},
		Usage:   "Write the output to `FILE` instead of stdout",
	}
	minConfigFlag = cli.BoolFlag{
		Name:  config.FlagMinConfig,
		Usage: "Only print the mandatory vars",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "Deploy, verify and exercise the thin cross-chain router"
	app.Version = thinrouter.Version
	configFlags := []cli.Flag{&configFileFlag, &saveConfigFlag, &disableDefaultConfigVars}
	keyFlags := []cli.Flag{&privateKeyFlag, &keyStorePathFlag, &passwordFlag}
	chainFlags := append(append([]cli.Flag{&chainsFlag}, configFlags...), keyFlags...)

	app.Commands = []*cli.Command{
		{
			Name:   "version",
			Usage:  "Application version and build",
			Action: versionCmd,
		},
		{
			Name:   "config",
			Usage:  "Print the default configuration",
			Action: configCmd,
			Flags:  []cli.Flag{&minConfigFlag},
		},
		{
			Name:   "config-schema",
			Usage:  "Print the JSON schema of the configuration",
			Action: configSchemaCmd,
			Flags:  []cli.Flag{&outputFileFlag},
		},
		{
			Name:  "deploy",
			Usage: "Deploy on every selected chain",
			Subcommands: []*cli.Command{
				{
					Name:   common.FACTORY,
					Usage:  "Deploy the CREATE2 factory from the deployer account",
					Action: deployCmd(common.FACTORY),
					Flags:  chainFlags,
				},
				{
					Name:   common.CREATE2,
					Usage:  "Deploy the router through the factory at the same address on every chain",
					Action: deployCmd(common.CREATE2),
					Flags:  chainFlags,
				},
				{
					Name:   common.ROUTER,
					Usage:  "Deploy the router with a plain creation tx and record its getters",
					Action: deployCmd(common.ROUTER),
					Flags:  chainFlags,
				},
			},
		},
		{
			Name:   "readiness",
			Usage:  "Report balance, nonce and expected addresses per chain without sending anything",
			Action: readinessCmd,
			Flags:  chainFlags,
		},
		{
			Name:   "verify",
			Usage:  "Read back the getters of the recorded routers",
			Action: verifyCmd,
			Flags:  append([]cli.Flag{&chainsFlag}, configFlags...),
		},
		hashCommand(),
		{
			Name:   "sign-intent",
			Usage:  "Sign a route intent with the configured key",
			Action: signIntentCmd,
			Flags:  append(append(intentFlags(), configFlags...), keyFlags...),
		},
		{
			Name:   "smoke",
			Usage:  "Run direct, replayed and signed routes against an in-memory router, indexing the events",
			Action: smokeCmd,
			Flags:  append(smokeFlags(), configFlags...),
		},
		{
			Name:   "routes",
			Usage:  "List indexed routes",
			Action: routesCmd,
			Flags:  append(routesFlags(), configFlags...),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
		os.Exit(1)
	}
}
