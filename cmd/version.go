package main

import (
	"os"

	"github.com/urfave/cli/v2"
	thinrouter "github.com/zoopx/evm-thin-router"
)

func versionCmd(*cli.Context) error {
	thinrouter.PrintVersion(os.Stdout)
	return nil
}
