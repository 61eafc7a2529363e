package main

import (
	"encoding/json"
	"fmt"
	"os"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"github.com/zoopx/evm-thin-router/log"
	"github.com/zoopx/evm-thin-router/routeindex"
	"github.com/zoopx/evm-thin-router/router"
)

const flagLimit = "limit"

func routesFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagInitiator, Usage: "only routes started by this address"},
		&cli.StringFlag{Name: flagMessageHash, Usage: "only the route with this message hash"},
		&cli.IntFlag{Name: flagLimit, Value: 20},
	}
}

func routesCmd(cliCtx *cli.Context) error {
	c, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}
	store, err := routeindex.New(log.WithFields("module", "routeindex"), c.RouteIndex)
	if err != nil {
		return err
	}
	defer store.Close()

	var routes []*routeindex.Route
	switch {
	case cliCtx.String(flagMessageHash) != "":
		msg, err := bytesFlag(cliCtx, flagMessageHash)
		if err != nil {
			return err
		}
		if routes, err = store.ListByMessageHash(ethCommon.BytesToHash(msg)); err != nil {
			return err
		}
	case cliCtx.String(flagInitiator) != "":
		initiator, err := addressFlag(cliCtx, flagInitiator)
		if err != nil {
			return err
		}
		if routes, err = store.ListByInitiator(initiator, cliCtx.Int(flagLimit)); err != nil {
			return err
		}
	default:
		if routes, err = store.LastN(cliCtx.Int(flagLimit)); err != nil {
			return err
		}
	}

	total, err := store.Count()
	if err != nil {
		return err
	}
	events := make([]router.BridgeInitiated, 0, len(routes))
	for _, r := range routes {
		events = append(events, r.Event())
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d of %d indexed routes\n", len(routes), total)
	return nil
}
