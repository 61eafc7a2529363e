package migrations

import (
	_ "embed"

	"github.com/zoopx/evm-thin-router/db"
	"github.com/zoopx/evm-thin-router/db/types"
)

//go:embed routeindex0001.sql
var mig001 string

//go:embed routeindex0002.sql
var mig002 string

// Migrations of the route index, in order
var Migrations = []types.Migration{
	{
		ID:  "routeindex0001",
		SQL: mig001,
	},
	{
		ID:  "routeindex0002",
		SQL: mig002,
	},
}

func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, Migrations)
}
