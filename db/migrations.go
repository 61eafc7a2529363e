package db

import (
	"fmt"
	"strings"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/zoopx/evm-thin-router/db/types"
	"github.com/zoopx/evm-thin-router/log"
)

const (
	dbPrefixReplacer = "/*dbprefix*/"
	migrationDialect = "sqlite3"
)

// RunMigrations applies every pending migration to the sqlite database at dbPath
func RunMigrations(dbPath string, migrations []types.Migration) error {
	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		return fmt.Errorf("error creating DB %w", err)
	}
	defer db.Close()

	source, err := memorySource(migrations)
	if err != nil {
		return err
	}
	for _, m := range source.Migrations {
		log.Debugf("migration %s registered", m.Id)
	}
	nMigrations, err := migrate.Exec(db, migrationDialect, source, migrate.Up)
	if err != nil {
		return fmt.Errorf("error executing migration %w", err)
	}
	log.Infof("successfully ran %d migrations on %s", nMigrations, dbPath)
	return nil
}

// PendingMigrations returns how many migrations have not been applied yet
func PendingMigrations(dbPath string, migrations []types.Migration) (int, error) {
	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		return 0, fmt.Errorf("error creating DB %w", err)
	}
	defer db.Close()

	source, err := memorySource(migrations)
	if err != nil {
		return 0, err
	}
	planned, _, err := migrate.PlanMigration(db, migrationDialect, source, migrate.Up, 0)
	if err != nil {
		return 0, fmt.Errorf("error planning migrations %w", err)
	}
	return len(planned), nil
}

func memorySource(migrations []types.Migration) (*migrate.MemoryMigrationSource, error) {
	source := &migrate.MemoryMigrationSource{Migrations: make([]*migrate.Migration, 0, len(migrations))}
	for _, m := range migrations {
		prefixed := strings.ReplaceAll(m.SQL, dbPrefixReplacer, m.Prefix)
		parsed, err := migrate.ParseMigration(m.Prefix+m.ID, strings.NewReader(prefixed))
		if err != nil {
			return nil, fmt.Errorf("error parsing migration %s: %w", m.ID, err)
		}
		source.Migrations = append(source.Migrations, parsed)
	}
	return source, nil
}
