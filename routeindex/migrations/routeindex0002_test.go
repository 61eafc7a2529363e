package migrations

import (
	"path"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zoopx/evm-thin-router/db"
)

func Test002(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "routeindexTest002.sqlite")

	require.NoError(t, db.RunMigrations(dbPath, Migrations[:1]))
	database, err := db.NewSQLiteDB(dbPath)
	require.NoError(t, err)
	defer database.Close()

	insert := `
		INSERT INTO route (
			message_hash, global_route_id, initiator, asset, amount, protocol_fee, relayer_fee, net,
			target, src_chain_id, dst_chain_id, nonce, intent_hash, relayer, created_at
		) VALUES ('0x01', '0x02', '0x03', '0x04', '100', '1', '1', '98', '0x05', 13991, 84532, 7, $1, '0x00', 0);`
	_, err = database.Exec(insert, "0x00")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(dbPath))

	// rows written before the upgrade survive
	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM route;`).Scan(&count))
	require.Equal(t, 1, count)

	// same message hash, different intents
	_, err = database.Exec(insert, "0xaa")
	require.NoError(t, err)
	_, err = database.Exec(insert, "0xbb")
	require.NoError(t, err)
	_, err = database.Exec(insert, "0xaa")
	require.True(t, db.IsUniqueViolation(err))

	pending, err := db.PendingMigrations(dbPath, Migrations)
	require.NoError(t, err)
	require.Zero(t, pending)
}
