package types

// Migration is one embedded SQL file holding both directions, annotated
// with "-- +migrate Up" and "-- +migrate Down"
type Migration struct {
	ID  string
	SQL string
	// Prefix replaces /*dbprefix*/ in SQL so one schema can back several tables sets
	Prefix string
}
