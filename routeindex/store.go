package routeindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
	"github.com/zoopx/evm-thin-router/db"
	"github.com/zoopx/evm-thin-router/log"
	"github.com/zoopx/evm-thin-router/routeindex/migrations"
	"github.com/zoopx/evm-thin-router/router"
)

const (
	routeTable             = "route"
	errWhileRollbackFormat = "error while rolling back tx: %w"
)

var (
	// ErrNotFound no route matches the query
	ErrNotFound = db.ErrNotFound
	// ErrAlreadyIndexed a route with the same message hash and intent hash is already stored
	ErrAlreadyIndexed = errors.New("route already indexed")
)

// Store indexes committed routes in sqlite
type Store struct {
	logger *log.Logger
	db     *sql.DB
	now    func() time.Time
}

var _ router.EventSink = (*Store)(nil)

// New runs the migrations on cfg.DBPath and opens the store
func New(logger *log.Logger, cfg Config) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("route index DBPath is empty")
	}
	if err := migrations.RunMigrations(cfg.DBPath); err != nil {
		return nil, err
	}
	database, err := db.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.WithFields("module", "routeindex")
	}
	return &Store{
		logger: logger,
		db:     database,
		now:    time.Now,
	}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// OnBridgeInitiated implements router.EventSink
func (s *Store) OnBridgeInitiated(ctx context.Context, ev router.BridgeInitiated) error {
	tx, err := db.NewTx(ctx, s.db)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if errRllbck := tx.Rollback(); errRllbck != nil {
				s.logger.Errorf(errWhileRollbackFormat, errRllbck)
			}
		}
	}()

	tx.OnCommit(func() {
		s.logger.Debugf("indexed route - MessageHash: %s. GlobalRouteID: %s", ev.MessageHash.Hex(), ev.GlobalRouteID.Hex())
	})
	if err = meddler.Insert(tx, routeTable, NewRoute(ev, s.now().Unix())); err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: message %s, intent %s", ErrAlreadyIndexed, ev.MessageHash.Hex(), ev.IntentHash.Hex())
		}
		return fmt.Errorf("error inserting route: %w", err)
	}
	return tx.Commit()
}

// GetByMessageHash returns the latest route committed with messageHash. Signed
// intents that differ only in routeId or expiry share one message hash
func (s *Store) GetByMessageHash(messageHash common.Hash) (*Route, error) {
	return s.getOne(`SELECT * FROM route WHERE message_hash = $1 ORDER BY id DESC LIMIT 1;`, messageHash.Hex())
}

// ListByMessageHash returns every route committed with messageHash, oldest first
func (s *Store) ListByMessageHash(messageHash common.Hash) ([]*Route, error) {
	var routes []*Route
	err := meddler.QueryAll(s.db, &routes,
		`SELECT * FROM route WHERE message_hash = $1 ORDER BY id ASC;`, messageHash.Hex())
	if err != nil {
		return nil, err
	}
	return routes, nil
}

// GetByGlobalRouteID returns the route with the given global route id
func (s *Store) GetByGlobalRouteID(id common.Hash) (*Route, error) {
	return s.getOne(`SELECT * FROM route WHERE global_route_id = $1 ORDER BY id ASC LIMIT 1;`, id.Hex())
}

// ListByInitiator returns up to limit routes of initiator, newest first
func (s *Store) ListByInitiator(initiator common.Address, limit int) ([]*Route, error) {
	var routes []*Route
	err := meddler.QueryAll(s.db, &routes,
		`SELECT * FROM route WHERE initiator = $1 ORDER BY id DESC LIMIT $2;`, initiator.Hex(), limit)
	if err != nil {
		return nil, err
	}
	return routes, nil
}

// LastN returns the n most recently indexed routes, newest first
func (s *Store) LastN(n int) ([]*Route, error) {
	var routes []*Route
	if err := meddler.QueryAll(s.db, &routes, `SELECT * FROM route ORDER BY id DESC LIMIT $1;`, n); err != nil {
		return nil, err
	}
	return routes, nil
}

// Count returns the number of indexed routes
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM route;`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) getOne(query string, args ...interface{}) (*Route, error) {
	route := &Route{}
	if err := meddler.QueryRow(s.db, route, query, args...); err != nil {
		return nil, db.ReturnErrNotFound(err)
	}
	return route, nil
}
