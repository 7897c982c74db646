// Package postgres implements the interface for PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" //nolint:gci // load the postgres driver that is used by the system

	"github.com/BaR488/Raiblocks.Api/lib/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Queries
const (
	insertObservation = `INSERT INTO observations (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`
	deleteObservation = `DELETE FROM observations WHERE address = $1`
	existsObservation = `SELECT EXISTS (SELECT 1 FROM observations WHERE address = $1)`
	pageObservations  = `SELECT address FROM observations WHERE address > $1 ORDER BY address LIMIT $2`

	insertBalance = `INSERT INTO balances (address, balance, updated_at) VALUES ($1, $2, $3) ON CONFLICT (address) DO NOTHING`
	updateBalance = `UPDATE balances SET balance = $2, updated_at = $3 WHERE address = $1`
	deleteBalance = `DELETE FROM balances WHERE address = $1`
	existsBalance = `SELECT EXISTS (SELECT 1 FROM balances WHERE address = $1)`
	pageBalances  = `SELECT address, balance, updated_at FROM balances WHERE address > $1 ORDER BY address LIMIT $2`
)

// Postgres implements a connection to a PostgreSQL database.
type Postgres struct {
	db   *sql.DB
	obs  *Observations
	bals *Balances
}

// New returns a postgres client connection to the specified database in 'connection' with the schema migrated to
// the latest version.
func New(connection string) (*Postgres, error) {
	if err := Migrate(connection); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", connection)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB in %s: %w", connection, err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an open database whose schema is already in place.
func NewWithDB(db *sql.DB) *Postgres {
	return &Postgres{
		db:   db,
		obs:  &Observations{db: db},
		bals: &Balances{db: db},
	}
}

// Migrate applies the embedded migrations on its own connection. It is idempotent.
func Migrate(connection string) error {
	db, err := sql.Open("postgres", connection)
	if err != nil {
		return fmt.Errorf("cannot connect to DB in %s: %w", connection, err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Observations implements store.DB.
func (p *Postgres) Observations() store.ObservationRepository { return p.obs }

// Balances implements store.DB.
func (p *Postgres) Balances() store.BalanceRepository { return p.bals }

// Close will close any database connection. Must be called at termination time.
func (p *Postgres) Close(context.Context) error {
	return p.db.Close()
}

// affected runs a statement and reports whether it changed a row.
func affected(ctx context.Context, db *sql.DB, query string, args ...interface{}) (bool, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func exists(ctx context.Context, db *sql.DB, query, address string) (ok bool, err error) {
	err = db.QueryRowContext(ctx, query, address).Scan(&ok)
	return
}

// Observations is the observation repository on PostgreSQL.
type Observations struct {
	db *sql.DB
}

// CreateIfNotExists implements store.ObservationRepository.
func (r *Observations) CreateIfNotExists(ctx context.Context, o store.Observation) (bool, error) {
	ok, err := affected(ctx, r.db, insertObservation, o.Address)
	if err != nil {
		return false, fmt.Errorf("could not insert observation %s: %w", o.Address, err)
	}
	return ok, nil
}

// DeleteIfExists implements store.ObservationRepository.
func (r *Observations) DeleteIfExists(ctx context.Context, o store.Observation) (bool, error) {
	ok, err := affected(ctx, r.db, deleteObservation, o.Address)
	if err != nil {
		return false, fmt.Errorf("could not delete observation %s: %w", o.Address, err)
	}
	return ok, nil
}

// Exists implements store.ObservationRepository.
func (r *Observations) Exists(ctx context.Context, o store.Observation) (bool, error) {
	ok, err := exists(ctx, r.db, existsObservation, o.Address)
	if err != nil {
		return false, fmt.Errorf("could not look up observation %s: %w", o.Address, err)
	}
	return ok, nil
}

// Get implements store.ObservationRepository.
func (r *Observations) Get(ctx context.Context, take int, continuation string) (string, []store.Observation, error) {
	after, err := store.CheckPage(take, continuation)
	if err != nil {
		return "", nil, err
	}

	rows, err := r.db.QueryContext(ctx, pageObservations, after, take+1)
	if err != nil {
		return "", nil, fmt.Errorf("error reading observations: %w", err)
	}
	defer rows.Close()

	var items []store.Observation
	for rows.Next() {
		var o store.Observation
		if err = rows.Scan(&o.Address); err != nil {
			return "", nil, fmt.Errorf("error decoding observations: %w", err)
		}
		items = append(items, o)
	}
	if err = rows.Err(); err != nil {
		return "", nil, fmt.Errorf("error reading observations: %w", err)
	}

	var next string
	if len(items) > take {
		items = items[:take]
		next = store.EncodeToken(items[take-1].Address)
	}
	return next, items, nil
}

// Balances is the balance repository on PostgreSQL.
type Balances struct {
	db *sql.DB
}

// CreateIfNotExists implements store.BalanceRepository.
func (r *Balances) CreateIfNotExists(ctx context.Context, b store.AddressBalance) (bool, error) {
	ok, err := affected(ctx, r.db, insertBalance, b.Address, b.Balance, b.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("could not insert balance of %s: %w", b.Address, err)
	}
	return ok, nil
}

// Update implements store.BalanceRepository.
func (r *Balances) Update(ctx context.Context, b store.AddressBalance) error {
	ok, err := affected(ctx, r.db, updateBalance, b.Address, b.Balance, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not update balance of %s: %w", b.Address, err)
	}
	if !ok {
		return store.ErrAddrNotFound
	}
	return nil
}

// DeleteIfExists implements store.BalanceRepository.
func (r *Balances) DeleteIfExists(ctx context.Context, b store.AddressBalance) (bool, error) {
	ok, err := affected(ctx, r.db, deleteBalance, b.Address)
	if err != nil {
		return false, fmt.Errorf("could not delete balance of %s: %w", b.Address, err)
	}
	return ok, nil
}

// Exists implements store.BalanceRepository.
func (r *Balances) Exists(ctx context.Context, b store.AddressBalance) (bool, error) {
	ok, err := exists(ctx, r.db, existsBalance, b.Address)
	if err != nil {
		return false, fmt.Errorf("could not look up balance of %s: %w", b.Address, err)
	}
	return ok, nil
}

// Get implements store.BalanceRepository.
func (r *Balances) Get(ctx context.Context, take int, continuation string) (string, []store.AddressBalance, error) {
	after, err := store.CheckPage(take, continuation)
	if err != nil {
		return "", nil, err
	}

	rows, err := r.db.QueryContext(ctx, pageBalances, after, take+1)
	if err != nil {
		return "", nil, fmt.Errorf("error reading balances: %w", err)
	}
	defer rows.Close()

	var items []store.AddressBalance
	for rows.Next() {
		var b store.AddressBalance
		if err = rows.Scan(&b.Address, &b.Balance, &b.UpdatedAt); err != nil {
			return "", nil, fmt.Errorf("error decoding balances: %w", err)
		}
		items = append(items, b)
	}
	if err = rows.Err(); err != nil {
		return "", nil, fmt.Errorf("error reading balances: %w", err)
	}

	var next string
	if len(items) > take {
		items = items[:take]
		next = store.EncodeToken(items[take-1].Address)
	}
	return next, items, nil
}
