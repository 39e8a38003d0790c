package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evrgames/metapipe/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// metatableColumns is the fixed column order of the destination table.
// json_server and json_client are legacy names: they hold the plain server
// and client description strings, no JSON is involved.
var metatableColumns = []string{
	"timestamp", "error_id", "player_id", "json_server", "event_id", "json_client",
}

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	pool       *pgxpool.Pool
	connString string
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %w", ErrStore, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping db: %w", ErrStore, err)
	}
	return &PostgresStore{pool: pool, connString: connString}, nil
}

func (s *PostgresStore) Close() { s.pool.Close() }

// EnsureSchema creates the metatable if it is absent by running the embedded
// migrations. Idempotent: a second call is a no-op. The cheaters table is
// owned by an external process and is deliberately not created here.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("%w: load embedded migrations: %w", ErrStore, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, s.connString)
	if err != nil {
		return fmt.Errorf("%w: initialize migrations: %w", ErrStore, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: run migrations: %w", ErrStore, err)
	}
	return nil
}

// WithinRun executes fn inside one transaction. Any error from fn or from
// the commit rolls the whole run back.
func (s *PostgresStore) WithinRun(ctx context.Context, fn func(ctx context.Context, run Run) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", ErrStore, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &pgRun{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", ErrStore, err)
	}
	return nil
}

// SeedBans creates the cheaters table if needed and inserts ban rows. Only
// the seeder uses this: in production the table belongs to the ban system
// and this store reads it.
func (s *PostgresStore) SeedBans(ctx context.Context, entries []models.BanEntry) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS cheaters (player_id BIGINT, ban_time TEXT)`)
	if err != nil {
		return fmt.Errorf("%w: create cheaters table: %w", ErrStore, err)
	}

	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{e.PlayerID, e.BanTime}
	}
	_, err = s.pool.CopyFrom(ctx,
		pgx.Identifier{"cheaters"},
		[]string{"player_id", "ban_time"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("%w: seed cheaters: %w", ErrStore, err)
	}
	return nil
}

type pgRun struct {
	tx pgx.Tx
}

func (r *pgRun) Bans(ctx context.Context) ([]models.BanEntry, error) {
	rows, err := r.tx.Query(ctx, `SELECT player_id, ban_time FROM cheaters`)
	if err != nil {
		return nil, fmt.Errorf("%w: query cheaters: %w", ErrStore, err)
	}
	defer rows.Close()

	var entries []models.BanEntry
	for rows.Next() {
		var e models.BanEntry
		if err := rows.Scan(&e.PlayerID, &e.BanTime); err != nil {
			return nil, fmt.Errorf("%w: scan cheater row: %w", ErrStore, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read cheaters: %w", ErrStore, err)
	}
	return entries, nil
}

// Append bulk-inserts the incidents positionally in metatable column order.
func (r *pgRun) Append(ctx context.Context, incidents []models.Incident) error {
	_, err := r.tx.CopyFrom(ctx,
		pgx.Identifier{"metatable"},
		metatableColumns,
		pgx.CopyFromSlice(len(incidents), func(i int) ([]any, error) {
			inc := incidents[i]
			return []any{
				inc.Timestamp,
				inc.ErrorID,
				inc.PlayerID,
				inc.ServerDescription,
				inc.EventID,
				inc.ClientDescription,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: copy into metatable: %w", ErrStore, err)
	}
	return nil
}
