package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/evrgames/metapipe/internal/models"
)

// setupTestStore creates a PostgreSQL testcontainer and a store against it.
func setupTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed store tests in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("metapipe_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	store, err := NewPostgresStore(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(store.Close)

	return store
}

func countMetatableRows(t *testing.T, store *PostgresStore) int {
	t.Helper()
	var n int
	err := store.pool.QueryRow(context.Background(), `SELECT count(*) FROM metatable`).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.EnsureSchema(ctx))

	var n int
	err := store.pool.QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name = 'metatable'`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWithinRunCommit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.SeedBans(ctx, []models.BanEntry{
		{PlayerID: 1, BanTime: "2021-01-01 08:00:00"},
		{PlayerID: 2, BanTime: "2021-02-03 09:30:00"},
	}))

	incidents := []models.Incident{
		{Timestamp: 1609459200, ErrorID: "E1", PlayerID: 42, ServerDescription: "s", EventID: 7, ClientDescription: "c"},
		{Timestamp: 1609459260, ErrorID: "E2", PlayerID: 43, ServerDescription: "s2", EventID: 8, ClientDescription: "c2"},
	}

	var bans []models.BanEntry
	err := store.WithinRun(ctx, func(ctx context.Context, run Run) error {
		var err error
		bans, err = run.Bans(ctx)
		if err != nil {
			return err
		}
		return run.Append(ctx, incidents)
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []models.BanEntry{
		{PlayerID: 1, BanTime: "2021-01-01 08:00:00"},
		{PlayerID: 2, BanTime: "2021-02-03 09:30:00"},
	}, bans)

	assert.Equal(t, 2, countMetatableRows(t, store))

	// Row order and values are positional by metatable column order.
	var got models.Incident
	err = store.pool.QueryRow(ctx,
		`SELECT timestamp, error_id, player_id, json_server, event_id, json_client
		 FROM metatable WHERE error_id = 'E1'`).Scan(
		&got.Timestamp, &got.ErrorID, &got.PlayerID,
		&got.ServerDescription, &got.EventID, &got.ClientDescription)
	require.NoError(t, err)
	assert.Equal(t, incidents[0], got)
}

func TestWithinRunRollsBackOnError(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureSchema(ctx))

	boom := errors.New("boom")
	err := store.WithinRun(ctx, func(ctx context.Context, run Run) error {
		if err := run.Append(ctx, []models.Incident{
			{Timestamp: 1, ErrorID: "E1", PlayerID: 1},
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Nothing from the failed run is visible.
	assert.Equal(t, 0, countMetatableRows(t, store))
}

func TestBansOnMissingCheatersTable(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureSchema(ctx))

	err := store.WithinRun(ctx, func(ctx context.Context, run Run) error {
		_, err := run.Bans(ctx)
		return err
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
}

func TestNewPostgresStoreBadConnString(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), "invalid://connection")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
}
