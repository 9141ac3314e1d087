// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/trellisplan/trellis/internal/model"
	"github.com/trellisplan/trellis/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateWorkItem(ctx context.Context, item *model.WorkItem) error {
	return queryCreateWorkItem(ctx, s.db, item)
}

func (s *PostgresStore) GetWorkItem(ctx context.Context, id string) (*model.WorkItem, error) {
	return queryGetWorkItem(ctx, s.db, id)
}

func (s *PostgresStore) ListWorkItems(ctx context.Context, filter model.ItemFilter) ([]*model.WorkItem, int, error) {
	return queryListWorkItems(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateWorkItem(ctx context.Context, item *model.WorkItem) error {
	return queryUpdateWorkItem(ctx, s.db, item)
}

func (s *PostgresStore) DeleteWorkItem(ctx context.Context, id string) error {
	return queryDeleteWorkItem(ctx, s.db, id)
}

func (s *PostgresStore) CreateConnection(ctx context.Context, conn *model.Connection) error {
	return queryCreateConnection(ctx, s.db, conn)
}

func (s *PostgresStore) GetConnection(ctx context.Context, id string) (*model.Connection, error) {
	return queryGetConnection(ctx, s.db, id)
}

func (s *PostgresStore) ListConnections(ctx context.Context, filter model.ConnectionFilter) ([]*model.Connection, error) {
	return queryListConnections(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateConnection(ctx context.Context, conn *model.Connection) error {
	return queryUpdateConnection(ctx, s.db, conn)
}

func (s *PostgresStore) RemoveConnection(ctx context.Context, id string) error {
	return queryRemoveConnection(ctx, s.db, id)
}

func (s *PostgresStore) Snapshot(ctx context.Context) ([]*model.WorkItem, []*model.Connection, error) {
	items, _, err := queryListWorkItems(ctx, s.db, model.ItemFilter{Sort: "created_at"})
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot work items: %w", err)
	}
	conns, err := queryListConnections(ctx, s.db, model.ConnectionFilter{
		Status: []model.ConnectionStatus{model.ConnActive},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot connections: %w", err)
	}
	return items, conns, nil
}
