package usagelog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
)

var (
	ErrDBConnection = errors.New("database connection error")
	ErrDBQuery      = errors.New("database query error")
	ErrCreate       = errors.New("create error")
)

type sqliteRepository struct {
	Registry

	enabled bool
	db      *sqlx.DB
}

// NewSqliteRepository returns a Repository persisting rows to a sqlite
// database at path, migrating the schema on open.
func NewSqliteRepository(registry Registry, enabled bool, path string) (Repository, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	migrations := &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "1_create_usage_log",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS usage_log (
						id TEXT PRIMARY KEY,
						kind TEXT NOT NULL,
						feature_name TEXT NOT NULL,
						client_name TEXT NOT NULL,
						population_name TEXT,
						policy_name TEXT,
						run_id INTEGER NOT NULL DEFAULT 0,
						created_at TIMESTAMP NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_usage_log_feature ON usage_log(kind, feature_name)`,
					`CREATE INDEX IF NOT EXISTS idx_usage_log_created_at ON usage_log(created_at)`,
				},
				Down: []string{`DROP TABLE usage_log`},
			},
		},
	}
	if _, err := migrate.Exec(db.DB, "sqlite3", migrations, migrate.Up); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}

	return &sqliteRepository{
		Registry: registry,
		enabled:  enabled,
		db:       db,
	}, nil
}

type dbEntry struct {
	ID             string    `db:"id"`
	Kind           string    `db:"kind"`
	FeatureName    string    `db:"feature_name"`
	ClientName     string    `db:"client_name"`
	PopulationName string    `db:"population_name"`
	PolicyName     string    `db:"policy_name"`
	RunID          int64     `db:"run_id"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r *sqliteRepository) Enabled() bool {
	return r.enabled
}

func (r *sqliteRepository) Save(ctx context.Context, entry Entry) error {
	if !r.enabled {
		return nil
	}

	query := `INSERT INTO usage_log (id, kind, feature_name, client_name, population_name, policy_name, run_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, string(entry.Kind), entry.FeatureName, entry.ClientName,
		entry.PopulationName, entry.PolicyName, entry.RunID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return nil
}

func (r *sqliteRepository) List(ctx context.Context, offset, limit uint64) (Page, error) {
	var total uint64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM usage_log`); err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	query := `SELECT id, kind, feature_name, client_name, population_name, policy_name, run_id, created_at
		FROM usage_log ORDER BY created_at, id LIMIT ? OFFSET ?`

	var rows []dbEntry
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	entries := make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = Entry{
			ID:             row.ID,
			Kind:           Kind(row.Kind),
			FeatureName:    row.FeatureName,
			ClientName:     row.ClientName,
			PopulationName: row.PopulationName,
			PolicyName:     row.PolicyName,
			RunID:          row.RunID,
			CreatedAt:      row.CreatedAt,
		}
	}

	return Page{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		Entries: entries,
	}, nil
}

// Close releases the underlying database handle.
func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
