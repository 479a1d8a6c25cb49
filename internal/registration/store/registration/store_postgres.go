package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	reg "tapclaim/internal/registration"
	"tapclaim/pkg/domain"
	"tapclaim/pkg/platform/sentinel"
	txcontext "tapclaim/pkg/platform/tx"
)

// PostgresStore persists registrations in PostgreSQL. The unique index over
// (LOWER(eth_address), rgb_address) is the atomicity point for duplicate
// detection: inserts never read-then-write.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres wraps an existing connection. The caller owns schema setup;
// integration tests call EnsureSchema explicitly.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open connects to databaseURL, configures the pool, verifies connectivity,
// and ensures the schema. This is the production entry point.
func Open(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := NewPostgres(db)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the registrations table and its indexes if absent.
// Idempotent; runs at every startup.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS registrations (
		id BIGSERIAL PRIMARY KEY,
		eth_address TEXT NOT NULL,
		rgb_address TEXT NOT NULL,
		signature TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_pair
		ON registrations(LOWER(eth_address), rgb_address);

	CREATE INDEX IF NOT EXISTS idx_registrations_eth ON registrations(eth_address);
	CREATE INDEX IF NOT EXISTS idx_registrations_rgb ON registrations(rgb_address);
	CREATE INDEX IF NOT EXISTS idx_registrations_created ON registrations(created_at);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Insert persists one registration, assigning ID and timestamps from the
// database. A duplicate address pair returns sentinel.ErrConflict.
func (s *PostgresStore) Insert(ctx context.Context, r *reg.Registration) error {
	query := `
		INSERT INTO registrations (eth_address, rgb_address, signature, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := s.execer(ctx).QueryRowContext(ctx, query,
		r.EthAddress.String(),
		r.RgbAddress.String(),
		r.Signature,
		r.Message,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("insert registration: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// ListAll returns every registration in ascending id order.
func (s *PostgresStore) ListAll(ctx context.Context) ([]*reg.Registration, error) {
	query := `
		SELECT id, eth_address, rgb_address, signature, message, created_at, updated_at
		FROM registrations
		ORDER BY id ASC
	`

	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

// Close releases the connection pool. All committed writes are durable
// before it returns.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanRegistrations(rows *sql.Rows) ([]*reg.Registration, error) {
	var out []*reg.Registration

	for rows.Next() {
		var (
			r          reg.Registration
			ethAddress string
			rgbAddress string
		)
		err := rows.Scan(
			&r.ID,
			&ethAddress,
			&rgbAddress,
			&r.Signature,
			&r.Message,
			&r.CreatedAt,
			&r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}

		// Rows only ever hold values that passed validation on the way in.
		r.EthAddress, err = domain.ParseEthAddress(ethAddress)
		if err != nil {
			return nil, fmt.Errorf("scan registration %d: %w", r.ID, err)
		}
		r.RgbAddress, err = domain.ParseRgbAddress(rgbAddress)
		if err != nil {
			return nil, fmt.Errorf("scan registration %d: %w", r.ID, err)
		}

		out = append(out, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}

	return out, nil
}
