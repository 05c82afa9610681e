package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chatwheel/games/roulette"
	"chatwheel/models"
)

// PostgresStore keeps accounts and draw history in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a pool against databaseURL and ensures the schema.
func NewPostgresStore(ctx context.Context, databaseURL, appName string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 20
	config.MinConns = 2
	config.MaxConnLifetime = 45 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second
	config.ConnConfig.RuntimeParams = map[string]string{
		"application_name":                    appName,
		"timezone":                            "UTC",
		"statement_timeout":                   "30s",
		"idle_in_transaction_session_timeout": "60s",
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	conn.Release()

	store := &PostgresStore{pool: pool}
	if err := store.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) createTables(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL DEFAULT '',
		points BIGINT NOT NULL,
		last_chat TIMESTAMPTZ NOT NULL,
		recent_chats INTEGER NOT NULL DEFAULT 0,
		last_played TIMESTAMPTZ,
		last_joined TIMESTAMPTZ,
		last_left TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS draw_history (
		id BIGSERIAL PRIMARY KEY,
		slot SMALLINT NOT NULL CHECK (slot BETWEEN 0 AND 37),
		drawn_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_points ON accounts(points DESC);`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Ping checks the pool can reach the server.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	acc := &models.Account{}
	err := row.Scan(
		&acc.ID,
		&acc.Username,
		&acc.Points,
		&acc.LastChat,
		&acc.RecentChats,
		&acc.LastPlayed,
		&acc.LastJoined,
		&acc.LastLeft,
		&acc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// GetAccount loads one account or returns ErrAccountNotFound.
func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return acc, nil
}

// CreateAccount inserts acc, returning ErrAccountExists on a duplicate ID.
func (s *PostgresStore) CreateAccount(ctx context.Context, acc models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, username, points, last_chat, recent_chats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
		RETURNING ` + accountColumns

	created, err := scanAccount(s.pool.QueryRow(ctx, query,
		acc.ID, acc.Username, acc.Points, acc.LastChat, acc.RecentChats, acc.CreatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return created, nil
}

// UpdateAccount applies a partial update and returns the new row.
func (s *PostgresStore) UpdateAccount(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	if upd.Empty() {
		return s.GetAccount(ctx, id)
	}

	query, args := postgresUpdateQuery(id, upd)
	acc, err := scanAccount(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return acc, nil
}

func postgresUpdateQuery(id string, upd models.AccountUpdate) (string, []interface{}) {
	set, args := buildAccountUpdate(upd, postgresPlaceholder)
	args = append(args, id)
	return fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d RETURNING %s`, set, len(args), accountColumns), args
}

func postgresPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// CompareAndSetPoints writes next only if the balance still equals old.
func (s *PostgresStore) CompareAndSetPoints(ctx context.Context, id string, old, next int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE accounts SET points = $1 WHERE id = $2 AND points = $3`, next, id, old)
	if err != nil {
		return false, fmt.Errorf("failed to swap points: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Append records one drawn slot.
func (s *PostgresStore) Append(ctx context.Context, slot roulette.Slot) error {
	if _, err := s.pool.Exec(ctx, `INSERT INTO draw_history (slot) VALUES ($1)`, int(slot)); err != nil {
		return fmt.Errorf("failed to append draw: %w", err)
	}
	return nil
}

// Recent returns up to n slots, newest first.
func (s *PostgresStore) Recent(ctx context.Context, n int) ([]roulette.Slot, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `SELECT slot FROM draw_history ORDER BY id DESC LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	defer rows.Close()

	slots := make([]roulette.Slot, 0, n)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		slots = append(slots, roulette.Slot(v))
	}
	return slots, rows.Err()
}
