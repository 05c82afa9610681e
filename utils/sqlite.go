package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"chatwheel/games/roulette"
	"chatwheel/models"
)

// SQLiteStore is the single-node backend used for local runs and tests.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and migrates it.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One writer at a time; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.migrate(!isMemoryPath(path)); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate(wal bool) error {
	stmts := []string{`PRAGMA busy_timeout=5000`}
	if wal {
		stmts = append(stmts, `PRAGMA journal_mode=WAL`)
	}
	stmts = append(stmts,
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL,
			last_chat DATETIME NOT NULL,
			recent_chats INTEGER NOT NULL DEFAULT 0,
			last_played DATETIME,
			last_joined DATETIME,
			last_left DATETIME,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS draw_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot INTEGER NOT NULL CHECK (slot BETWEEN 0 AND 37),
			drawn_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	)
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate sqlite: %w", err)
		}
	}
	return nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

func scanSQLiteAccount(row *sql.Row) (*models.Account, error) {
	acc := &models.Account{}
	var lastPlayed, lastJoined, lastLeft sql.NullTime
	err := row.Scan(
		&acc.ID,
		&acc.Username,
		&acc.Points,
		&acc.LastChat,
		&acc.RecentChats,
		&lastPlayed,
		&lastJoined,
		&lastLeft,
		&acc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	acc.LastPlayed = nullTimePtr(lastPlayed)
	acc.LastJoined = nullTimePtr(lastJoined)
	acc.LastLeft = nullTimePtr(lastLeft)
	return acc, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// GetAccount loads one account or returns ErrAccountNotFound.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	acc, err := scanSQLiteAccount(s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return acc, nil
}

// CreateAccount inserts acc, returning ErrAccountExists on a duplicate ID.
func (s *SQLiteStore) CreateAccount(ctx context.Context, acc models.Account) (*models.Account, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, points, last_chat, recent_chats, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		acc.ID, acc.Username, acc.Points, acc.LastChat.UTC(), acc.RecentChats, acc.CreatedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrAccountExists
	}
	return s.GetAccount(ctx, acc.ID)
}

// UpdateAccount applies a partial update and returns the new row.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	if upd.Empty() {
		return s.GetAccount(ctx, id)
	}

	set, args := buildAccountUpdate(upd, func(int) string { return "?" })
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = ? RETURNING %s`, set, accountColumns)

	acc, err := scanSQLiteAccount(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return acc, nil
}

// CompareAndSetPoints writes next only if the balance still equals old.
func (s *SQLiteStore) CompareAndSetPoints(ctx context.Context, id string, old, next int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET points = ? WHERE id = ? AND points = ?`, next, id, old)
	if err != nil {
		return false, fmt.Errorf("failed to swap points: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to swap points: %w", err)
	}
	return n == 1, nil
}

// Append records one drawn slot.
func (s *SQLiteStore) Append(ctx context.Context, slot roulette.Slot) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO draw_history (slot) VALUES (?)`, int(slot)); err != nil {
		return fmt.Errorf("failed to append draw: %w", err)
	}
	return nil
}

// Recent returns up to n slots, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]roulette.Slot, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT slot FROM draw_history ORDER BY id DESC LIMIT ?`, n)
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

// sqliteDSN asks the driver to write times in a format it can parse back.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_time_format=sqlite"
	}
	return path + "?_time_format=sqlite"
}

// isMemoryPath reports whether path names an in-memory database.
func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
