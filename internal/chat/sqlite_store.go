package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore хранилище сессий поверх SQLite.
// Состояние сессии сериализуется в JSON одной строкой таблицы:
// хранилище используется как KV, реляционная схема тут не нужна.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLiteStore открывает (или создаёт) базу по указанному пути.
// WAL-режим выбран ради конкурентных читателей.
func NewSQLiteStore(dbPath string, ttl time.Duration) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, ttl: ttl}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		state_json TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Get возвращает состояние сессии. Истёкшая сессия считается отсутствующей
// и удаляется лениво при следующем ClearExpired.
func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (State, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT state_json, updated_at FROM sessions WHERE session_id = ?`, sessionID)

	var stateJSON string
	var updatedAt int64
	err := row.Scan(&stateJSON, &updatedAt)
	if err == sql.ErrNoRows {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("scan session row: %w", err)
	}

	if s.ttl > 0 && time.Since(time.Unix(updatedAt, 0)) > s.ttl {
		return State{}, false, nil
	}

	var state State
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return State{}, false, fmt.Errorf("decode session state: %w", err)
	}
	return state, true, nil
}

// Set полностью заменяет состояние сессии.
func (s *SQLiteStore) Set(ctx context.Context, sessionID string, state State) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, state_json, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			state_json = excluded.state_json,
			updated_at = excluded.updated_at`,
		sessionID, string(stateJSON), now, now)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete удаляет сессию.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ClearExpired удаляет сессии, не обновлявшиеся дольше TTL.
func (s *SQLiteStore) ClearExpired(ctx context.Context, now time.Time) (int, error) {
	if s.ttl == 0 {
		return 0, nil
	}

	cutoff := now.Add(-s.ttl).Unix()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("clear expired sessions: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(deleted), nil
}

// Close закрывает соединение с базой.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
