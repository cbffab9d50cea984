package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"storefront-chatkit/internal/domain"
	"storefront-chatkit/internal/shared"

	_ "modernc.org/sqlite"
)

// snapshotKey is the fixed row key. One widget session per database,
// mirroring a single origin-scoped storage record.
const snapshotKey = "chat_widget_session"

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS session_snapshots (
		snapshot_key TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		messages_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadSnapshot retrieves the persisted session snapshot. There is no
// schema version field; an unreadable payload is discarded and treated
// as absent so the widget starts a fresh session.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (*domain.SessionSnapshot, error) {
	query := `SELECT session_id, messages_json FROM session_snapshots WHERE snapshot_key = ?`

	row := s.db.QueryRowContext(ctx, query, snapshotKey)

	var sessionID, messagesJSON string
	err := row.Scan(&sessionID, &messagesJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot row: %w", err)
	}

	var messages []domain.ChatMessage
	if err := json.Unmarshal([]byte(messagesJSON), &messages); err != nil {
		slog.Warn("Discarding unreadable session snapshot", "error", err)
		return nil, nil
	}

	return &domain.SessionSnapshot{
		SessionID: sessionID,
		Messages:  messages,
	}, nil
}

// SaveSnapshot writes the session snapshot, replacing any previous one.
// A SQLite concurrency conflict is retried once.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *domain.SessionSnapshot) error {
	messagesJSON, err := json.Marshal(snap.Messages)
	if err != nil {
		return fmt.Errorf("marshal messages: %w", err)
	}

	query := `
	INSERT INTO session_snapshots (snapshot_key, session_id, messages_json, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(snapshot_key) DO UPDATE SET
		session_id = excluded.session_id,
		messages_json = excluded.messages_json,
		updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query, snapshotKey, snap.SessionID, string(messagesJSON), time.Now().Unix())
	if shared.IsSQLiteConflictError(err) {
		time.Sleep(50 * time.Millisecond)
		_, err = s.db.ExecContext(ctx, query, snapshotKey, snap.SessionID, string(messagesJSON), time.Now().Unix())
	}
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
