package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/xiaot623/docchat/internal/domain"
)

// SQLiteBackend implements Backend using SQLite. It serves local
// development and tests; deployments use the cosmos backend.
type SQLiteBackend struct {
	db *sql.DB
}

// Ensure SQLiteBackend implements Backend interface.
var _ Backend = (*SQLiteBackend)(nil)

// NewSQLiteBackend opens the database and runs migrations.
func NewSQLiteBackend(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	b := &SQLiteBackend{db: db}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return b, nil
}

// migrate runs database migrations.
func (b *SQLiteBackend) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_id TEXT,
			user_roles TEXT,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(user_id, timestamp)`,
	}

	for _, m := range migrations {
		if _, err := b.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveMessage inserts one message.
func (b *SQLiteBackend) SaveMessage(ctx context.Context, msg *domain.Message) error {
	var userRoles sql.NullString
	if len(msg.UserRoles) > 0 {
		data, _ := json.Marshal(msg.UserRoles)
		userRoles = sql.NullString{String: string(data), Valid: true}
	}
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO messages (id, session_id, user_id, user_roles, role, content, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, nullString(msg.UserID), userRoles, string(msg.Role), msg.Content, msg.Timestamp)
	return err
}

// RecentMessages returns at most limit messages for a session, newest first.
func (b *SQLiteBackend) RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	return b.queryMessages(ctx,
		`SELECT id, session_id, user_id, user_roles, role, content, timestamp FROM messages WHERE session_id = ? ORDER BY timestamp DESC LIMIT ?`,
		sessionID, limit)
}

// RecentMessagesByUser returns at most limit messages for a user, newest first.
func (b *SQLiteBackend) RecentMessagesByUser(ctx context.Context, userID string, limit int) ([]domain.Message, error) {
	return b.queryMessages(ctx,
		`SELECT id, session_id, user_id, user_roles, role, content, timestamp FROM messages WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`,
		userID, limit)
}

// CountMessages returns the number of messages stored for a session.
func (b *SQLiteBackend) CountMessages(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := b.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) queryMessages(ctx context.Context, query string, args ...interface{}) ([]domain.Message, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role string
		var userID, userRoles sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &userID, &userRoles, &role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, err
		}
		msg.Role = domain.Role(role)
		if userID.Valid {
			msg.UserID = userID.String
		}
		if userRoles.Valid {
			_ = json.Unmarshal([]byte(userRoles.String), &msg.UserRoles)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
