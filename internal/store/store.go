// Package store persists conversation messages and serves recent history.
package store

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/xiaot623/docchat/config"
	"github.com/xiaot623/docchat/internal/domain"
)

// Supported STORE_DRIVER values.
const (
	DriverCosmos   = "cosmos"
	DriverSQLite   = "sqlite"
	DriverDisabled = "disabled"
)

// Backend defines the interface for message persistence. Read methods
// return at most limit messages, newest first; the History handle
// re-sorts them ascending for callers.
type Backend interface {
	SaveMessage(ctx context.Context, msg *domain.Message) error
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	RecentMessagesByUser(ctx context.Context, userID string, limit int) ([]domain.Message, error)
	CountMessages(ctx context.Context, sessionID string) (int, error)
	Close() error
}

// ResultState says whether a read produced data, or why it did not.
type ResultState string

const (
	ResultOK       ResultState = "ok"
	ResultDisabled ResultState = "disabled"
	ResultFailed   ResultState = "failed"
)

// Result carries the outcome of a history read. Callers that only
// consume Messages see an empty slice for a disabled store, a failed
// read and a genuinely empty session alike; tests and logs can tell the
// cases apart through State and Err.
type Result struct {
	Messages []domain.Message
	State    ResultState
	Err      error
}

// History is the store handle constructed once at startup and passed by
// reference into handlers and the chat service. A nil backend puts the
// handle in disabled mode: saves are dropped and reads come back empty.
type History struct {
	backend Backend
}

// NewHistory wraps a backend. Pass nil for a disabled handle.
func NewHistory(backend Backend) *History {
	return &History{backend: backend}
}

// Connect builds the History handle for the configured driver. A
// connection failure is logged and yields a disabled handle: the service
// runs without persistence rather than refusing to start.
func Connect(ctx context.Context, cfg *config.Config) *History {
	switch cfg.StoreDriver {
	case DriverDisabled:
		log.Printf("WARN: message store disabled by configuration")
		return NewHistory(nil)
	case DriverSQLite:
		backend, err := NewSQLiteBackend(cfg.SQLiteDSN)
		if err != nil {
			log.Printf("ERROR: failed to open sqlite store: %v", err)
			return NewHistory(nil)
		}
		log.Printf("INFO: message store using sqlite (%s)", cfg.SQLiteDSN)
		return NewHistory(backend)
	default:
		backend, err := NewCosmosBackend(ctx, cfg.CosmosConnectionString, cfg.CosmosDatabase, cfg.CosmosContainer)
		if err != nil {
			log.Printf("ERROR: failed to connect to cosmos: %v", err)
			return NewHistory(nil)
		}
		log.Printf("INFO: message store using cosmos database %s, container %s", cfg.CosmosDatabase, cfg.CosmosContainer)
		return NewHistory(backend)
	}
}

// Enabled reports whether a backend is attached.
func (h *History) Enabled() bool {
	return h != nil && h.backend != nil
}

// Save persists one message, filling in a fresh id and the current UTC
// timestamp when unset. It never fails the caller: a store outage must
// not block chat, so write errors are logged and swallowed.
func (h *History) Save(ctx context.Context, msg *domain.Message) {
	if !h.Enabled() {
		return
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	if err := h.backend.SaveMessage(ctx, msg); err != nil {
		log.Printf("ERROR: failed to save %s message for session %s: %v", msg.Role, msg.SessionID, err)
	}
}

// Recent returns up to limit messages for a session, oldest first.
func (h *History) Recent(ctx context.Context, sessionID string, limit int) Result {
	if !h.Enabled() {
		return Result{State: ResultDisabled}
	}
	msgs, err := h.backend.RecentMessages(ctx, sessionID, limit)
	if err != nil {
		log.Printf("ERROR: failed to fetch history for session %s: %v", sessionID, err)
		return Result{State: ResultFailed, Err: err}
	}
	sortByTimestamp(msgs)
	return Result{Messages: msgs, State: ResultOK}
}

// RecentByUser returns up to limit messages for a user across sessions,
// oldest first.
func (h *History) RecentByUser(ctx context.Context, userID string, limit int) Result {
	if !h.Enabled() {
		return Result{State: ResultDisabled}
	}
	msgs, err := h.backend.RecentMessagesByUser(ctx, userID, limit)
	if err != nil {
		log.Printf("ERROR: failed to fetch history for user %s: %v", userID, err)
		return Result{State: ResultFailed, Err: err}
	}
	sortByTimestamp(msgs)
	return Result{Messages: msgs, State: ResultOK}
}

// Count returns the number of stored messages for a session, 0 when the
// store is disabled or the read fails.
func (h *History) Count(ctx context.Context, sessionID string) int {
	if !h.Enabled() {
		return 0
	}
	count, err := h.backend.CountMessages(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to count messages for session %s: %v", sessionID, err)
		return 0
	}
	return count
}

// Close releases the backend.
func (h *History) Close() error {
	if !h.Enabled() {
		return nil
	}
	return h.backend.Close()
}

// sortByTimestamp orders messages oldest first for conversation flow.
// Backends return rows newest first so the limit keeps the latest rows.
func sortByTimestamp(msgs []domain.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}
