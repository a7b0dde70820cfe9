package helpers

import (
	"testing"

	"github.com/xiaot623/docchat/internal/store"
)

// NewTestHistory returns a History handle over an in-memory SQLite
// backend, closed when the test ends.
func NewTestHistory(t *testing.T) *store.History {
	t.Helper()

	backend, err := store.NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite backend: %v", err)
	}

	h := store.NewHistory(backend)
	t.Cleanup(func() {
		_ = h.Close()
	})

	return h
}
