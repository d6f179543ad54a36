package testutil

import (
	"testing"

	"goodgood/internal/database"
)

// NewTestHistory creates an in-memory run history with migrations applied.
// It is closed when the test completes.
func NewTestHistory(t *testing.T) *database.SQLiteHistory {
	t.Helper()

	h, err := database.NewSQLiteHistory(":memory:")
	if err != nil {
		t.Fatalf("failed to open run history: %v", err)
	}
	t.Cleanup(func() {
		h.Close()
	})
	return h
}
