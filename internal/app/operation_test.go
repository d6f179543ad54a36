package app

import (
	"errors"
	"testing"
	"time"
)

func TestOperation(t *testing.T) {
	start := time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)
	op := NewOperation("op-1", "generate", start)

	if !op.Succeeded() || op.Status != "success" {
		t.Fatalf("new operation = %+v, want success", op)
	}

	op.Fail(nil)
	if !op.Succeeded() {
		t.Error("Fail(nil) marked the operation failed")
	}

	boom := errors.New("provider openai: API returned 503")
	op.Fail(boom)
	if op.Succeeded() || op.Status != "error" || !errors.Is(op.Err, boom) {
		t.Errorf("after Fail = %+v", op)
	}
}
