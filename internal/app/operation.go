package app

import "time"

// Operation tracks one CLI invocation. Its ID tags every log line the
// invocation writes; Close logs the outcome.
type Operation struct {
	ID        string
	Name      string
	StartedAt time.Time
	Status    string // "success" or "error"
	Err       error
}

// NewOperation creates an operation that succeeds unless Fail is called.
func NewOperation(id, name string, startedAt time.Time) *Operation {
	return &Operation{
		ID:        id,
		Name:      name,
		StartedAt: startedAt,
		Status:    "success",
	}
}

// Fail marks the operation as failed. A nil err is ignored, so callers can
// pass through whatever their command returned.
func (op *Operation) Fail(err error) {
	if err == nil {
		return
	}
	op.Status = "error"
	op.Err = err
}

// Succeeded reports whether no failure was recorded.
func (op *Operation) Succeeded() bool {
	return op.Err == nil
}
