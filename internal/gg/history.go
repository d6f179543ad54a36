package gg

import "goodgood/internal/model"

// History records generation runs.
type History interface {
	// StartRun records a run in the running state and returns it with its ID set.
	StartRun(run *model.Run) (*model.Run, error)

	// FinishRun stores the final status, model, detail and finish time of a
	// run previously returned by StartRun.
	FinishRun(run *model.Run) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*model.Run, error)

	// Close closes the underlying database.
	Close() error
}
