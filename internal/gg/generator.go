package gg

import (
	"context"
	"errors"
	"fmt"

	"goodgood/internal/model"
	"goodgood/internal/schema"
)

// GeneratedAtLayout formats meta.generated_at_utc: RFC 3339 in UTC with
// millisecond precision.
const GeneratedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Outcome statuses.
const (
	OutcomeGenerated = "generated"
	OutcomeSkipped   = "skipped"
)

// GenerateOptions controls a single generation run.
type GenerateOptions struct {
	// Date is the record key. Empty means today in UTC.
	Date string
	// Force regenerates and overwrites an existing record.
	Force bool
}

// Outcome describes a completed run.
type Outcome struct {
	Status string
	Date   string
	RunID  string // empty when skipped
	Record *model.DailyRecord
}

// Generator runs the daily pipeline: provider output is extracted, stamped
// with metadata, validated, and committed to the store as record, index
// entry and latest pointer, in that order. Any failure aborts the run
// before the next step. There are no retries.
type Generator struct {
	store    Store
	provider ContentProvider
	history  History
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewGenerator creates a Generator. history may be nil, in which case runs
// are not recorded.
func NewGenerator(store Store, provider ContentProvider, history History, logger Logger, clock Clock, idgen IDGenerator) *Generator {
	return &Generator{
		store:    store,
		provider: provider,
		history:  history,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// Run executes the pipeline for opts.Date. When a record already exists and
// Force is not set, Run returns a skipped Outcome without touching the store
// or the run history.
func (g *Generator) Run(ctx context.Context, opts GenerateOptions) (*Outcome, error) {
	date, err := RunDate(opts, g.clock)
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		exists, err := g.store.Exists(date)
		if err != nil {
			return nil, fmt.Errorf("checking for existing record: %w", err)
		}
		if exists {
			g.logger.Info("record exists, skipping", "date", date)
			return &Outcome{Status: OutcomeSkipped, Date: date}, nil
		}
	}

	run := g.startRun(date)
	g.logger.Info("generation started", "date", date, "provider", g.provider.Name(), "force", opts.Force)

	record, err := g.produce(ctx, date)
	if err == nil {
		err = g.commit(date, record)
	}
	if err != nil {
		g.logger.Error("generation failed", "date", date, "error", err)
		g.finishRun(run, model.RunStatusFailed, "", err.Error())
		return nil, err
	}

	g.finishRun(run, model.RunStatusGenerated, record.Meta.Model, "")
	g.logger.Info("generation complete", "date", date, "model", record.Meta.Model)

	return &Outcome{Status: OutcomeGenerated, Date: date, RunID: run.RunID, Record: record}, nil
}

// RunDate returns the record key for opts: opts.Date when it is a valid
// date, today in UTC when it is empty.
func RunDate(opts GenerateOptions, clock Clock) (string, error) {
	if opts.Date == "" {
		return model.FormatDate(clock.Now()), nil
	}
	if _, err := model.ParseDate(opts.Date); err != nil {
		return "", err
	}
	return opts.Date, nil
}

// produce obtains, stamps and validates the record without writing anything.
func (g *Generator) produce(ctx context.Context, date string) (*model.DailyRecord, error) {
	gen, err := g.provider.Generate(ctx, SystemPrompt(), Prompt(date))
	if err != nil {
		var perr *ProviderError
		if !errors.As(err, &perr) {
			err = &ProviderError{Provider: g.provider.Name(), Err: err}
		}
		return nil, fmt.Errorf("generating content: %w", err)
	}

	obj, err := schema.Extract(gen.Text)
	if err != nil {
		return nil, fmt.Errorf("extracting content: %w", err)
	}

	obj["date"] = date
	obj["meta"] = map[string]any{
		"model":            g.provider.Name() + "/" + gen.Model,
		"generated_at_utc": g.clock.Now().UTC().Format(GeneratedAtLayout),
		"languages":        translationCodes(obj["translations"]),
	}

	if violations := schema.Validate(obj); len(violations) > 0 {
		return nil, &schema.ValidationError{Violations: violations}
	}

	record, err := schema.Decode(obj)
	if err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return record, nil
}

// commit writes the record, then the index entry, then the latest pointer.
// A failure after Put leaves the record in place; `goodgood reindex` repairs
// the index and pointer.
func (g *Generator) commit(date string, record *model.DailyRecord) error {
	if err := g.store.Put(date, record); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	if err := g.store.AppendToIndex(date); err != nil {
		return fmt.Errorf("updating index: %w", err)
	}
	if err := g.store.SetLatest(date); err != nil {
		return fmt.Errorf("updating latest pointer: %w", err)
	}
	return nil
}

// translationCodes lists the keys of the translations object in canonical
// order. A missing or malformed object yields an empty list; the validator
// reports it.
func translationCodes(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return []string{}
	}
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	return model.OrderLanguages(codes)
}

// startRun records the run in history. Recording is best effort and never
// changes the outcome of the run.
func (g *Generator) startRun(date string) *model.Run {
	run := &model.Run{
		RunID:     g.idgen.New(),
		Date:      date,
		Provider:  g.provider.Name(),
		StartedAt: g.clock.Now(),
		Status:    model.RunStatusRunning,
	}
	if g.history == nil {
		return run
	}
	recorded, err := g.history.StartRun(run)
	if err != nil {
		g.logger.Warn("recording run start failed", "run_id", run.RunID, "error", err)
		return run
	}
	return recorded
}

func (g *Generator) finishRun(run *model.Run, status, modelName, detail string) {
	if g.history == nil || run.ID == 0 {
		return
	}
	finished := g.clock.Now()
	run.Status = status
	run.Model = modelName
	run.Detail = detail
	run.FinishedAt = &finished
	if err := g.history.FinishRun(run); err != nil {
		g.logger.Warn("recording run finish failed", "run_id", run.RunID, "error", err)
	}
}
