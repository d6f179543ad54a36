package gg_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"goodgood/internal/gg"
	"goodgood/internal/model"
	"goodgood/internal/schema"
	"goodgood/internal/store"
	"goodgood/internal/testutil"
)

var feb1 = time.Date(2026, 2, 1, 6, 0, 0, 0, time.UTC)

func newGenerator(st gg.Store, p gg.ContentProvider, h gg.History) *gg.Generator {
	return gg.NewGenerator(st, p, h, gg.NewNopLogger(), testutil.NewStubClock(feb1), testutil.NewStubIDGenerator())
}

func TestGenerator_Run_EndToEnd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	st, err := store.NewFileSystemStore(root)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	provider := testutil.NewStubProvider(testutil.ProviderText())
	history := testutil.NewTestHistory(t)

	out, err := newGenerator(st, provider, history).Run(context.Background(), gg.GenerateOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Status != gg.OutcomeGenerated || out.Date != "2026-02-01" || out.RunID != "id-1" {
		t.Errorf("Outcome = %+v", out)
	}

	for _, name := range []string{filepath.Join("daily", "2026-02-01.json"), "index.json", "latest.json"} {
		if _, err := os.Stat(filepath.Join(root, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	rec, err := st.Get("2026-02-01")
	if err != nil || rec == nil {
		t.Fatalf("Get() = %v, %v", rec, err)
	}
	if rec.Date != "2026-02-01" || rec.Message != "Have a good day" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Meta.Model != "stub/stub-1" {
		t.Errorf("meta.model = %q, want stub/stub-1", rec.Meta.Model)
	}
	if rec.Meta.GeneratedAtUTC != "2026-02-01T06:00:00.000Z" {
		t.Errorf("meta.generated_at_utc = %q", rec.Meta.GeneratedAtUTC)
	}
	if got, want := strings.Join(rec.Meta.Languages, ","), strings.Join(model.LanguageCodes(), ","); got != want {
		t.Errorf("meta.languages = %s, want %s", got, want)
	}

	idx, _ := st.Index()
	if len(idx.Dates) != 1 || idx.Dates[0] != "2026-02-01" {
		t.Errorf("index = %v", idx.Dates)
	}
	latest, _ := st.Latest()
	if latest == nil || latest.Date != "2026-02-01" {
		t.Errorf("latest = %+v", latest)
	}

	if got := provider.Prompts(); len(got) != 1 || !strings.Contains(got[0], "2026-02-01") {
		t.Errorf("prompts = %v", got)
	}

	runs, err := history.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Status != model.RunStatusGenerated || runs[0].Model != "stub/stub-1" || runs[0].FinishedAt == nil {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestGenerator_Run_StampsAfterProviderAnswers(t *testing.T) {
	clock := testutil.NewStubClock(feb1)
	provider := testutil.NewStubProvider(testutil.ProviderText()).WithLatency(clock, 3*time.Second)
	history := testutil.NewTestHistory(t)
	g := gg.NewGenerator(store.NewMemoryStore(), provider, history, gg.NewNopLogger(), clock, testutil.NewStubIDGenerator())

	out, err := g.Run(context.Background(), gg.GenerateOptions{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := out.Record.Meta.GeneratedAtUTC; got != "2026-02-01T06:00:03.000Z" {
		t.Errorf("generated_at_utc = %q, want the time the provider answered", got)
	}

	runs, err := history.ListRuns(0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("ListRuns() = %v, %v", runs, err)
	}
	run := runs[0]
	if !run.StartedAt.Equal(feb1) {
		t.Errorf("StartedAt = %v, want %v", run.StartedAt, feb1)
	}
	if run.FinishedAt == nil || run.FinishedAt.Sub(run.StartedAt) != 3*time.Second {
		t.Errorf("FinishedAt = %v, want 3s after start", run.FinishedAt)
	}
}

func TestGenerator_Run_SkipsExisting(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	history := testutil.NewTestHistory(t)
	if _, err := newGenerator(st, testutil.NewStubProvider(testutil.ProviderText()), nil).
		Run(context.Background(), gg.GenerateOptions{Date: "2026-02-01"}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	writes := st.Writes()

	provider := testutil.NewStubProvider(testutil.ProviderText())
	out, err := newGenerator(st, provider, history).Run(context.Background(), gg.GenerateOptions{Date: "2026-02-01"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Status != gg.OutcomeSkipped || out.RunID != "" {
		t.Errorf("Outcome = %+v, want skipped", out)
	}
	if st.Writes() != writes {
		t.Errorf("skip performed %d writes", st.Writes()-writes)
	}
	if provider.Calls() != 0 {
		t.Errorf("provider called %d times on skip", provider.Calls())
	}
	if runs, _ := history.ListRuns(0); len(runs) != 0 {
		t.Errorf("skip recorded %d runs", len(runs))
	}
}

func TestGenerator_Run_ForceOverwrites(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	ctx := context.Background()
	if _, err := newGenerator(st, testutil.NewStubProvider(testutil.ProviderText()), nil).
		Run(ctx, gg.GenerateOptions{Date: "2026-01-30"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := newGenerator(st, testutil.NewStubProvider(testutil.ProviderText()), nil).
		Run(ctx, gg.GenerateOptions{Date: "2026-01-31"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	text := strings.Replace(testutil.ProviderText(), `"Have a good day"`, `"Keep going"`, 1)
	provider := testutil.NewStubProvider(text)
	out, err := newGenerator(st, provider, nil).Run(ctx, gg.GenerateOptions{Date: "2026-01-30", Force: true})
	if err != nil {
		t.Fatalf("forced Run() error = %v", err)
	}
	if out.Status != gg.OutcomeGenerated || provider.Calls() != 1 {
		t.Fatalf("Outcome = %+v, calls = %d", out, provider.Calls())
	}

	rec, _ := st.Get("2026-01-30")
	if rec.Message != "Keep going" {
		t.Errorf("message = %q, want overwritten record", rec.Message)
	}
	idx, _ := st.Index()
	if strings.Join(idx.Dates, ",") != "2026-01-30,2026-01-31" {
		t.Errorf("index = %v", idx.Dates)
	}
	// The pointer follows the last produced date, even backwards.
	if latest, _ := st.Latest(); latest.Date != "2026-01-30" {
		t.Errorf("latest = %s, want 2026-01-30", latest.Date)
	}
}

func TestGenerator_Run_Failures(t *testing.T) {
	t.Parallel()

	upstream := errors.New("503 Service Unavailable")

	tests := []struct {
		name     string
		provider *testutil.StubProvider
		check    func(t *testing.T, err error)
	}{
		{
			name:     "provider error",
			provider: testutil.NewFailingProvider(upstream),
			check: func(t *testing.T, err error) {
				var perr *gg.ProviderError
				if !errors.As(err, &perr) {
					t.Fatalf("error = %v, want ProviderError", err)
				}
				if perr.Provider != "stub" || !errors.Is(err, upstream) {
					t.Errorf("ProviderError = %+v", perr)
				}
			},
		},
		{
			name:     "provider error passes through",
			provider: testutil.NewFailingProvider(&gg.ProviderError{Provider: "openai", Err: upstream}),
			check: func(t *testing.T, err error) {
				var perr *gg.ProviderError
				if !errors.As(err, &perr) || perr.Provider != "openai" {
					t.Errorf("error = %v, want original ProviderError", err)
				}
			},
		},
		{
			name:     "no json",
			provider: testutil.NewStubProvider("I'm sorry, I can't help with that."),
			check: func(t *testing.T, err error) {
				var xerr *schema.ExtractionError
				if !errors.As(err, &xerr) {
					t.Errorf("error = %v, want ExtractionError", err)
				}
			},
		},
		{
			name:     "two missing translations",
			provider: testutil.NewStubProvider(testutil.ProviderText("ko", "pl")),
			check: func(t *testing.T, err error) {
				var verr *schema.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error = %v, want ValidationError", err)
				}
				if len(verr.Violations) != 2 {
					t.Fatalf("violations = %v, want 2", verr.Violations)
				}
				for i, code := range []string{"ko", "pl"} {
					want := "Missing translation for '" + code + "'"
					if verr.Violations[i].Message != want {
						t.Errorf("violation %d = %q, want %q", i, verr.Violations[i].Message, want)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			history := testutil.NewTestHistory(t)

			out, err := newGenerator(st, tt.provider, history).Run(context.Background(), gg.GenerateOptions{Date: "2026-02-01"})
			if err == nil {
				t.Fatalf("Run() = %+v, want error", out)
			}
			tt.check(t, err)

			if st.Writes() != 0 {
				t.Errorf("failed run performed %d writes", st.Writes())
			}
			runs, _ := history.ListRuns(0)
			if len(runs) != 1 || runs[0].Status != model.RunStatusFailed || runs[0].Detail == "" {
				t.Errorf("runs = %+v, want one failed run with detail", runs)
			}
		})
	}
}

func TestGenerator_Run_InvalidDate(t *testing.T) {
	t.Parallel()

	provider := testutil.NewStubProvider(testutil.ProviderText())
	for _, date := range []string{"2026-2-1", "../etc", "2026-02-30"} {
		if _, err := newGenerator(store.NewMemoryStore(), provider, nil).Run(context.Background(), gg.GenerateOptions{Date: date}); err == nil {
			t.Errorf("Run(%q) should fail", date)
		}
	}
	if provider.Calls() != 0 {
		t.Errorf("provider called for invalid date")
	}
}

func TestGenerator_Run_StoreFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	st, err := store.NewFileSystemStore(root)
	if err != nil {
		t.Fatal(err)
	}
	// A directory where the index belongs makes the second commit step fail.
	if err := os.Mkdir(filepath.Join(root, "index.json"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err = newGenerator(st, testutil.NewStubProvider(testutil.ProviderText()), nil).
		Run(context.Background(), gg.GenerateOptions{Date: "2026-02-01"})
	var serr *gg.StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want StorageError", err)
	}
	if ok, _ := st.Exists("2026-02-01"); !ok {
		t.Error("record should remain after a later step fails")
	}
	if latest, _ := st.Latest(); latest != nil {
		t.Errorf("latest = %+v, want unset", latest)
	}
}
