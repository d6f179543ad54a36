package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"goodgood/internal/config"
	"goodgood/internal/gg"
	"goodgood/internal/model"
)

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "Base Dir:   %s\n", cfg.BaseDir)
	fmt.Fprintf(w, "Log Dir:    %s\n", cfg.LogDir)
	fmt.Fprintf(w, "Store:      %s %s\n", cfg.Store.Type, cfg.Store.DataDir)
	modelName := cfg.Provider.Model
	if modelName == "" {
		modelName = "(default model)"
	}
	fmt.Fprintf(w, "Provider:   %s %s\n", cfg.Provider.Type, modelName)
	if cfg.Provider.APIKey != "" {
		fmt.Fprintf(w, "API Key:    (set in file)\n")
	}
	fmt.Fprintf(w, "Server:     %s assets=%s\n", cfg.Server.Addr, cfg.Server.AssetDir)
	if cfg.Server.MetricsAddr != "" {
		fmt.Fprintf(w, "Metrics:    %s\n", cfg.Server.MetricsAddr)
	}
	fmt.Fprintf(w, "Database:   %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
	for _, v := range cfg.Vaults {
		fmt.Fprintf(w, "Vault:      %s (%s)\n", v.Name, v.Type)
	}
	fmt.Fprintf(w, "Encryption: %s %s\n", cfg.Encryption.Type, cfg.Encryption.PublicKeyPath)
}

func printOutcome(w io.Writer, o *gg.Outcome) {
	switch o.Status {
	case gg.OutcomeSkipped:
		fmt.Fprintf(w, "Record for %s already exists, skipped (use --force to regenerate)\n", o.Date)
	default:
		fmt.Fprintf(w, "Generated %s with %s\n", o.Date, o.Record.Meta.Model)
		fmt.Fprintf(w, "%s\n", o.Record.Message)
	}
}

func printRecord(w io.Writer, rec *model.DailyRecord, lang string) {
	text, used := rec.Translation(lang)
	name, _ := model.LanguageName(used)

	fmt.Fprintf(w, "%s  [%s %s]\n", rec.Date, used, name)
	if used != lang {
		fmt.Fprintf(w, "(no %q translation, showing %s)\n", lang, used)
	}
	fmt.Fprintf(w, "\n  %s\n\n", text)
	fmt.Fprintf(w, "theme:  bg %s  fg %s  accent %s\n", rec.Theme.Bg, rec.Theme.Fg, rec.Theme.Accent)
	fmt.Fprintf(w, "model:  %s\n", rec.Meta.Model)
	fmt.Fprintf(w, "generated: %s\n", rec.Meta.GeneratedAtUTC)
}

func printStatus(w io.Writer, st *gg.StoreStatus) {
	latest := st.Latest
	if latest == "" {
		latest = "(none)"
	}
	fmt.Fprintf(w, "Latest:   %s\n", latest)
	fmt.Fprintf(w, "Indexed:  %d\n", st.IndexedDates)
	fmt.Fprintf(w, "Records:  %d\n", st.Records)
	if st.Consistent() {
		fmt.Fprintln(w, "Status:   consistent")
		return
	}
	fmt.Fprintln(w, "Status:   inconsistent (run `goodgood reindex`)")
	if len(st.Unindexed) > 0 {
		fmt.Fprintf(w, "  not in index: %s\n", strings.Join(st.Unindexed, ", "))
	}
	if len(st.Dangling) > 0 {
		fmt.Fprintf(w, "  index entries without a record: %s\n", strings.Join(st.Dangling, ", "))
	}
	if st.LatestBroken {
		fmt.Fprintln(w, "  latest pointer is missing or names a missing record")
	}
}

func printRuns(w io.Writer, runs []*model.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No generation runs recorded.")
		return
	}
	for _, r := range runs {
		duration := ""
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Truncate(time.Millisecond).String()
		}
		used := r.Model
		if used == "" {
			used = r.Provider
		}
		fmt.Fprintf(w, "%s  %s  %s  %-9s  %-24s  %s",
			r.StartedAt.UTC().Format("2006-01-02 15:04:05"),
			r.RunID,
			r.Date,
			r.Status,
			used,
			duration,
		)
		if r.Detail != "" {
			fmt.Fprintf(w, "  %s", r.Detail)
		}
		fmt.Fprintln(w)
	}
}
