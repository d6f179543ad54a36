package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"goodgood/internal/config"
	"goodgood/internal/database"
	"goodgood/internal/encryption"
	"goodgood/internal/gg"
	"goodgood/internal/model"
	"goodgood/internal/provider"
	"goodgood/internal/server"
	"goodgood/internal/store"
	"goodgood/internal/vault"
)

// GGApp is the application layer between the CLI and the gg services.
// It builds dependencies from config on first use, so a command only
// needs the parts of the config it touches: `show` works without API keys
// and `generate` without a vault.
type GGApp struct {
	cfg    *config.Config
	op     *Operation
	logger gg.Logger
	clock  gg.Clock
	idgen  gg.IDGenerator
	getenv func(string) string

	store     gg.Store
	history   gg.History
	archive   *gg.Archiver
	encryptor gg.Encryptor
	logFile   *os.File
}

// Options tunes a GGApp beyond what the config file holds.
type Options struct {
	Verbose bool                // log at debug level
	Getenv  func(string) string // os.Getenv when nil
	Logger  gg.Logger           // replaces the file+stderr logger; used by tests
	Clock   gg.Clock
	IDGen   gg.IDGenerator
}

// NewGGApp creates a GGApp for one CLI invocation named operation.
// The caller must call Close when done.
func NewGGApp(cfg *config.Config, operation string, opts Options) (*GGApp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &GGApp{cfg: cfg, clock: opts.Clock, idgen: opts.IDGen, getenv: opts.Getenv}
	if a.clock == nil {
		a.clock = gg.RealClock{}
	}
	if a.idgen == nil {
		a.idgen = gg.UUIDGenerator{}
	}
	if a.getenv == nil {
		a.getenv = os.Getenv
	}
	a.op = NewOperation(a.idgen.New(), operation, a.clock.Now())

	if opts.Logger != nil {
		a.logger = opts.Logger
	} else {
		level := slog.LevelInfo
		if opts.Verbose {
			level = slog.LevelDebug
		}
		logger, f, err := newLogger(cfg.LogDir, level, a.op.ID)
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
		a.logger = &slogAdapter{l: logger}
		a.logFile = f
	}

	st, err := store.NewStoreFromConfig(cfg.Store)
	if err != nil {
		a.closeLog()
		return nil, fmt.Errorf("opening store: %w", err)
	}
	a.store = st

	a.logger.Debug("operation started", "operation", operation)
	return a, nil
}

// Logger returns the invocation's logger.
func (a *GGApp) Logger() gg.Logger { return a.logger }

// Store returns the content store.
func (a *GGApp) Store() gg.Store { return a.store }

func (a *GGApp) openHistory() (gg.History, error) {
	if a.history != nil {
		return a.history, nil
	}
	h, err := database.NewHistoryFromConfig(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	a.history = h
	return h, nil
}

// Generate runs the daily pipeline. An existing record is skipped before the
// provider or the run history is touched, so a skip needs no API key and
// writes nothing. A run history that cannot be opened is logged and skipped;
// it never blocks content generation.
func (a *GGApp) Generate(ctx context.Context, opts gg.GenerateOptions) (*gg.Outcome, error) {
	date, err := gg.RunDate(opts, a.clock)
	if err != nil {
		return nil, err
	}
	// Pin the date so the pipeline cannot cross midnight after the check.
	opts.Date = date
	if !opts.Force {
		exists, err := a.store.Exists(date)
		if err != nil {
			return nil, fmt.Errorf("checking for existing record: %w", err)
		}
		if exists {
			a.logger.Info("record exists, skipping", "date", date)
			return &gg.Outcome{Status: gg.OutcomeSkipped, Date: date}, nil
		}
	}

	a.cfg.ResolveSecrets(a.getenv)
	p, err := provider.NewFromConfig(a.cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	var history gg.History
	if h, err := a.openHistory(); err != nil {
		a.logger.Warn("run history unavailable", "error", err)
	} else {
		history = h
	}

	return gg.NewGenerator(a.store, p, history, a.logger, a.clock, a.idgen).Run(ctx, opts)
}

// Show returns the record for date, or for the latest pointer when date is
// empty. A missing record is an error.
func (a *GGApp) Show(date string) (*model.DailyRecord, error) {
	if date == "" {
		latest, err := a.store.Latest()
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return nil, fmt.Errorf("no record has been generated yet")
		}
		date = latest.Date
	}
	rec, err := a.store.Get(date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no record for %s", date)
	}
	return rec, nil
}

// Status reports index and pointer consistency.
func (a *GGApp) Status() (*gg.StoreStatus, error) {
	return gg.Inspect(a.store)
}

// Reindex rebuilds the index and latest pointer from the stored records.
func (a *GGApp) Reindex() (*gg.StoreStatus, error) {
	if err := a.store.Rebuild(); err != nil {
		return nil, fmt.Errorf("rebuilding index: %w", err)
	}
	a.logger.Info("index rebuilt")
	return gg.Inspect(a.store)
}

// History returns the most recent generation runs, newest first.
func (a *GGApp) History(limit int) ([]*model.Run, error) {
	h, err := a.openHistory()
	if err != nil {
		return nil, err
	}
	return h.ListRuns(limit)
}

// dataDir is the directory served under /data/ and archived by backups.
func (a *GGApp) dataDir() (string, error) {
	if a.cfg.Store.Type != "filesystem" && a.cfg.Store.Type != "" {
		return "", fmt.Errorf("store type %q has no data directory", a.cfg.Store.Type)
	}
	return a.cfg.Store.DataDir, nil
}

func (a *GGApp) archiver(ctx context.Context) (*gg.Archiver, gg.Encryptor, error) {
	if a.archive != nil {
		return a.archive, a.encryptor, nil
	}
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, nil, err
	}
	if len(a.cfg.Vaults) == 0 {
		return nil, nil, fmt.Errorf("no vaults configured")
	}
	v, err := vault.NewVaultFromConfig(ctx, a.cfg.Vaults[0])
	if err != nil {
		return nil, nil, fmt.Errorf("creating vault: %w", err)
	}
	if err := v.ValidateSetup(); err != nil {
		return nil, nil, fmt.Errorf("vault %q: %w", a.cfg.Vaults[0].Name, err)
	}
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Encryption)
	if err != nil {
		return nil, nil, fmt.Errorf("creating encryptor: %w", err)
	}
	a.archive = gg.NewArchiver(dataDir, a.cfg.Archive.Ignore, v, enc, a.logger, a.clock, a.idgen)
	a.encryptor = enc
	return a.archive, enc, nil
}

// Backup uploads an encrypted archive of the data directory to the first
// configured vault and returns its ID.
func (a *GGApp) Backup(ctx context.Context) (string, error) {
	ar, _, err := a.archiver(ctx)
	if err != nil {
		return "", err
	}
	return ar.Backup()
}

// Archives lists the archive IDs in the first configured vault.
func (a *GGApp) Archives(ctx context.Context) ([]string, error) {
	ar, _, err := a.archiver(ctx)
	if err != nil {
		return nil, err
	}
	return ar.List()
}

// Restore unlocks the private key with passphrase and unpacks archive id
// into dest, or into the data directory when dest is empty.
func (a *GGApp) Restore(ctx context.Context, id, passphrase, dest string) (int, error) {
	ar, enc, err := a.archiver(ctx)
	if err != nil {
		return 0, err
	}
	if dest == "" {
		if dest, err = a.dataDir(); err != nil {
			return 0, err
		}
	}
	decryptCtx, err := enc.Unlock(passphrase)
	if err != nil {
		return 0, fmt.Errorf("unlocking private key: %w", err)
	}
	return ar.Restore(id, decryptCtx, dest)
}

// SetupKeys generates the archive key pair, protecting the private key
// with passphrase.
func (a *GGApp) SetupKeys(passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if err := enc.Setup(passphrase); err != nil {
		return err
	}
	a.logger.Info("encryption keys created", "public_key", a.cfg.Encryption.PublicKeyPath)
	return nil
}

// Serve runs the file server until ctx is cancelled. addr and metricsAddr
// override the config when non-empty.
func (a *GGApp) Serve(ctx context.Context, addr, metricsAddr string) error {
	dataDir, err := a.dataDir()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	if metricsAddr == "" {
		metricsAddr = a.cfg.Server.MetricsAddr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	files, err := server.NewFileServer(dataDir, a.cfg.Server.AssetDir, a.logger, server.NewMetrics(reg))
	if err != nil {
		return err
	}
	srv := server.NewServer(addr, metricsAddr, server.NewRouter(files, a.logger), reg, a.logger)
	return srv.Run(ctx)
}

// Fail records err as the outcome of the invocation.
func (a *GGApp) Fail(err error) {
	a.op.Fail(err)
}

// Close logs the outcome of the operation and releases the run history and
// the log file.
func (a *GGApp) Close() error {
	var errs []error
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing run history: %w", err))
		}
	}

	elapsed := a.clock.Now().Sub(a.op.StartedAt).Round(time.Millisecond)
	if a.op.Succeeded() {
		a.logger.Debug("operation finished", "operation", a.op.Name, "status", a.op.Status, "elapsed", elapsed)
	} else {
		a.logger.Error("operation finished", "operation", a.op.Name, "status", a.op.Status, "elapsed", elapsed, "error", a.op.Err)
	}

	a.closeLog()
	return errors.Join(errs...)
}

func (a *GGApp) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}
