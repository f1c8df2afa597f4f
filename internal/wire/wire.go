// Package wire provides dependency injection for the bikepark application.
// It builds the ledger service and its adapters from a resolved Config.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	cliadapter "github.com/example/bikepark/internal/adapters/cli"
	"github.com/example/bikepark/internal/adapters/filesystem"
	"github.com/example/bikepark/internal/adapters/sqlite"
	"github.com/example/bikepark/internal/app"
	"github.com/example/bikepark/internal/config"
	"github.com/example/bikepark/internal/db"
	"github.com/example/bikepark/internal/logging"
	"github.com/example/bikepark/internal/ports/primary"
)

// App holds the wired ledger and the resources it owns.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Ledger primary.LedgerService

	db *sql.DB
}

// Load reads configuration from dir (see config.LoadConfig) and wires the app.
func Load(dir string) (*App, error) {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// New opens the ledger database and wires the service around it.
// Extra options are applied after the configured ones.
func New(cfg *config.Config, opts ...app.LedgerOption) (*App, error) {
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Create repository adapters (secondary ports) with the injected DB
	stayRepo := sqlite.NewStayRepository(database)
	archives := filesystem.NewArchiveStore(cfg.ArchiveDir)

	ledgerOpts := append([]app.LedgerOption{
		app.WithLocation(loc),
		app.WithLogger(logger),
	}, opts...)

	ledger := app.NewLedgerService(stayRepo, archives, cfg.AdminSecret, ledgerOpts...)

	logger.Debug("ledger opened",
		zap.String("db", cfg.DBPath),
		zap.String("archive_dir", cfg.ArchiveDir),
		zap.String("timezone", loc.String()),
	)

	return &App{
		Config: cfg,
		Logger: logger,
		Ledger: ledger,
		db:     database,
	}, nil
}

// LedgerAdapter returns a new LedgerAdapter on stdin/stdout.
// Each call creates a new adapter (adapters are stateless translators).
func (a *App) LedgerAdapter() *cliadapter.LedgerAdapter {
	return a.LedgerAdapterWithIO(os.Stdout, os.Stdin)
}

// LedgerAdapterWithIO returns a new LedgerAdapter on the given streams.
// This variant allows testing or alternate output destinations.
func (a *App) LedgerAdapterWithIO(out io.Writer, in io.Reader) *cliadapter.LedgerAdapter {
	loc, err := a.Config.Location()
	if err != nil {
		loc = nil
	}
	return cliadapter.NewLedgerAdapter(a.Ledger, out, in, loc)
}

// DB exposes the underlying connection for developer tooling.
func (a *App) DB() *sql.DB {
	return a.db
}

// Close flushes the logger and closes the database.
func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.db.Close()
}

// RestoreArchive replays the archive at archivePath into a new database at
// dbPath. The target must not already hold a ledger. A failed replay removes
// the file it created. Returns the number of stays restored.
func RestoreArchive(ctx context.Context, archivePath, dbPath string) (int, error) {
	if _, err := os.Stat(dbPath); err == nil {
		return 0, fmt.Errorf("%s already exists; restore into a new file", dbPath)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	database, err := db.OpenBare(dbPath)
	if err != nil {
		return 0, err
	}

	restored, err := sqlite.Restore(ctx, database, f)
	if err != nil {
		database.Close()
		removeDatabaseFiles(dbPath)
		return 0, err
	}

	if err := database.Close(); err != nil {
		return 0, fmt.Errorf("failed to close restored database: %w", err)
	}
	return restored, nil
}

// removeDatabaseFiles deletes a SQLite file and its sidecar journals.
func removeDatabaseFiles(path string) {
	for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
		os.Remove(path + suffix)
	}
}
