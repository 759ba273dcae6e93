package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LennartSch/hembygdsmuseum/internal/api"
	"github.com/LennartSch/hembygdsmuseum/internal/backup"
	"github.com/LennartSch/hembygdsmuseum/internal/config"
	"github.com/LennartSch/hembygdsmuseum/internal/db"
	"github.com/LennartSch/hembygdsmuseum/internal/export"
	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
	"github.com/LennartSch/hembygdsmuseum/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	level  slog.Leveler
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level.Level()
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string, level slog.Level) (func(), error) {
	opts := &slog.HandlerOptions{Level: level}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		level:  level,
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

const usage = `Usage:
  hembygdsmuseum [flags]                    serve the catalogue
  hembygdsmuseum backup [flags]             write one backup and exit
  hembygdsmuseum export [flags] <file.xlsx> write the whole catalogue to a spreadsheet

Flags:
  -d, -db <path>          SQLite database path (default: %s)
  -a, -addr <host:port>   listen address, loopback only (default: %s)
  -b, -backup-dir <dir>   backup directory (default: %s)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Every flag can also be set in the environment or a .env file
(HEMBYGD_DB, HEMBYGD_ADDR, HEMBYGD_BACKUP_DIR, HEMBYGD_LOG, HEMBYGD_LOG_LEVEL,
HEMBYGD_SEED_DEFAULTS, HEMBYGD_REGISTRAR).
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	command := "serve"
	if len(args) > 0 && (args[0] == "backup" || args[0] == "export") {
		command, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("hembygdsmuseum", flag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "")
	fs.StringVar(&cfg.BackupDir, "b", cfg.BackupDir, "")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	defaults := *cfg
	fs.Usage = func() {
		fmt.Fprintf(os.Stdout, usage, defaults.DBPath, defaults.Addr, defaults.BackupDir)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	var exportPath string
	switch {
	case command == "export" && fs.NArg() == 1:
		exportPath = fs.Arg(0)
	case command == "export":
		fmt.Fprintln(os.Stderr, "export needs exactly one output file")
		fs.Usage()
		return 1
	case fs.NArg() > 0:
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if closeLog != nil {
		defer closeLog()
	}

	ctx := context.Background()

	database, err := openCatalogue(ctx, cfg)
	if err != nil {
		slog.Error("failed to open catalogue", "path", cfg.DBPath, "error", err)
		return 1
	}
	defer database.Close()

	switch command {
	case "backup":
		err = runBackup(ctx, database, cfg)
	case "export":
		err = runExport(ctx, database, exportPath)
	default:
		err = serve(database, cfg)
	}
	if err != nil {
		slog.Error(command+" failed", "error", err)
		return 1
	}
	return 0
}

// openCatalogue opens the database file (creating it if absent), applies
// pending migrations and seeds the default vocabulary into an empty
// catalogue.
func openCatalogue(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, err
	}

	version, err := db.SchemaVersion(ctx, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	slog.Info("database ready", "path", cfg.DBPath, "schema_version", version)

	if cfg.SeedDefaults {
		if err := seedDefaults(ctx, database); err != nil {
			database.Close()
			return nil, err
		}
	}
	return database, nil
}

// seedDefaults fills an empty category or location list. Lists the user
// has edited are left alone, so deleted defaults do not come back.
func seedDefaults(ctx context.Context, database *sql.DB) error {
	categories, err := store.ListCategories(ctx, database)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		n, err := store.SeedCategories(ctx, database, model.DefaultCategories)
		if err != nil {
			return err
		}
		slog.Info("default categories added", "count", n)
	}

	locations, err := store.ListLocations(ctx, database)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		n, err := store.SeedLocations(ctx, database, model.DefaultLocations)
		if err != nil {
			return err
		}
		slog.Info("default locations added", "count", n)
	}
	return nil
}

func runBackup(ctx context.Context, database *sql.DB, cfg *config.Config) error {
	b, err := backup.Create(ctx, database, cfg.DBPath, cfg.BackupDir, time.Now())
	if err != nil {
		return err
	}
	slog.Info("backup created", "path", b.Path, "size", b.Size, "checksum", b.Checksum)
	fmt.Println(b.Path)
	return nil
}

func runExport(ctx context.Context, database *sql.DB, path string) error {
	items, err := store.ListItems(ctx, database)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteItems(f, items); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	slog.Info("catalogue exported", "path", path, "items", len(items))
	return nil
}

func serve(database *sql.DB, cfg *config.Config) error {
	// Set up routers.
	apiRouter := api.NewRouter(database, api.Options{DBPath: cfg.DBPath, BackupDir: cfg.BackupDir})
	webRouter, err := web.NewRouter(database, web.Options{
		DBPath:    cfg.DBPath,
		BackupDir: cfg.BackupDir,
		Registrar: cfg.Registrar,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", "http://"+cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	slog.Info("server stopped, closing database")
	return nil
}
