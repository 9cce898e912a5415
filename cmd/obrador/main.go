package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"obrador/internal/config"
	"obrador/internal/metrics"
	"obrador/internal/notify"
	"obrador/internal/report"
	"obrador/internal/scheduler"
	"obrador/internal/storage"
	"obrador/internal/store"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"obrador.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Daemon struct{} `cmd:"" help:"Run the store with the reminder scheduler until interrupted"`

	Export struct {
		Output string `short:"o" help:"Output file path (defaults to <business>_backup.json)"`
	} `cmd:"" help:"Export the full state document as JSON"`

	Import struct {
		File string `arg:"" help:"Snapshot file to merge into the current state"`
	} `cmd:"" help:"Import a previously exported snapshot"`

	Report struct {
		HTML bool `help:"Render the report as HTML instead of Markdown"`
	} `cmd:"" help:"Print a business status summary"`

	Reset struct {
		Yes bool `help:"Confirm the irreversible reset"`
	} `cmd:"" help:"Erase all stored state and restore defaults"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg.Logging, CLI.Verbose))

	switch kctx.Command() {
	case "daemon":
		if err := runDaemon(cfg); err != nil {
			slog.Error("Daemon failed", "error", err)
			os.Exit(1)
		}
	case "export":
		if err := runExport(cfg, CLI.Export.Output); err != nil {
			slog.Error("Export failed", "error", err)
			os.Exit(1)
		}
	case "import <file>":
		if err := runImport(cfg, CLI.Import.File); err != nil {
			slog.Error("Import failed", "error", err)
			os.Exit(1)
		}
	case "report":
		if err := runReport(cfg, CLI.Report.HTML); err != nil {
			slog.Error("Report failed", "error", err)
			os.Exit(1)
		}
	case "reset":
		if err := runReset(cfg, CLI.Reset.Yes); err != nil {
			slog.Error("Reset failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration written", "path", CLI.Config)
	}
}

// openStore builds the configured slot, loads the document and returns the
// ready store. The caller owns Close.
func openStore(ctx context.Context, cfg *config.Config, opts ...store.Option) (*store.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	var slot storage.Slot
	var err error
	switch cfg.Backend {
	case "sqlite":
		slot, err = storage.NewSQLiteSlot(filepath.Join(cfg.DataDir, "obrador.db"), "app")
	default:
		slot, err = storage.NewFileSlot(filepath.Join(cfg.DataDir, "state.json"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
	}

	st := store.New(slot, opts...)
	st.Load(ctx)
	return st, nil
}

func runDaemon(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var storeOpts []store.Option
	var schedOpts []scheduler.Option
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		rec := metrics.NewPrometheusRecorder(reg)
		storeOpts = append(storeOpts, store.WithRecorder(rec))
		schedOpts = append(schedOpts, scheduler.WithRecorder(rec))
		go serveMetrics(ctx, cfg.Metrics.Listen, reg)
	}

	st, err := openStore(ctx, cfg, storeOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Warn("Failed to close store", "error", err)
		}
	}()

	var watcher *storage.SlotWatcher
	if cfg.Backend == "file" {
		watcher, err = newExternalChangeWatcher(cfg, st)
		if err != nil {
			slog.Warn("State file watching unavailable", "error", err)
		} else if err := watcher.Start(ctx); err != nil {
			slog.Warn("Failed to start state file watcher", "error", err)
			watcher = nil
		}
	}

	if !cfg.Scheduler.SchedulerEnabled() {
		slog.Info("Reminder scheduler disabled, waiting for shutdown signal")
		<-ctx.Done()
		return stopWatcher(watcher)
	}

	if cfg.Scheduler.CheckInterval > 0 {
		schedOpts = append(schedOpts, scheduler.WithInterval(cfg.Scheduler.CheckInterval))
	}
	sched := scheduler.New(st, notify.LogNotifier{}, schedOpts...)

	errChan := make(chan error, 1)
	go func() {
		errChan <- sched.Start(ctx)
	}()

	slog.Info("Daemon started, waiting for shutdown signal...")

	select {
	case err := <-errChan:
		if err != nil {
			_ = stopWatcher(watcher)
			return fmt.Errorf("scheduler error: %w", err)
		}
		<-ctx.Done()
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := sched.Stop(stopCtx); err != nil {
		_ = stopWatcher(watcher)
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	if err := stopWatcher(watcher); err != nil {
		return err
	}

	slog.Info("Daemon stopped successfully")
	return nil
}

// newExternalChangeWatcher warns when the state file changes outside this
// process. Writes made by the store itself show up as events too, so changes
// shortly after our own save are ignored.
func newExternalChangeWatcher(cfg *config.Config, st *store.Store) (*storage.SlotWatcher, error) {
	path := filepath.Join(cfg.DataDir, "state.json")
	return storage.NewSlotWatcher(path, func(op fsnotify.Op) {
		if last := st.LastSaved(); last != nil && time.Since(*last) < 2*time.Second {
			return
		}
		slog.Warn("State file modified outside this process; external changes will be overwritten on the next save",
			"path", path, "op", op.String())
	})
}

func stopWatcher(w *storage.SlotWatcher) error {
	if w == nil {
		return nil
	}
	return w.Stop()
}

func serveMetrics(ctx context.Context, listen string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: listen, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Metrics endpoint listening", "addr", listen)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Metrics endpoint failed", "error", err)
	}
}

func runExport(cfg *config.Config, output string) error {
	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	data, err := st.ExportSnapshot()
	if err != nil {
		return err
	}
	if output == "" {
		output = st.BackupFileName()
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	slog.Info("Snapshot exported", "path", output)
	return nil
}

func runImport(cfg *config.Config, file string) error {
	ctx := context.Background()
	blob, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ImportSnapshot(ctx, blob); err != nil {
		return err
	}
	slog.Info("Snapshot imported", "path", file)
	return nil
}

func runReport(cfg *config.Config, asHTML bool) error {
	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	summary := report.Build(st.State(), time.Now())
	out := summary.Markdown()
	if asHTML {
		out, err = summary.HTML()
		if err != nil {
			return err
		}
	}
	fmt.Print(out)
	return nil
}

func runReset(cfg *config.Config, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("reset erases all stored data; re-run with --yes to confirm")
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ResetAll(ctx); err != nil {
		return err
	}
	slog.Info("All state erased")
	return nil
}
