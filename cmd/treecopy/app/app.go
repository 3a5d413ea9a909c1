/*
Package app provides the application container for treecopy. It builds the
worker pool, the copier, the progress display and the summary formatter
from a config.Config, runs one copy, and tears everything down.

Usage:

	application, err := app.New(cfg, app.Options{HandleSignals: true})
	if err != nil {
	    return err
	}
	defer application.Shutdown()

	result, err := application.Run(ctx, source, destination)
*/
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/sevvalkasan/multi-threaded-file-copy/internal/config"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/copier"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/logger"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/progress"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/report"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/worker"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Options carries the process level dependencies of an App
type Options struct {
	// Fs is the filesystem copied on. Defaults to the OS filesystem.
	Fs afero.Fs

	// Stdout receives the summary when no output file is configured.
	// Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives log entries. Defaults to os.Stderr.
	Stderr io.Writer

	// Logger overrides the logger built from the config.
	Logger logger.Logger

	// HandleSignals installs SIGINT and SIGTERM handlers for the lifetime
	// of the App.
	HandleSignals bool
}

// App represents the main application container
type App struct {
	config config.Config
	log    logger.Logger
	fs     afero.Fs
	stdout io.Writer

	pool      worker.Pool
	copier    *copier.Copier
	formatter report.Formatter
	progress  progress.Progress

	signals      *signalHandler
	shutdownOnce sync.Once
}

// New creates a new application instance
func New(cfg config.Config, opts Options) (*App, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	a := &App{
		config: cfg,
		fs:     opts.Fs,
		stdout: opts.Stdout,
		log:    opts.Logger,
	}

	if a.log == nil {
		a.log = logger.NewLogger(logger.Config{
			Verbosity: cfg.Verbose,
			Encoding:  logger.EncodingConsole,
			Output:    opts.Stderr,
		})
	}

	if cfg.NoColor {
		color.NoColor = true
	}

	if err := a.initComponents(); err != nil {
		return nil, err
	}

	if opts.HandleSignals {
		a.signals = a.setupSignalHandling()
	}

	a.log.WithFields(logger.Fields{
		"workers":    cfg.Workers,
		"bufferSize": cfg.BufferSize,
		"rateLimit":  cfg.RateLimit,
		"verbose":    cfg.Verbose,
		"configFile": cfg.ConfigFile,
	}).Debug("Application initialized")

	return a, nil
}

// initComponents initializes all application components
func (a *App) initComponents() error {
	pool, err := worker.NewPool(worker.Config{
		Workers:   a.config.Workers,
		RateLimit: a.config.RateLimit,
		Logger:    a.log,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize worker pool: %w", err)
	}
	a.pool = pool

	a.copier, err = copier.New(copier.Config{
		BufferSize:     a.config.BufferSize,
		MaxDepth:       a.config.MaxDepth,
		IgnorePatterns: a.config.IgnorePatterns,
	}, a.fs, a.pool, a.log)
	if err != nil {
		a.pool.Stop()
		return fmt.Errorf("failed to initialize copier: %w", err)
	}

	format, err := report.ParseFormat(a.config.Output)
	if err != nil {
		a.pool.Stop()
		return err
	}
	a.formatter = report.NewFormatter(report.Config{
		Format:     format,
		WithColors: !a.config.NoColor && a.config.OutputFile == "",
	}, a.log)

	if !a.config.NoProgress {
		progressConfig, err := newProgressConfig(a.config)
		if err != nil {
			a.pool.Stop()
			return err
		}
		a.progress = progress.New(progressConfig, a.log)

		// A progress line interleaved with redirected stderr is noise
		if !a.progress.IsSupportedTerminal() {
			a.progress = nil
		}
	}

	return nil
}

// newProgressConfig maps the application configuration onto the progress line
func newProgressConfig(cfg config.Config) (progress.Config, error) {
	style, err := progress.ParseStyle(cfg.ProgressStyle)
	if err != nil {
		return progress.Config{}, err
	}

	return progress.Config{
		Style:             style,
		ShowStats:         true,
		NoColor:           cfg.NoColor,
		RefreshRate:       100 * time.Millisecond,
		HideAfterComplete: true,
	}, nil
}

// Run copies source into destination, then writes the summary. The error
// is non-nil only when the copy could not start at the root or the summary
// could not be written. Failures of individual entries are in the result.
func (a *App) Run(ctx context.Context, source, destination string) (copier.Result, error) {
	var (
		result copier.Result
		runErr error
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.signals != nil {
		a.signals.bind(cancel)
	}

	if a.progress != nil {
		a.progress.Start("Copying", a.progressStatus)
	}

	done := make(chan struct{})
	var g errgroup.Group

	g.Go(func() error {
		defer close(done)
		result, runErr = a.copier.Run(source, destination)
		return runErr
	})

	g.Go(func() error {
		select {
		case <-done:
		case <-ctx.Done():
			a.log.Warn("Interrupted, waiting for scheduled copies to finish")
			<-done
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if a.progress != nil {
			a.progress.Error("Copy failed")
		}
		return result, err
	}

	if a.progress != nil {
		a.progress.Complete("Copy complete")
	}

	if err := a.writeSummary(result); err != nil {
		return result, err
	}

	return result, nil
}

func (a *App) progressStatus() progress.Status {
	p := a.copier.Progress()
	return progress.Status{
		Done:        p.FilesCopied,
		Total:       p.FilesFound,
		Failed:      p.FilesFailed,
		Bytes:       p.BytesCopied,
		CurrentItem: p.CurrentPath,
	}
}

// writeSummary renders the result and writes it to the configured output
func (a *App) writeSummary(result copier.Result) error {
	summary, err := a.formatter.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format summary: %w", err)
	}

	if a.config.OutputFile == "" {
		if _, err := io.WriteString(a.stdout, summary); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(a.config.OutputFile); dir != "." {
		if err := a.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := afero.WriteFile(a.fs, a.config.OutputFile, []byte(summary), 0o644); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
			"path":  a.config.OutputFile,
		}).Error("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"path": a.config.OutputFile,
	}).Info("Summary written")
	return nil
}

// Shutdown stops the progress display and drains the worker pool. It is
// safe to call more than once.
func (a *App) Shutdown() error {
	a.shutdownOnce.Do(func() {
		a.log.Debug("Shutting down")

		if a.signals != nil {
			a.signals.stop()
		}
		if a.progress != nil {
			a.progress.Stop()
		}
		a.pool.Stop()

		stats := a.pool.GetStats()
		a.log.WithFields(logger.Fields{
			"submitted": stats.SubmittedTasks,
			"completed": stats.CompletedTasks,
			"uptime":    stats.Uptime,
		}).Debug("Shutdown complete")

		_ = a.log.Sync()
	})
	return nil
}
