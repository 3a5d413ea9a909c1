/*
Package copier copies a directory tree by turning it into tasks on a shared
worker pool. Every regular file becomes a copy task and every subdirectory
becomes a walk task that, once a worker runs it, submits the tasks for its
own entries. The tree is therefore expanded one level per dispatch, and the
caller learns that the copy is complete from the pool's Wait.

Basic usage:

	pool, _ := worker.NewPool(worker.Config{Workers: runtime.NumCPU()})
	defer pool.Stop()

	c, err := copier.New(copier.DefaultConfig(), afero.NewOsFs(), pool, log)
	if err != nil {
		return err
	}
	result, err := c.Run("/data/in", "/data/out")

Failures are confined to the directory or file they happen on: they are
logged, recorded in Result.Errors and never stop sibling tasks.
*/
package copier

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/logger"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/worker"
	"github.com/spf13/afero"
)

// Copier schedules tree copies on a worker pool
type Copier struct {
	config  Config
	fs      afero.Fs
	pool    worker.Pool
	log     logger.Logger
	buffers sync.Pool
	current atomic.Pointer[Job]
}

// New validates config and returns a Copier that submits its work to pool.
func New(config Config, fsys afero.Fs, pool worker.Pool, log logger.Logger) (*Copier, error) {
	if config.BufferSize == 0 {
		config.BufferSize = DefaultBufferSize
	}
	if config.BufferSize < MinBufferSize {
		return nil, fmt.Errorf("buffer size must be at least %d bytes", MinBufferSize)
	}
	if config.MaxDepth < UnlimitedDepth {
		return nil, fmt.Errorf("max depth must be -1 (unlimited) or positive")
	}
	for _, pattern := range config.IgnorePatterns {
		if err := ValidatePattern(pattern); err != nil {
			return nil, err
		}
	}
	if pool == nil {
		return nil, fmt.Errorf("worker pool is required")
	}
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if log == nil {
		log = logger.Nop()
	}

	c := &Copier{
		config: config,
		fs:     fsys,
		pool:   pool,
		log:    log.Named("copier"),
	}
	c.buffers.New = func() any {
		buf := make([]byte, c.config.BufferSize)
		return &buf
	}

	return c, nil
}

// Run submits the walk of source as the first task, then blocks until the
// pool is quiescent. The returned error is non-nil only when the
// root directories themselves are unusable; per-entry failures are in
// Result.Errors.
func (c *Copier) Run(source, destination string) (Result, error) {
	job := c.NewJob(source, destination)

	c.log.WithFields(logger.Fields{
		"source":      source,
		"destination": destination,
		"bufferSize":  c.config.BufferSize,
		"maxDepth":    c.config.MaxDepth,
		"ignore":      c.config.IgnorePatterns,
	}).Info("Starting copy operation")

	// The root walk is an ordinary task; its error is read after Wait,
	// which orders it after the task returned.
	var rootErr error
	if err := c.pool.Submit(func() {
		rootErr = job.Walk(source, destination)
	}); err != nil {
		rootErr = job.report(fmt.Errorf("failed to schedule %s: %w", source, err))
	}
	c.pool.Wait()

	result := job.Result()

	c.log.WithFields(logger.Fields{
		"filesCopied": result.FilesCopied,
		"filesFailed": result.FilesFailed,
		"directories": result.DirectoriesCreated,
		"bytes":       result.BytesCopied,
		"skipped":     result.SkippedEntries,
		"errors":      len(result.Errors),
		"duration":    result.Duration,
	}).Info("Copy operation completed")

	if rootErr != nil {
		return result, fmt.Errorf("copy operation failed: %w", rootErr)
	}
	return result, nil
}

// NewJob prepares a copy of source into destination without submitting
// anything. The job becomes the one reported by Progress.
func (c *Copier) NewJob(source, destination string) *Job {
	job := &Job{
		copier:      c,
		source:      filepath.Clean(source),
		destination: filepath.Clean(destination),
		stats:       &Stats{},
		startTime:   time.Now(),
	}
	c.current.Store(job)
	return job
}

// Progress returns the counters of the most recent job.
func (c *Copier) Progress() Progress {
	job := c.current.Load()
	if job == nil {
		return Progress{}
	}

	return Progress{
		CurrentPath:        job.stats.GetCurrentPath(),
		FilesFound:         job.stats.GetFilesFound(),
		FilesCopied:        job.stats.GetFilesCopied(),
		FilesFailed:        job.stats.GetFilesFailed(),
		DirectoriesCreated: job.stats.GetDirectoriesCreated(),
		BytesCopied:        job.stats.GetBytesCopied(),
		StartTime:          job.startTime,
	}
}

// Job is the state shared by every task of one tree copy. Task closures
// capture the job rather than any package level state, so independent jobs
// can share a pool.
type Job struct {
	copier      *Copier
	source      string
	destination string
	stats       *Stats
	startTime   time.Time

	mu     sync.Mutex
	errors []error
}

// Walk copies the entries of the directory src into dst: a copy task is
// submitted for every regular file and a walk task for every subdirectory.
// Directory level failures are reported and returned; nothing is submitted
// for that directory. A dst equal to or below src is rejected.
func (j *Job) Walk(src, dst string) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if within(src, dst) {
		return j.report(&DestinationUnwritableError{Path: dst, Err: ErrInsideSource})
	}
	return j.walk(src, dst, j.depth(src))
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	if absDir, err := filepath.Abs(dir); err == nil {
		dir = absDir
	}
	if absPath, err := filepath.Abs(path); err == nil {
		path = absPath
	}

	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (j *Job) walk(src, dst string, depth int) error {
	log := j.copier.log

	log.WithFields(logger.Fields{
		"source":      src,
		"destination": dst,
		"depth":       depth,
	}).Debug("Walking directory")

	info, err := j.copier.fs.Stat(src)
	if err != nil {
		return j.report(&SourceUnavailableError{Path: src, Err: err})
	}
	if !info.IsDir() {
		return j.report(&SourceUnavailableError{Path: src, Err: ErrNotDirectory})
	}

	created, err := j.ensureDir(dst)
	if err != nil {
		return j.report(&DestinationUnwritableError{Path: dst, Err: err})
	}
	if created {
		j.stats.AddDirectoriesCreated(1)
	}

	entries, err := afero.ReadDir(j.copier.fs, src)
	if err != nil {
		return j.report(&SourceUnavailableError{Path: src, Err: err})
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if pattern, ignored := matchIgnore(j.relative(srcPath), entry.IsDir(), j.copier.config.IgnorePatterns); ignored {
			log.WithFields(logger.Fields{
				"path":    srcPath,
				"pattern": pattern,
			}).Debug("Ignoring path")
			j.stats.AddSkippedEntries(1)
			continue
		}

		switch {
		case entry.Mode().IsRegular():
			j.stats.AddFilesFound(1)
			j.submit(srcPath, func() {
				j.copyFile(srcPath, dstPath)
			})

		case entry.IsDir():
			if maxDepth := j.copier.config.MaxDepth; maxDepth >= 0 && depth >= maxDepth {
				log.WithFields(logger.Fields{
					"path":  srcPath,
					"depth": depth + 1,
				}).Debug("Max depth reached")
				j.stats.AddSkippedEntries(1)
				continue
			}
			j.submit(srcPath, func() {
				_ = j.walk(srcPath, dstPath, depth+1)
			})

		default:
			log.WithFields(logger.Fields{
				"path": srcPath,
				"mode": entry.Mode().String(),
			}).Debug("Skipping non-regular entry")
			j.stats.AddSkippedEntries(1)
		}
	}

	return nil
}

func (j *Job) submit(path string, task worker.Task) {
	if err := j.copier.pool.Submit(task); err != nil {
		j.report(fmt.Errorf("failed to schedule %s: %w", path, err))
	}
}

// ensureDir creates dir and its parents when missing and reports whether
// it had to.
func (j *Job) ensureDir(dir string) (bool, error) {
	info, err := j.copier.fs.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, ErrNotDirectory
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if err := j.copier.fs.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	return true, nil
}

// report logs err, records it on the job and returns it.
func (j *Job) report(err error) error {
	fields := logger.Fields{"error": err}

	var (
		srcErr  *SourceUnavailableError
		dstErr  *DestinationUnwritableError
		openErr *FileOpenError
		copyErr *CopyError
	)
	switch {
	case errors.As(err, &srcErr):
		fields["path"] = srcErr.Path
		fields["kind"] = "source_unavailable"
	case errors.As(err, &dstErr):
		fields["path"] = dstErr.Path
		fields["kind"] = "destination_unwritable"
	case errors.As(err, &openErr):
		fields["path"] = openErr.Path
		fields["side"] = string(openErr.Side)
		fields["kind"] = "file_open"
	case errors.As(err, &copyErr):
		fields["path"] = copyErr.Source
		fields["kind"] = "copy"
	}
	j.copier.log.WithFields(fields).Error("Copy error")

	j.mu.Lock()
	j.errors = append(j.errors, err)
	j.mu.Unlock()

	return err
}

// Result snapshots the job counters and errors.
func (j *Job) Result() Result {
	j.mu.Lock()
	errs := make([]error, len(j.errors))
	copy(errs, j.errors)
	j.mu.Unlock()

	end := time.Now()
	return Result{
		Source:             j.source,
		Destination:        j.destination,
		FilesFound:         j.stats.GetFilesFound(),
		FilesCopied:        j.stats.GetFilesCopied(),
		FilesFailed:        j.stats.GetFilesFailed(),
		DirectoriesCreated: j.stats.GetDirectoriesCreated(),
		BytesCopied:        j.stats.GetBytesCopied(),
		SkippedEntries:     j.stats.GetSkippedEntries(),
		Errors:             errs,
		StartTime:          j.startTime,
		EndTime:            end,
		Duration:           end.Sub(j.startTime),
	}
}

func (j *Job) relative(path string) string {
	rel, err := filepath.Rel(j.source, path)
	if err != nil {
		return path
	}
	return rel
}

// depth is the number of directory levels between the job source and dir.
func (j *Job) depth(dir string) int {
	rel := filepath.ToSlash(j.relative(filepath.Clean(dir)))
	if rel == "." || rel == "" {
		return 0
	}

	depth := 1
	for _, r := range rel {
		if r == '/' {
			depth++
		}
	}
	return depth
}
