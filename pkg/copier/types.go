package copier

import (
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
)

const (
	// DefaultBufferSize is the copy buffer size used when Config.BufferSize is zero
	DefaultBufferSize = 4096

	// MinBufferSize is the smallest accepted copy buffer
	MinBufferSize = 64

	// UnlimitedDepth disables the depth limit
	UnlimitedDepth = -1
)

// Config contains copier configuration options
type Config struct {
	// BufferSize is the size of the intermediate buffer for each file copy
	BufferSize int

	// MaxDepth is the deepest subdirectory level copied, the source root
	// being level 0 (-1 for unlimited)
	MaxDepth int

	// IgnorePatterns are matched against entries relative to the source root
	IgnorePatterns []string
}

// DefaultConfig returns a configuration that copies the whole tree. The
// zero Config copies only the entries of the source root.
func DefaultConfig() Config {
	return Config{
		BufferSize: DefaultBufferSize,
		MaxDepth:   UnlimitedDepth,
	}
}

// Result describes one finished copy of a source tree
type Result struct {
	Source             string
	Destination        string
	FilesFound         int64
	FilesCopied        int64
	FilesFailed        int64
	DirectoriesCreated int64
	BytesCopied        int64
	SkippedEntries     int64
	Errors             []error
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// Err combines every error recorded during the run, or returns nil.
func (r Result) Err() error {
	return multierr.Combine(r.Errors...)
}

// Progress is a live view of a running copy
type Progress struct {
	CurrentPath        string
	FilesFound         int64
	FilesCopied        int64
	FilesFailed        int64
	DirectoriesCreated int64
	BytesCopied        int64
	StartTime          time.Time
}

// Stats holds the atomic counters shared by every task of a job
type Stats struct {
	filesFound         atomic.Int64
	filesCopied        atomic.Int64
	filesFailed        atomic.Int64
	directoriesCreated atomic.Int64
	bytesCopied        atomic.Int64
	skippedEntries     atomic.Int64
	currentPath        atomic.Value
}

func (s *Stats) AddFilesFound(delta int64) int64 {
	return s.filesFound.Add(delta)
}

func (s *Stats) AddFilesCopied(delta int64) int64 {
	return s.filesCopied.Add(delta)
}

func (s *Stats) AddFilesFailed(delta int64) int64 {
	return s.filesFailed.Add(delta)
}

func (s *Stats) AddDirectoriesCreated(delta int64) int64 {
	return s.directoriesCreated.Add(delta)
}

func (s *Stats) AddBytesCopied(delta int64) int64 {
	return s.bytesCopied.Add(delta)
}

func (s *Stats) AddSkippedEntries(delta int64) int64 {
	return s.skippedEntries.Add(delta)
}

func (s *Stats) SetCurrentPath(path string) {
	s.currentPath.Store(path)
}

func (s *Stats) GetFilesFound() int64 {
	return s.filesFound.Load()
}

func (s *Stats) GetFilesCopied() int64 {
	return s.filesCopied.Load()
}

func (s *Stats) GetFilesFailed() int64 {
	return s.filesFailed.Load()
}

func (s *Stats) GetDirectoriesCreated() int64 {
	return s.directoriesCreated.Load()
}

func (s *Stats) GetBytesCopied() int64 {
	return s.bytesCopied.Load()
}

func (s *Stats) GetSkippedEntries() int64 {
	return s.skippedEntries.Load()
}

func (s *Stats) GetCurrentPath() string {
	path, _ := s.currentPath.Load().(string)
	return path
}
