package config

// Keys shared by flags, environment variables, and config files. The
// environment name is the key upper-cased with dashes replaced by
// underscores and prefixed with EnvPrefix.
const (
	KeyWorkers    = "workers"
	KeyBufferSize = "buffer-size"
	KeyRateLimit  = "rate-limit"
	KeyMaxDepth   = "max-depth"
	KeyIgnore     = "ignore"
	KeyOutput     = "output"
	KeyOutputFile = "output-file"
	KeyNoProgress = "no-progress"
	KeyNoColor    = "no-color"
	KeyVerbose    = "verbose"
	KeyConfig     = "config"

	KeyProgressStyle = "progress-style"
)

// EnvPrefix is prepended to every environment variable
const EnvPrefix = "TREECOPY"

// Constants for configuration limits and defaults
const (
	// DefaultOutput is the summary format used when none is given
	DefaultOutput = "text"

	// DefaultProgressStyle is the progress rendering used when none is given
	DefaultProgressStyle = "bar"

	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker
	// count. Copies are I/O bound so the ceiling is well above core count.
	MaxWorkerMultiplier = 16
)
