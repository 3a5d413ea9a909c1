package config

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/copier"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/progress"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/report"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Workers is the number of concurrent copy workers
	Workers int

	// BufferSize is the per-copy transfer buffer in bytes
	BufferSize int

	// RateLimit is the maximum number of tasks started per second (0 for unlimited)
	RateLimit int

	// MaxDepth is the maximum directory depth to descend (-1 for unlimited)
	MaxDepth int

	// IgnorePatterns is a list of patterns excluded from the copy
	IgnorePatterns []string

	// Output specifies the summary format (text, json, or yaml)
	Output string

	// OutputFile is the path to write the summary (empty for stdout)
	OutputFile string

	// NoProgress disables the live progress line
	NoProgress bool

	// ProgressStyle selects how the progress line is drawn (bar or simple)
	ProgressStyle string

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int

	// ConfigFile is the config file that was read, if any
	ConfigFile string
}

// RegisterFlags defines every configuration flag on fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.IntP(KeyWorkers, "w", runtime.NumCPU(), "number of concurrent workers")
	fs.IntP(KeyBufferSize, "b", copier.DefaultBufferSize, "copy buffer size in bytes")
	fs.IntP(KeyRateLimit, "r", 0, "maximum tasks started per second (0 for unlimited)")
	fs.IntP(KeyMaxDepth, "d", copier.UnlimitedDepth, "maximum directory depth (-1 for unlimited)")
	fs.StringSliceP(KeyIgnore, "i", nil, "patterns to ignore (repeatable or comma-separated)")
	fs.StringP(KeyOutput, "o", DefaultOutput, "summary format: text|json|yaml")
	fs.String(KeyOutputFile, "", "write the summary to a file instead of stdout")
	fs.Bool(KeyNoProgress, false, "disable the progress line")
	fs.String(KeyProgressStyle, DefaultProgressStyle, "progress rendering: bar|simple")
	fs.Bool(KeyNoColor, false, "disable colored output")
	fs.CountP(KeyVerbose, "v", "increase verbosity (-v debug, -vv trace)")
	fs.String(KeyConfig, "", "config file (yaml, toml, or json)")
}

// Load reads configuration from defaults, an optional config file,
// environment variables, and flags, in increasing order of precedence.
// flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyBufferSize, copier.DefaultBufferSize)
	v.SetDefault(KeyRateLimit, 0)
	v.SetDefault(KeyMaxDepth, copier.UnlimitedDepth)
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyNoProgress, false)
	v.SetDefault(KeyProgressStyle, DefaultProgressStyle)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyVerbose, 0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	verbose, err := parseVerbose(v.GetString(KeyVerbose))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Workers:        v.GetInt(KeyWorkers),
		BufferSize:     v.GetInt(KeyBufferSize),
		RateLimit:      v.GetInt(KeyRateLimit),
		MaxDepth:       v.GetInt(KeyMaxDepth),
		IgnorePatterns: splitPatterns(v.Get(KeyIgnore)),
		Output:         v.GetString(KeyOutput),
		OutputFile:     v.GetString(KeyOutputFile),
		NoProgress:     v.GetBool(KeyNoProgress),
		ProgressStyle:  v.GetString(KeyProgressStyle),
		NoColor:        v.GetBool(KeyNoColor),
		Verbose:        verbose,
		ConfigFile:     v.ConfigFileUsed(),
	}

	// Zero means one worker per core
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// parseVerbose accepts either a count ("2") or a run of v's ("vv").
func parseVerbose(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if strings.Trim(s, "v") != "" {
		return 0, fmt.Errorf("invalid verbosity %q: use a number or a run of v's", s)
	}
	return len(s), nil
}

// splitPatterns normalizes ignore patterns from a comma-separated env
// value, a flag slice, or a config file list.
func splitPatterns(raw interface{}) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = strings.Split(val, ",")
	case []string:
		for _, s := range val {
			parts = append(parts, strings.Split(s, ",")...)
		}
	case []interface{}:
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
	}

	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	return patterns
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if c.Workers < 0 {
		return errors.New("workers count must be positive")
	}
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	if c.MaxDepth < copier.UnlimitedDepth {
		return errors.New("max depth must be -1 (unlimited) or positive")
	}

	if _, err := report.ParseFormat(c.Output); err != nil {
		return fmt.Errorf("invalid output format: must be one of %v", report.Formats)
	}

	if _, err := progress.ParseStyle(c.ProgressStyle); err != nil {
		return fmt.Errorf("invalid progress style: must be one of %v", progress.Styles)
	}

	if c.BufferSize < 0 {
		return errors.New("buffer size must be positive")
	}
	if c.BufferSize < copier.MinBufferSize {
		return fmt.Errorf("buffer size must be at least %d bytes", copier.MinBufferSize)
	}

	if c.RateLimit < 0 {
		return errors.New("rate limit must be non-negative")
	}

	for _, p := range c.IgnorePatterns {
		if err := copier.ValidatePattern(p); err != nil {
			return fmt.Errorf("invalid ignore pattern: %w", err)
		}
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Workers: %d, BufferSize: %d, RateLimit: %d, MaxDepth: %d, "+
			"Output: %s, OutputFile: %s, NoProgress: %v, ProgressStyle: %s, NoColor: %v, "+
			"Verbose: %d, IgnorePatterns: %v, ConfigFile: %s}",
		c.Workers, c.BufferSize, c.RateLimit, c.MaxDepth,
		c.Output, c.OutputFile, c.NoProgress, c.ProgressStyle, c.NoColor,
		c.Verbose, c.IgnorePatterns, c.ConfigFile,
	)
}
