package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	return Config{
		Workers:        runtime.NumCPU(),
		BufferSize:     4096,
		MaxDepth:       -1,
		IgnorePatterns: []string{},
		Output:         "text",
		ProgressStyle:  "bar",
	}
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "default configuration",
			expected: func(*Config) {},
		},
		{
			name: "configuration from environment variables",
			envVars: map[string]string{
				"TREECOPY_WORKERS":     "4",
				"TREECOPY_MAX_DEPTH":   "10",
				"TREECOPY_IGNORE":      "node_modules,.git,*.tmp",
				"TREECOPY_OUTPUT":      "json",
				"TREECOPY_OUTPUT_FILE": "summary.json",
				"TREECOPY_RATE_LIMIT":  "100",
				"TREECOPY_BUFFER_SIZE": "8192",
				"TREECOPY_NO_PROGRESS": "true",
				"TREECOPY_NO_COLOR":    "true",
				"TREECOPY_VERBOSE":     "vv",

				"TREECOPY_PROGRESS_STYLE": "simple",
			},
			expected: func(c *Config) {
				c.Workers = 4
				c.MaxDepth = 10
				c.IgnorePatterns = []string{"node_modules", ".git", "*.tmp"}
				c.Output = "json"
				c.OutputFile = "summary.json"
				c.RateLimit = 100
				c.BufferSize = 8192
				c.NoProgress = true
				c.NoColor = true
				c.Verbose = 2
				c.ProgressStyle = "simple"
			},
		},
		{
			name:    "invalid workers count - negative",
			envVars: map[string]string{"TREECOPY_WORKERS": "-1"},
			wantErr: true,
			errMsg:  "workers count must be positive",
		},
		{
			name:     "zero workers defaults to CPU count",
			envVars:  map[string]string{"TREECOPY_WORKERS": "0"},
			expected: func(*Config) {},
		},
		{
			name:    "maximum workers limit",
			envVars: map[string]string{"TREECOPY_WORKERS": "1000000"},
			wantErr: true,
			errMsg:  "workers count cannot exceed system CPU count * 16",
		},
		{
			name:    "invalid output format",
			envVars: map[string]string{"TREECOPY_OUTPUT": "tree"},
			wantErr: true,
			errMsg:  "invalid output format: must be one of [text json yaml]",
		},
		{
			name:    "invalid progress style",
			envVars: map[string]string{"TREECOPY_PROGRESS_STYLE": "spinner"},
			wantErr: true,
			errMsg:  "invalid progress style: must be one of [bar simple]",
		},
		{
			name:    "invalid buffer size - too small",
			envVars: map[string]string{"TREECOPY_BUFFER_SIZE": "63"},
			wantErr: true,
			errMsg:  "buffer size must be at least 64 bytes",
		},
		{
			name:    "invalid max depth",
			envVars: map[string]string{"TREECOPY_MAX_DEPTH": "-2"},
			wantErr: true,
			errMsg:  "max depth must be -1 (unlimited) or positive",
		},
		{
			name:    "invalid rate limit",
			envVars: map[string]string{"TREECOPY_RATE_LIMIT": "-1"},
			wantErr: true,
			errMsg:  "rate limit must be non-negative",
		},
		{
			name:    "invalid ignore pattern",
			envVars: map[string]string{"TREECOPY_IGNORE": "[abc"},
			wantErr: true,
			errMsg:  "invalid ignore pattern",
		},
		{
			name:     "ignore patterns with spaces",
			envVars:  map[string]string{"TREECOPY_IGNORE": "node_modules, .git, ,*.tmp"},
			expected: func(c *Config) { c.IgnorePatterns = []string{"node_modules", ".git", "*.tmp"} },
		},
		{
			name:     "numeric verbosity",
			envVars:  map[string]string{"TREECOPY_VERBOSE": "3"},
			expected: func(c *Config) { c.Verbose = 3 },
		},
		{
			name:    "invalid verbosity",
			envVars: map[string]string{"TREECOPY_VERBOSE": "loud"},
			wantErr: true,
			errMsg:  "invalid verbosity",
		},
		{
			name: "boolean parsing - numeric values",
			envVars: map[string]string{
				"TREECOPY_NO_PROGRESS": "1",
				"TREECOPY_NO_COLOR":    "0",
			},
			expected: func(c *Config) { c.NoProgress = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load(nil)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			want := defaults()
			tt.expected(&want)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoadFromFlags(t *testing.T) {
	t.Setenv("TREECOPY_WORKERS", "2")
	t.Setenv("TREECOPY_OUTPUT", "yaml")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"-w", "3",
		"-b", "1024",
		"-i", ".git", "-i", "*.log,*.tmp",
		"-vv",
		"--no-color",
		"--progress-style", "simple",
	}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Workers, "flag overrides env")
	assert.Equal(t, "yaml", cfg.Output, "env applies when flag unset")
	assert.Equal(t, 1024, cfg.BufferSize)
	assert.Equal(t, []string{".git", "*.log", "*.tmp"}, cfg.IgnorePatterns)
	assert.Equal(t, 2, cfg.Verbose)
	assert.True(t, cfg.NoColor)
	assert.False(t, cfg.NoProgress)
	assert.Equal(t, "simple", cfg.ProgressStyle)
	assert.Equal(t, -1, cfg.MaxDepth)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "treecopy.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"workers: 5\n"+
			"buffer-size: 65536\n"+
			"output: json\n"+
			"ignore:\n"+
			"  - .git\n"+
			"  - \"*.tmp\"\n",
	), 0o644))

	t.Run("file values", func(t *testing.T) {
		t.Setenv("TREECOPY_CONFIG", file)

		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Workers)
		assert.Equal(t, 65536, cfg.BufferSize)
		assert.Equal(t, "json", cfg.Output)
		assert.Equal(t, []string{".git", "*.tmp"}, cfg.IgnorePatterns)
		assert.Equal(t, file, cfg.ConfigFile)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("TREECOPY_CONFIG", file)
		t.Setenv("TREECOPY_WORKERS", "1")

		cfg, err := Load(nil)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Workers)
		assert.Equal(t, 65536, cfg.BufferSize)
	})

	t.Run("flag selects file", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		RegisterFlags(fs)
		require.NoError(t, fs.Parse([]string{"--config", file, "-o", "text"}))

		cfg, err := Load(fs)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Workers)
		assert.Equal(t, "text", cfg.Output)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("TREECOPY_CONFIG", filepath.Join(dir, "missing.yaml"))

		_, err := Load(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestValidateConfig(t *testing.T) {
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid configuration",
			mutate: func(c *Config) { c.Workers = 4; c.MaxDepth = 10; c.Output = "json" },
		},
		{
			name:    "invalid workers count - negative",
			mutate:  func(c *Config) { c.Workers = -1 },
			wantErr: true,
			errMsg:  "workers count must be positive",
		},
		{
			name:    "invalid workers count - exceeds max",
			mutate:  func(c *Config) { c.Workers = maxWorkers + 1 },
			wantErr: true,
			errMsg:  "workers count cannot exceed",
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output = "invalid" },
			wantErr: true,
			errMsg:  "invalid output format",
		},
		{
			name:   "simple progress style",
			mutate: func(c *Config) { c.ProgressStyle = "simple" },
		},
		{
			name:    "invalid progress style",
			mutate:  func(c *Config) { c.ProgressStyle = "" },
			wantErr: true,
			errMsg:  "invalid progress style",
		},
		{
			name:    "invalid buffer size - negative",
			mutate:  func(c *Config) { c.BufferSize = -1 },
			wantErr: true,
			errMsg:  "buffer size must be positive",
		},
		{
			name:   "minimum buffer size",
			mutate: func(c *Config) { c.BufferSize = 64 },
		},
		{
			name:    "invalid max depth",
			mutate:  func(c *Config) { c.MaxDepth = -2 },
			wantErr: true,
			errMsg:  "max depth must be -1 (unlimited) or positive",
		},
		{
			name:   "max depth zero copies only the root",
			mutate: func(c *Config) { c.MaxDepth = 0 },
		},
		{
			name:   "any verbosity level",
			mutate: func(c *Config) { c.Verbose = 4 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseVerbose(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"2", 2, false},
		{"v", 1, false},
		{"vvv", 3, false},
		{"vx", 0, true},
	}
	for _, tt := range tests {
		got, err := parseVerbose(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
