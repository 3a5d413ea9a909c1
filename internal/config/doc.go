// Package config provides configuration management for treecopy. Values
// come from defaults, an optional config file, TREECOPY_ environment
// variables, and command-line flags, later sources overriding earlier ones.
//
// # Loading
//
//	fs := pflag.NewFlagSet("treecopy", pflag.ContinueOnError)
//	config.RegisterFlags(fs)
//	_ = fs.Parse(os.Args[1:])
//
//	cfg, err := config.Load(fs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Environment Variables
//
//	TREECOPY_WORKERS      Number of concurrent workers (default: CPU cores)
//	TREECOPY_BUFFER_SIZE  Copy buffer size in bytes (default: 4096)
//	TREECOPY_RATE_LIMIT   Tasks started per second (0 for unlimited)
//	TREECOPY_MAX_DEPTH    Maximum directory depth (-1 for unlimited)
//	TREECOPY_IGNORE       Comma-separated ignore patterns
//	TREECOPY_OUTPUT       Summary format: text|json|yaml
//	TREECOPY_OUTPUT_FILE  Summary file path (empty for stdout)
//	TREECOPY_NO_PROGRESS  Disable the progress line (true/false)
//	TREECOPY_PROGRESS_STYLE  Progress rendering: bar|simple
//	TREECOPY_NO_COLOR     Disable colored output (true/false)
//	TREECOPY_VERBOSE      Verbosity level (a number or a run of v's)
//	TREECOPY_CONFIG       Config file path
//
// Config files use the flag names as keys:
//
//	workers: 8
//	buffer-size: 65536
//	ignore:
//	  - .git
//	  - "*.tmp"
//
// # Validation
//
//   - Workers must be positive and not exceed CPU cores * 16 (0 means CPU cores)
//   - MaxDepth must be -1 (unlimited) or positive
//   - Output must be one of: text, json, yaml
//   - ProgressStyle must be one of: bar, simple
//   - BufferSize must be at least 64 bytes
//   - RateLimit must be non-negative
//   - Every ignore pattern must be a valid glob
package config
