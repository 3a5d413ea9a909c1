package progress

import (
	"fmt"
	"time"
)

// Style represents the type of progress visualization
type Style string

const (
	// StyleBar shows a progress bar with percentage
	StyleBar Style = "bar"

	// StyleSimple shows a single line of counters
	StyleSimple Style = "simple"
)

// Styles lists every supported style
var Styles = []Style{StyleBar, StyleSimple}

// ParseStyle validates a style name
func ParseStyle(s string) (Style, error) {
	for _, style := range Styles {
		if string(style) == s {
			return style, nil
		}
	}
	return "", fmt.Errorf("unsupported progress style: %q", s)
}

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// Width is the maximum width for the progress bar (0 = auto-detect)
	Width int

	// ShowStats adds throughput and elapsed time
	ShowStats bool

	// NoColor disables colored output
	NoColor bool

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration

	// HideAfterComplete clears the line once the operation finishes
	HideAfterComplete bool
}

// Status is the state of the operation being displayed
type Status struct {
	// Done is the number of finished items
	Done int64

	// Total is the number of items discovered so far. It may grow while
	// the operation runs.
	Total int64

	// Failed is the number of items that could not be processed
	Failed int64

	// Bytes is the number of bytes processed
	Bytes int64

	// CurrentItem is the item most recently started
	CurrentItem string
}

// Source returns the latest Status. It is polled on every refresh.
type Source func() Status

// Statistics are derived from a Status and the elapsed time
type Statistics struct {
	Elapsed    time.Duration
	Percentage float64
	ItemRate   float64 // items per second
	ByteRate   float64 // bytes per second
}

// Progress defines the interface for progress visualization
type Progress interface {
	// Start begins rendering, polling source on every refresh
	Start(message string, source Source)

	// Complete renders a final successful state
	Complete(message string)

	// Error renders a final failed state
	Error(message string)

	// Stop ends rendering and clears the line. It is safe to call more than once.
	Stop()

	// IsSupportedTerminal reports whether the writer is an interactive terminal
	IsSupportedTerminal() bool
}
