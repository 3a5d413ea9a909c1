/*
Package report formats the summary of a finished copy as human readable
text, JSON, or YAML.

Basic usage:

	formatter := report.NewFormatter(report.Config{
		Format:     report.FormatText,
		WithColors: true,
	}, log)

	summary, err := formatter.Format(result)
*/
package report

import (
	"fmt"
	"time"

	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/copier"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/logger"
)

// Format represents the output format type
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// Config holds formatter configuration
type Config struct {
	Format     Format
	WithColors bool
}

// Formatter renders a copy result
type Formatter interface {
	Format(copier.Result) (string, error)
}

type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	if log == nil {
		log = logger.Nop()
	}
	return &formatter{
		config: config,
		log:    log.Named("report"),
	}
}

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %q", s)
}

func (f *formatter) Format(result copier.Result) (string, error) {
	f.log.WithFields(logger.Fields{
		"format":     f.config.Format,
		"withColors": f.config.WithColors,
	}).Debug("Formatting summary")

	switch f.config.Format {
	case FormatText, "":
		return f.formatText(result), nil
	case FormatJSON:
		return f.formatJSON(result)
	case FormatYAML:
		return f.formatYAML(result)
	default:
		msg := fmt.Sprintf("unsupported output format: %s", f.config.Format)
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}
}

// summary is the structured rendering shared by JSON and YAML.
type summary struct {
	Source             string    `json:"source" yaml:"source"`
	Destination        string    `json:"destination" yaml:"destination"`
	FilesFound         int64     `json:"filesFound" yaml:"filesFound"`
	FilesCopied        int64     `json:"filesCopied" yaml:"filesCopied"`
	FilesFailed        int64     `json:"filesFailed" yaml:"filesFailed"`
	DirectoriesCreated int64     `json:"directoriesCreated" yaml:"directoriesCreated"`
	BytesCopied        int64     `json:"bytesCopied" yaml:"bytesCopied"`
	SkippedEntries     int64     `json:"skippedEntries" yaml:"skippedEntries"`
	StartTime          time.Time `json:"startTime" yaml:"startTime"`
	EndTime            time.Time `json:"endTime" yaml:"endTime"`
	Duration           string    `json:"duration" yaml:"duration"`
	Errors             []string  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newSummary(result copier.Result) *summary {
	s := &summary{
		Source:             result.Source,
		Destination:        result.Destination,
		FilesFound:         result.FilesFound,
		FilesCopied:        result.FilesCopied,
		FilesFailed:        result.FilesFailed,
		DirectoriesCreated: result.DirectoriesCreated,
		BytesCopied:        result.BytesCopied,
		SkippedEntries:     result.SkippedEntries,
		StartTime:          result.StartTime,
		EndTime:            result.EndTime,
		Duration:           result.Duration.String(),
	}
	for _, err := range result.Errors {
		s.Errors = append(s.Errors, err.Error())
	}
	return s
}
