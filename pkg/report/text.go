package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/copier"
)

func (f *formatter) formatText(result copier.Result) string {
	var b strings.Builder

	headline := fmt.Sprintf("Total number of files copied: %d", result.FilesCopied)
	elapsed := fmt.Sprintf("Elapsed time: %s", result.Duration.Round(time.Millisecond))
	if f.config.WithColors {
		c := color.New(color.FgGreen, color.Bold)
		if result.FilesFailed > 0 {
			c = color.New(color.FgYellow, color.Bold)
		}
		headline = c.Sprint(headline)
	}
	b.WriteString(headline + "\n")
	b.WriteString(elapsed + "\n")

	b.WriteString("\nSummary:\n")
	fmt.Fprintf(&b, "  Source:              %s\n", result.Source)
	fmt.Fprintf(&b, "  Destination:         %s\n", result.Destination)
	fmt.Fprintf(&b, "  Files found:         %d\n", result.FilesFound)
	fmt.Fprintf(&b, "  Files failed:        %d\n", result.FilesFailed)
	fmt.Fprintf(&b, "  Directories created: %d\n", result.DirectoriesCreated)
	fmt.Fprintf(&b, "  Bytes copied:        %s\n", humanize.IBytes(uint64(result.BytesCopied)))
	fmt.Fprintf(&b, "  Skipped entries:     %d\n", result.SkippedEntries)

	if len(result.Errors) > 0 {
		title := "Errors:"
		if f.config.WithColors {
			title = color.New(color.FgRed, color.Bold).Sprint(title)
		}
		b.WriteString("\n" + title + "\n")
		for _, err := range result.Errors {
			fmt.Fprintf(&b, "  - %v\n", err)
		}
	}

	return b.String()
}
