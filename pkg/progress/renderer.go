package progress

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

type renderer interface {
	render(Status, string, Statistics) string
}

// paint applies c unless coloring is disabled for this renderer.
func paint(noColor bool, c *color.Color, s string) string {
	if noColor {
		return s
	}
	return c.Sprint(s)
}

var (
	barColor    = color.New(color.FgGreen)
	failedColor = color.New(color.FgRed)
	itemColor   = color.New(color.FgCyan)
)

type barRenderer struct {
	width     int
	noColor   bool
	showStats bool
}

func (r *barRenderer) render(status Status, message string, stats Statistics) string {
	var output strings.Builder

	if message != "" {
		output.WriteString(message)
		output.WriteString(" ")
	}

	barWidth := r.width / 3
	if barWidth < 10 {
		barWidth = 10
	}

	filled := int(float64(barWidth) * stats.Percentage / 100)
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-filled-1)
	}

	output.WriteString("[")
	output.WriteString(paint(r.noColor, barColor, bar))
	output.WriteString("]")
	fmt.Fprintf(&output, " %3.0f%% %d/%d files", stats.Percentage, status.Done, status.Total)

	if status.Failed > 0 {
		output.WriteString(" ")
		output.WriteString(paint(r.noColor, failedColor, fmt.Sprintf("(%d failed)", status.Failed)))
	}

	fmt.Fprintf(&output, " | %s", humanize.IBytes(uint64(status.Bytes)))

	if r.showStats {
		fmt.Fprintf(&output, " | %s/s | %s",
			humanize.IBytes(uint64(stats.ByteRate)),
			formatDuration(stats.Elapsed))
	}

	if status.CurrentItem != "" {
		output.WriteString(" ")
		output.WriteString(paint(r.noColor, itemColor, filepath.Base(status.CurrentItem)))
	}

	return truncate(output.String(), r.width, r.noColor)
}

type simpleRenderer struct {
	noColor   bool
	showStats bool
}

func (r *simpleRenderer) render(status Status, message string, stats Statistics) string {
	var output strings.Builder

	fmt.Fprintf(&output, "%s (%.0f%%) %d copied", message, stats.Percentage, status.Done)
	if status.Failed > 0 {
		output.WriteString(", ")
		output.WriteString(paint(r.noColor, failedColor, fmt.Sprintf("%d failed", status.Failed)))
	}
	fmt.Fprintf(&output, ", %s", humanize.IBytes(uint64(status.Bytes)))

	if r.showStats {
		fmt.Fprintf(&output, " | %.1f files/s | %s", stats.ItemRate, formatDuration(stats.Elapsed))
	}

	return output.String()
}

// truncate keeps plain lines within width so a carriage return can
// overwrite them. Colored lines are left alone since escape codes do
// not occupy columns.
func truncate(s string, width int, noColor bool) string {
	if !noColor || width <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}
