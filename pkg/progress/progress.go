// Package progress renders a live, single line view of a running copy.
// Rendering is serialized by its own mutex and never touches the worker
// pool's lock; counters are pulled from a Source on every tick.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/logger"
	"golang.org/x/term"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	status    Status
	source    Source
	message   string
	startTime time.Time
	started   bool
	finished  bool

	renderer renderer
	width    int

	mu       sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a progress display writing to stderr
func New(config Config, log logger.Logger) Progress {
	return newProgress(config, log, os.Stderr)
}

func newProgress(config Config, log logger.Logger, w io.Writer) *progress {
	if config.RefreshRate <= 0 {
		config.RefreshRate = 100 * time.Millisecond
	}
	if log == nil {
		log = logger.Nop()
	}

	p := &progress{
		config:   config,
		log:      log.Named("progress"),
		writer:   w,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}

	p.width = p.config.Width
	if p.width == 0 {
		p.width = p.terminalWidth()
	}
	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":     p.config.Style,
		"width":     p.width,
		"showStats": p.config.ShowStats,
		"refresh":   p.config.RefreshRate,
	}).Debug("Created progress display")

	return p
}

func (p *progress) Start(message string, source Source) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	p.message = message
	p.source = source
	p.startTime = time.Now()
	p.started = true

	go p.renderLoop()
}

func (p *progress) Complete(message string) {
	p.finish(message, false)
}

func (p *progress) Error(message string) {
	p.finish(message, true)
}

func (p *progress) finish(message string, failed bool) {
	p.stopLoop()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.source != nil {
		p.status = p.source()
	}
	p.message = message
	p.finished = true

	if failed || !p.config.HideAfterComplete {
		p.render()
		fmt.Fprintln(p.writer)
		return
	}
	p.clearLine()
}

func (p *progress) Stop() {
	p.stopLoop()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.finished {
		p.finished = true
		p.clearLine()
	}
}

// stopLoop ends the render goroutine, if one was started, and waits for it.
func (p *progress) stopLoop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)

		p.mu.Lock()
		started := p.started
		p.mu.Unlock()

		if started {
			<-p.doneChan
		}
	})
}

func (p *progress) IsSupportedTerminal() bool {
	if f, ok := p.writer.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func (p *progress) renderLoop() {
	ticker := time.NewTicker(p.config.RefreshRate)
	defer ticker.Stop()
	defer close(p.doneChan)

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.source != nil {
				p.status = p.source()
			}
			p.render()
			p.mu.Unlock()
		}
	}
}

func (p *progress) render() {
	output := p.renderer.render(p.status, p.message, p.calculateStats())
	p.clearLine()
	fmt.Fprint(p.writer, output)
}

func (p *progress) clearLine() {
	if p.IsSupportedTerminal() {
		fmt.Fprint(p.writer, "\r\033[K")
	} else {
		fmt.Fprint(p.writer, "\r")
	}
}

func (p *progress) terminalWidth() int {
	if f, ok := p.writer.(*os.File); ok && p.IsSupportedTerminal() {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			return w
		}
	}
	return 80
}

func (p *progress) calculateStats() Statistics {
	var stats Statistics
	if !p.startTime.IsZero() {
		stats.Elapsed = time.Since(p.startTime)
	}

	if p.status.Total > 0 {
		stats.Percentage = float64(p.status.Done+p.status.Failed) / float64(p.status.Total) * 100
		if stats.Percentage > 100 {
			stats.Percentage = 100
		}
	}

	if seconds := stats.Elapsed.Seconds(); seconds > 0 {
		stats.ItemRate = float64(p.status.Done) / seconds
		stats.ByteRate = float64(p.status.Bytes) / seconds
	}

	return stats
}

func (p *progress) createRenderer() renderer {
	switch p.config.Style {
	case StyleBar:
		return &barRenderer{
			width:     p.width,
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	default:
		return &simpleRenderer{
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	}
}
