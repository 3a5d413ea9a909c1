package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/sevvalkasan/multi-threaded-file-copy/pkg/logger"
)

// exitInterrupted is the conventional status for a process killed by SIGINT
const exitInterrupted = 130

// signalHandler turns the first SIGINT or SIGTERM into a cancelled run
// context and the second into an immediate exit. Tasks are never
// cancelled, so the first signal only stops the caller from waiting
// silently.
type signalHandler struct {
	log    logger.Logger
	exit   func(int)
	onExit func()

	sigCh  chan os.Signal
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu          sync.Mutex
	cancel      context.CancelFunc
	interrupted atomic.Bool
	stopOnce    sync.Once
}

// setupSignalHandling initializes signal handling for graceful shutdown
func (a *App) setupSignalHandling() *signalHandler {
	h := newSignalHandler(a.log, os.Exit, func() {
		if a.progress != nil {
			a.progress.Stop()
		}
		_ = a.log.Sync()
	})

	signal.Notify(h.sigCh, syscall.SIGINT, syscall.SIGTERM)
	h.start()

	a.log.Debug("Signal handlers installed")
	return h
}

func newSignalHandler(log logger.Logger, exit func(int), onExit func()) *signalHandler {
	return &signalHandler{
		log:    log,
		exit:   exit,
		onExit: onExit,
		sigCh:  make(chan os.Signal, 2),
		stopCh: make(chan struct{}),
	}
}

func (h *signalHandler) start() {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-h.stopCh:
				return
			case sig := <-h.sigCh:
				h.handle(sig)
			}
		}
	}()
}

// bind sets the function called on the first signal
func (h *signalHandler) bind(cancel context.CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancel = cancel
}

func (h *signalHandler) handle(sig os.Signal) {
	log := h.log.WithFields(logger.Fields{
		"signal": sig.String(),
	})

	if h.interrupted.CompareAndSwap(false, true) {
		log.Warn("Received interrupt, finishing scheduled work (interrupt again to abort)")

		h.mu.Lock()
		cancel := h.cancel
		h.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		return
	}

	log.Error("Received second interrupt, aborting")
	if h.onExit != nil {
		h.onExit()
	}
	h.exit(exitInterrupted)
}

// stop uninstalls the handlers and waits for the handling goroutine
func (h *signalHandler) stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigCh)
		close(h.stopCh)
		h.wg.Wait()
	})
}
