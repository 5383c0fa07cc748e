package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a batch on SIGINT/SIGTERM and tells the user
// what happened to the documents not yet classified.
type InterruptHandler struct {
	writer      io.Writer
	cancelFunc  context.CancelFunc
	signals     chan os.Signal
	interrupted bool
	ledger      bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{
		writer: writer,
	}
}

// HandleInterrupts returns a context canceled on the first interrupt, and a
// stop function that releases the signal handler. With ledger set the
// message suggests resuming through --skip-known.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, ledger bool) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancelFunc = cancel
	h.ledger = ledger
	h.mu.Unlock()

	h.signals = make(chan os.Signal, 1)
	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-h.signals:
			h.Interrupt()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(h.signals)
		cancel()
	}
}

// Interrupt behaves as if a signal had arrived.
func (h *InterruptHandler) Interrupt() {
	h.mu.Lock()
	first := !h.interrupted
	h.interrupted = true
	cancel := h.cancelFunc
	if first {
		h.showInterruptMessage()
	}
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// showInterruptMessage must be called with h.mu held.
func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n" + FormatWarning("Classification interrupted!")
	msg += "\n" + FormatInfo("Documents not yet read are reported as canceled.")
	if h.ledger {
		msg += "\n" + FormatInfo("Finished documents are in the ledger. Resume with: docket classify --skip-known")
	}
	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
