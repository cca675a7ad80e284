// Package signal turns process signals into context cancellation and reload
// requests for skillreport commands.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ErrInterrupted is the cancellation cause recorded when SIGINT or SIGTERM
// arrives. It also matches context.Canceled.
var ErrInterrupted = errors.New("interrupted")

// Handler cancels a context on SIGINT or SIGTERM and reports SIGHUP as a
// reload request without canceling anything.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelCauseFunc
	interrupted chan struct{}
	hangups     chan struct{}
	done        chan struct{}
	once        sync.Once
	stopOnce    sync.Once
	sigChan     chan os.Signal
}

// NewHandler creates a handler listening for SIGINT, SIGTERM and SIGHUP.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	for {
//	    select {
//	    case <-h.Context().Done():
//	        return nil
//	    case <-h.Hangups():
//	        _, _ = mgr.Reload(h.Context())
//	    }
//	}
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancelCause(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		hangups:     make(chan struct{}, 1),
		done:        make(chan struct{}),
		// Notify drops signals on a full channel.
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go h.listen()

	return h
}

// Context returns the context that is canceled on interrupt.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel closed when SIGINT or SIGTERM is received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Hangups delivers one value per pending SIGHUP. Signals arriving while a
// value is still pending are merged into it.
func (h *Handler) Hangups() <-chan struct{} {
	return h.hangups
}

// Stop stops listening and cancels the context. Safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel(nil)
	})
}

// handleSignal dispatches one received signal.
func (h *Handler) handleSignal(sig os.Signal) {
	if sig == syscall.SIGHUP {
		select {
		case h.hangups <- struct{}{}:
		default:
		}
		return
	}
	h.once.Do(func() {
		name := "signal"
		if sig != nil {
			name = sig.String()
		}
		h.cancel(fmt.Errorf("%w by %s: %w", ErrInterrupted, name, context.Canceled))
		close(h.interrupted)
	})
}

// listen handles signals until Stop is called or the context ends.
// Only the first interrupt has effect; later ones are drained.
func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handleSignal(sig)
		}
	}
}
