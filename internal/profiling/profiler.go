// Package profiling exposes the Go runtime pprof endpoints on a dedicated
// listener, kept off the public service port.
package profiling

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof" // Import for side effects
	"sync/atomic"
	"time"

	"github.com/Nikhil-sh2112/azure-webapp/internal/logging"
)

// Profiler serves the pprof handlers on its own HTTP listener.
type Profiler struct {
	addr       string
	httpServer *http.Server
	running    int32
}

// New creates a profiler listening on addr (e.g. "localhost:6060").
func New(addr string) *Profiler {
	return &Profiler{addr: addr}
}

// Start launches the pprof listener in a background goroutine.
func (p *Profiler) Start() {
	if !atomic.CompareAndSwapInt32(&p.running, 0, 1) {
		return
	}

	// net/http/pprof registers on http.DefaultServeMux
	p.httpServer = &http.Server{
		Addr:         p.addr,
		Handler:      http.DefaultServeMux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		logging.Info("Profiling endpoint listening", "addr", p.addr)
		if err := p.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Profiling endpoint failed", logging.Err(err))
		}
	}()
}

// Stop shuts the pprof listener down.
func (p *Profiler) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.running, 1, 0) {
		return nil
	}
	return p.httpServer.Shutdown(ctx)
}
