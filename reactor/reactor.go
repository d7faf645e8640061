/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package reactor implements the single-threaded, readiness-driven I/O
// reactor: it owns the listening socket, the map of active connections, and
// the main poll loop that dispatches pipeline events and applies the
// interest state machine described by the handler-returned signals.
package reactor

import (
	"sync"
	"time"

	natomic "github.com/nabbar/netreactor/atomic"
	"github.com/nabbar/netreactor/pipeline"
	"github.com/nabbar/netreactor/rerr"
	"github.com/nabbar/netreactor/selector"
	"github.com/sirupsen/logrus"
)

const (
	// readChunkSize is the scratch buffer size for a single recv per the
	// reactor's per-event handling contract.
	readChunkSize = 1024
	// defaultPollInterval is the small poll timeout the main loop uses
	// unless overridden by WithPollInterval.
	defaultPollInterval = 10 * time.Millisecond
)

// Metrics is the subset of observability hooks the reactor calls into; the
// metrics package implements it on top of prometheus/client_golang. A nil
// Metrics is replaced with a no-op implementation.
type Metrics interface {
	ConnectionAccepted()
	ConnectionClosed()
	BytesRead(n int)
	BytesWritten(n int)
	ParseError()
}

type noopMetrics struct{}

func (noopMetrics) ConnectionAccepted() {}
func (noopMetrics) ConnectionClosed()   {}
func (noopMetrics) BytesRead(int)       {}
func (noopMetrics) BytesWritten(int)    {}
func (noopMetrics) ParseError()         {}

// Reactor owns one listening socket, a set of connection records keyed by
// descriptor, and the OS readiness mechanism. It runs entirely on the
// goroutine that calls Run.
type Reactor struct {
	addr    SocketAddress
	factory pipeline.Factory
	log     logrus.FieldLogger
	metrics Metrics
	sel     selector.Selector

	listenFd int

	mu    sync.Mutex
	conns map[int]*ConnectionRecord

	exec *pipeline.Executor

	pollInterval time.Duration

	running *natomic.Value[bool]
	stop    *natomic.Value[bool]
}

// Option customizes a Reactor at construction time.
type Option func(*Reactor)

// WithLogger sets the structured logger collaborator.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reactor) { r.log = log }
}

// WithMetrics sets the metrics collaborator.
func WithMetrics(m Metrics) Option {
	return func(r *Reactor) { r.metrics = m }
}

// WithSelector forces a specific Selector instead of selector.Probe().
func WithSelector(sel selector.Selector) Option {
	return func(r *Reactor) { r.sel = sel }
}

// WithPollInterval overrides the default ~10ms poll timeout. A zero or
// negative duration is ignored and the default is kept.
func WithPollInterval(d time.Duration) Option {
	return func(r *Reactor) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

// New builds a Reactor bound to addr, driving connections through the
// pipelines factory produces. It does not bind the socket; call Run for
// that.
func New(addr SocketAddress, factory pipeline.Factory, opts ...Option) *Reactor {
	r := &Reactor{
		addr:         addr,
		factory:      factory,
		log:          logrus.StandardLogger(),
		metrics:      noopMetrics{},
		listenFd:     -1,
		conns:        make(map[int]*ConnectionRecord),
		running:      natomic.NewValue[bool](),
		stop:         natomic.NewValue[bool](),
		pollInterval: defaultPollInterval,
	}

	for _, o := range opts {
		o(r)
	}

	if r.metrics == nil {
		r.metrics = noopMetrics{}
	}

	r.exec = pipeline.NewExecutor(r.log)

	return r
}

// OpenConnections returns the number of currently tracked connections.
func (r *Reactor) OpenConnections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// IsRunning reports whether Run's main loop is currently executing.
func (r *Reactor) IsRunning() bool {
	return r.running.Load()
}

// Stop requests a cooperative shutdown: the main loop observes the flag at
// the top of its next poll iteration and returns from Run.
func (r *Reactor) Stop() {
	r.stop.Store(true)
}

// Run binds the listening socket and runs the main loop until Stop is
// called or an unrecoverable startup error occurs. Calling Run on an
// already-running or stopped Reactor returns InvalidState.
func (r *Reactor) Run() error {
	if !r.running.CompareAndSwap(false, true) {
		return rerr.InvalidState.Error()
	}
	defer r.running.Store(false)

	if r.stop.Load() {
		// a stopped reactor is not reusable
		return rerr.InvalidState.Error()
	}

	fd, err := createListener(r.addr)
	if err != nil {
		return rerr.IoAcceptFailed.Error(err)
	}
	r.listenFd = fd

	if r.sel == nil {
		sel, kind, err := selector.Probe()
		if err != nil {
			_ = closeQuiet(fd)
			return rerr.InvalidState.Error(err)
		}
		r.log.WithField("selector", kind).Info("selector probed")
		r.sel = sel
	}

	if err = r.sel.Register(r.listenFd, selector.InterestRead); err != nil {
		_ = closeQuiet(fd)
		return rerr.InvalidState.Error(err)
	}

	for !r.stop.Load() {
		events, err := r.sel.Poll(r.pollInterval)
		if err != nil {
			r.log.WithError(err).Warn("poll failed, continuing")
			continue
		}

		for _, ev := range events {
			if ev.Fd == r.listenFd {
				r.handleAccept()
				continue
			}
			r.handleEvent(ev)
		}
	}

	r.shutdown()
	return nil
}

func (r *Reactor) shutdown() {
	_ = r.sel.Unregister(r.listenFd)
	_ = closeQuiet(r.listenFd)
	_ = r.sel.Close()

	r.mu.Lock()
	fds := make([]int, 0, len(r.conns))
	for fd := range r.conns {
		fds = append(fds, fd)
	}
	r.mu.Unlock()

	for _, fd := range fds {
		r.reclaim(fd)
	}
}

func closeQuiet(fd int) error {
	if fd < 0 {
		return nil
	}
	return sysClose(fd)
}

func (r *Reactor) handleAccept() {
	fd, remote, err := acceptOne(r.listenFd, r.addr.Family())
	if err != nil {
		r.log.WithError(err).Debug("accept failed")
		return
	}

	conn := &netConn{fd: fd, remote: remote}
	rec := NewConnectionRecord(fd, conn, remote, r.factory)

	if err = r.sel.Register(fd, selector.InterestNone); err != nil {
		r.log.WithError(err).Warn("register failed, dropping connection")
		_ = closeQuiet(fd)
		return
	}

	r.mu.Lock()
	r.conns[fd] = rec
	r.mu.Unlock()

	r.metrics.ConnectionAccepted()

	result := r.exec.Dispatch(rec.Down, pipeline.EventConnect, remote, nil)
	r.applySignal(rec, result)
}

func (r *Reactor) handleEvent(ev selector.Event) {
	r.mu.Lock()
	rec, ok := r.conns[ev.Fd]
	r.mu.Unlock()
	if !ok {
		return
	}

	if ev.Readiness&selector.ReadinessHangup != 0 {
		r.closeConnection(rec)
		return
	}

	if ev.Readiness&selector.ReadinessRead != 0 {
		r.handleReadable(rec)
	}

	if ev.Readiness&selector.ReadinessWrite != 0 && rec.State != StateReclaimed {
		r.handleWritable(rec)
	}
}

func (r *Reactor) handleReadable(rec *ConnectionRecord) {
	buf := make([]byte, readChunkSize)
	n, err := sysRead(rec.Fd, buf)

	if isTransientIoErr(err) {
		return
	}
	if err != nil && !isHangupErr(err) {
		r.log.WithError(rerr.IoReadFailed.Error(err)).Debug("read failed")
	}
	if n <= 0 || err != nil {
		// zero-byte read and hangup-equivalent errors both collapse to a
		// synthesized close, one on_close delivery either way.
		r.closeConnection(rec)
		return
	}

	r.metrics.BytesRead(n)

	result := r.exec.Dispatch(rec.Down, pipeline.EventRead, rec.Remote, buf[:n])
	r.applySignal(rec, result)
}

func (r *Reactor) handleWritable(rec *ConnectionRecord) {
	if !rec.Write.Empty() {
		chunk := rec.Write.Remaining()
		n, err := sysWrite(rec.Fd, chunk)
		if isTransientIoErr(err) {
			return
		}
		if err != nil {
			r.log.WithError(rerr.IoWriteFailed.Error(err)).Debug("write failed")
			r.closeConnection(rec)
			return
		}
		rec.Write.Sent(n)
		r.metrics.BytesWritten(n)
	}

	if rec.Write.Empty() {
		result := r.exec.Dispatch(rec.Up, pipeline.EventWrite, rec.Remote, nil)
		r.applySignal(rec, result)
	}
}

// applySignal implements the interest state machine of the design: it
// interprets the (signal, payload) a pipeline dispatch returned and moves
// the connection to its next state.
func (r *Reactor) applySignal(rec *ConnectionRecord, result pipeline.Result) {
	switch result.Signal {
	case pipeline.SigNone:
		return

	case pipeline.SigRequestRead:
		_ = r.sel.Modify(rec.Fd, selector.InterestRead)
		rec.Interest = selector.InterestRead
		rec.State = StateActiveRead

	case pipeline.SigRequestWrite:
		rec.Write.Set(result.Payload)
		_ = r.sel.Modify(rec.Fd, selector.InterestWrite)
		rec.Interest = selector.InterestWrite
		rec.State = StateActiveWrite

	case pipeline.SigRequestClose:
		r.closeConnection(rec)

	default:
		return
	}
}

// closeConnection implements REQUEST_CLOSE / synthesized CHANNEL_CLOSED:
// it clears the write buffer, shuts down both halves of the socket
// (swallowing errors), runs the downstream chain's on_close exactly once,
// then reclaims the descriptor. Idempotent.
func (r *Reactor) closeConnection(rec *ConnectionRecord) {
	if rec.State == StateReclaimed {
		return
	}

	rec.Write.Set(nil)
	rec.State = StateClosing
	shutdownBoth(rec.Fd)

	r.exec.Dispatch(rec.Down, pipeline.EventClose, rec.Remote, nil)

	r.reclaim(rec.Fd)
}

// reclaim unregisters and closes fd and removes its record. Idempotent:
// double-delivery (e.g. a hangup racing a handler-issued REQUEST_CLOSE) is
// tolerated.
func (r *Reactor) reclaim(fd int) {
	r.mu.Lock()
	rec, ok := r.conns[fd]
	if ok {
		delete(r.conns, fd)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	rec.State = StateReclaimed
	_ = r.sel.Unregister(fd)
	_ = rec.Conn.Close()
	r.metrics.ConnectionClosed()
}
