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

// Package pipeline implements the handler chain abstraction: an ordered
// sequence of Handlers cooperatively driving a connection through connect,
// read, write, and close events by returning small control signals the
// Executor interprets. Unspecified handler capabilities default to
// RequestClose for read/connect and to a no-op for write/close, the same
// default-composition idiom used across the example corpus's event-handler
// interfaces.
package pipeline

import "net"

// Signal tags a Result as one of the five control variants a Handler may
// return to the Executor.
type Signal int

const (
	// SigNone means "no interest change, continue the chain with the same
	// payload" when returned between handlers, or "do nothing further" when
	// returned by the last handler in the chain.
	SigNone Signal = iota
	// SigForward passes Payload to the next handler in the same chain.
	SigForward
	// SigRequestRead asks the reactor to watch the descriptor for read
	// readiness.
	SigRequestRead
	// SigRequestWrite asks the reactor to enqueue Payload for sending and
	// watch the descriptor for write readiness.
	SigRequestWrite
	// SigRequestClose asks the reactor to begin a graceful shutdown of the
	// connection.
	SigRequestClose
)

// Result is the tagged variant PipelineResult = None | Forward(payload) |
// RequestRead | RequestWrite(payload) | RequestClose from the design notes.
type Result struct {
	Signal  Signal
	Payload []byte
}

// None is the zero Result: no interest change, continue with the same
// payload.
func None() Result { return Result{Signal: SigNone} }

// Forward continues the chain with a new payload.
func Forward(payload []byte) Result { return Result{Signal: SigForward, Payload: payload} }

// RequestRead asks the reactor to watch for read readiness.
func RequestRead() Result { return Result{Signal: SigRequestRead} }

// RequestWrite asks the reactor to enqueue payload and watch for write
// readiness.
func RequestWrite(payload []byte) Result { return Result{Signal: SigRequestWrite, Payload: payload} }

// RequestClose asks the reactor to begin a graceful shutdown.
func RequestClose() Result { return Result{Signal: SigRequestClose} }

// Handler is polymorphic over four capabilities. An implementation may
// embed NoopHandler and override only the capabilities it needs.
type Handler interface {
	OnConnect(remote net.Addr) Result
	OnRead(payload []byte) Result
	OnWrite(prior []byte) Result
	OnClose(remote net.Addr)
}

// NoopHandler gives every capability a safe default: OnConnect and OnRead
// default to RequestClose (an unimplemented read-path handler must not
// silently swallow traffic), OnWrite and OnClose default to no-ops.
// Embed it and override only what a concrete handler needs.
type NoopHandler struct{}

func (NoopHandler) OnConnect(net.Addr) Result { return RequestClose() }
func (NoopHandler) OnRead([]byte) Result      { return RequestClose() }
func (NoopHandler) OnWrite([]byte) Result     { return None() }
func (NoopHandler) OnClose(net.Addr)          {}

// Chain is an ordered sequence of handlers, either a downstream (inbound:
// connect/read/close) or upstream (outbound: write) chain.
type Chain []Handler

// Factory is application-supplied. A fresh Downstream/Upstream pair is
// produced for every accepted connection; handlers are never shared across
// connections.
type Factory interface {
	Downstream() Chain
	Upstream() Chain
}

// FactoryFunc adapts two plain functions to the Factory interface.
type FactoryFunc struct {
	DownstreamFunc func() Chain
	UpstreamFunc   func() Chain
}

func (f FactoryFunc) Downstream() Chain { return f.DownstreamFunc() }
func (f FactoryFunc) Upstream() Chain   { return f.UpstreamFunc() }
