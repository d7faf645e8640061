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

// Package rerr provides the numeric error-code framework used across the
// reactor, pipeline, and lexer packages. Every error kind the framework can
// raise is a CodeError constant; wrapping a CodeError with one or more parent
// errors produces an Error that keeps the full cause chain reachable through
// errors.Is / errors.As.
package rerr

import "strconv"

// CodeError is a small numeric error code, analogous to an HTTP status code.
type CodeError uint16

const (
	// UnknownError is returned when no specific code applies.
	UnknownError CodeError = 0

	// IoReadFailed covers a failed recv on an established connection.
	IoReadFailed CodeError = 1001
	// IoWriteFailed covers a failed send on an established connection.
	IoWriteFailed CodeError = 1002
	// IoAcceptFailed covers a failed accept on the listening socket.
	IoAcceptFailed CodeError = 1003
	// PeerClosed marks a zero-byte read or hangup readiness from a peer.
	PeerClosed CodeError = 1004
	// MalformedFrame marks a lexer state-machine violation (limit exceeded
	// without finding its delimiter, or an invalid SD-element marker byte).
	MalformedFrame CodeError = 1005
	// HandlerPanic marks a recovered panic raised by handler code.
	HandlerPanic CodeError = 1006
	// InvalidState marks an illegal lifecycle transition (e.g. starting an
	// already-running reactor, or operating on a reclaimed connection).
	InvalidState CodeError = 1007
)

var codeMessage = map[CodeError]string{
	IoReadFailed:   "i/o read failed",
	IoWriteFailed:  "i/o write failed",
	IoAcceptFailed: "i/o accept failed",
	PeerClosed:     "peer closed the connection",
	MalformedFrame: "malformed frame",
	HandlerPanic:   "handler panicked",
	InvalidState:   "invalid state transition",
}

// Uint16 returns the code as a uint16.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// String returns the decimal representation of the code.
func (c CodeError) String() string {
	return strconv.Itoa(int(c))
}

// Message returns the registered message for this code, or UnknownError's.
func (c CodeError) Message() string {
	if m, ok := codeMessage[c]; ok {
		return m
	}
	return "unknown error"
}

// Error builds a new Error from this code, optionally wrapping parents.
func (c CodeError) Error(parent ...error) Error {
	return newError(c, c.Message(), parent...)
}

// Errorf builds a new Error from this code with a formatted message.
func (c CodeError) Errorf(format string, args ...interface{}) Error {
	return newErrorf(c, format, args...)
}

// Is reports whether err carries this code anywhere in its parent chain.
func (c CodeError) Is(err error) bool {
	var e Error
	if err == nil {
		return false
	}
	if ce, ok := err.(Error); ok {
		e = ce
	} else {
		return false
	}
	return e.HasCode(c)
}
