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

// Package selector specifies the readiness-backend contract the reactor
// polls, and provides two bindings of it: an edge-capable epoll backend
// (Linux only) and a portable poll backend. They differ only in the flag
// constants used to express Interest and Readiness; the reactor is written
// solely against the Selector interface and never imports a backend
// directly except through Probe/New.
package selector

import "time"

// Interest is a bitmask of readiness kinds the reactor wants the OS to
// report for a descriptor.
type Interest uint8

const (
	InterestNone  Interest = 0
	InterestRead  Interest = 1 << iota
	InterestWrite
)

// Readiness is a bitmask of readiness kinds the OS reported for a
// descriptor. Priority readiness is folded into Read by every backend, per
// the external-interface contract.
type Readiness uint8

const (
	ReadinessRead Readiness = 1 << iota
	ReadinessWrite
	ReadinessHangup
)

// Event pairs a descriptor with the readiness bits the backend observed for
// it in one Poll call.
type Event struct {
	Fd        int
	Readiness Readiness
}

// Selector is the readiness-backend contract consumed by the reactor:
// register/modify/unregister a descriptor's interest, and poll for events.
type Selector interface {
	// Register starts monitoring fd for interest.
	Register(fd int, interest Interest) error
	// Modify changes the interest previously registered for fd.
	Modify(fd int, interest Interest) error
	// Unregister stops monitoring fd. Idempotent: unregistering an
	// already-unregistered fd is not an error.
	Unregister(fd int) error
	// Poll blocks for up to timeout for readiness events, or returns sooner
	// once at least one descriptor is ready. A signal-interrupted poll is
	// recovered internally and reported as an empty, non-error result.
	Poll(timeout time.Duration) ([]Event, error)
	// Close releases the backend's own resources (e.g. the epoll fd).
	Close() error
}

// Kind names which backend a Selector was built from.
type Kind string

const (
	KindEpoll Kind = "epoll"
	KindPoll  Kind = "poll"
)
