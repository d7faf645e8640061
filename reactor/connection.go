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

package reactor

import (
	"net"

	"github.com/google/uuid"
	"github.com/nabbar/netreactor/pipeline"
	"github.com/nabbar/netreactor/selector"
)

// State is the lifecycle state of a ConnectionRecord.
type State int

const (
	// StateActiveRead is the initial state, established by the first
	// on_connect -> REQUEST_READ.
	StateActiveRead State = iota
	StateActiveWrite
	// StateClosing exists to ensure on_close is delivered exactly once
	// before StateReclaimed.
	StateClosing
	// StateReclaimed is terminal.
	StateReclaimed
)

// ConnectionRecord is created on accept and destroyed on close; exactly one
// record exists per registered descriptor in the reactor.
type ConnectionRecord struct {
	ID     uuid.UUID
	Fd     int
	Conn   net.Conn
	Remote net.Addr

	Pipeline pipeline.Factory
	Down     pipeline.Chain
	Up       pipeline.Chain

	Write WriteBuffer

	State    State
	Interest selector.Interest
}

// NewConnectionRecord builds a record for a freshly accepted connection,
// constructing a fresh handler-chain pair from factory: handlers are never
// shared across connections.
func NewConnectionRecord(fd int, conn net.Conn, remote net.Addr, factory pipeline.Factory) *ConnectionRecord {
	return &ConnectionRecord{
		ID:       uuid.New(),
		Fd:       fd,
		Conn:     conn,
		Remote:   remote,
		Pipeline: factory,
		Down:     factory.Downstream(),
		Up:       factory.Upstream(),
		State:    StateActiveRead,
		Interest: selector.InterestNone,
	}
}
