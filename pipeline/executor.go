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

package pipeline

import (
	"net"

	"github.com/nabbar/netreactor/rerr"
	"github.com/sirupsen/logrus"
)

// Event identifies which Handler capability a dispatch exercises.
type Event int

const (
	EventConnect Event = iota
	EventRead
	EventWrite
	EventClose
)

// Executor runs a Chain against one event and payload. The executor itself
// is stateless; it holds only its logging collaborator.
type Executor struct {
	log logrus.FieldLogger
}

// NewExecutor returns an Executor logging recovered handler panics through
// log. A nil log falls back to logrus's standard logger.
func NewExecutor(log logrus.FieldLogger) *Executor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{log: log}
}

// Dispatch runs chain for event with the given payload/remote, applying the
// FORWARD-threading rule described in the design notes: a handler returning
// no value or Forward continues the chain with the (possibly new) payload;
// any other signal stops the chain and is returned immediately. A handler
// that panics is recovered, logged, and treated as if it had returned None.
func (x *Executor) Dispatch(chain Chain, event Event, remote net.Addr, payload []byte) Result {
	if event == EventClose {
		for _, h := range chain {
			x.invokeClose(h, remote)
		}
		return Result{}
	}

	for _, h := range chain {
		r := x.invoke(h, event, remote, payload)

		switch r.Signal {
		case SigNone:
			continue
		case SigForward:
			payload = r.Payload
			continue
		default:
			return r
		}
	}

	return None()
}

func (x *Executor) invoke(h Handler, event Event, remote net.Addr, payload []byte) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			x.log.WithFields(logrus.Fields{
				"event": event,
				"error": rerr.HandlerPanic.Errorf("%v", rec),
			}).Error("handler panicked, continuing chain")
			result = None()
		}
	}()

	switch event {
	case EventConnect:
		return h.OnConnect(remote)
	case EventRead:
		return h.OnRead(payload)
	case EventWrite:
		return h.OnWrite(payload)
	default:
		return None()
	}
}

func (x *Executor) invokeClose(h Handler, remote net.Addr) {
	defer func() {
		if rec := recover(); rec != nil {
			x.log.WithFields(logrus.Fields{
				"event": EventClose,
				"error": rerr.HandlerPanic.Errorf("%v", rec),
			}).Error("handler panicked during close, continuing chain")
		}
	}()

	h.OnClose(remote)
}
