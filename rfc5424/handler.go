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

package rfc5424

import (
	"net"

	"github.com/nabbar/netreactor/pipeline"
	"github.com/sirupsen/logrus"
)

// Sink receives every SyslogMessage a Handler's lexer completes.
type Sink interface {
	OnMessage(remote net.Addr, msg *SyslogMessage)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(remote net.Addr, msg *SyslogMessage)

// OnMessage implements Sink.
func (f SinkFunc) OnMessage(remote net.Addr, msg *SyslogMessage) { f(remote, msg) }

// Handler is a downstream pipeline.Handler wrapping one Lexer per connection.
// It never itself requests a write: decoded messages are handed to Sink, and
// it keeps asking for more bytes until the peer disconnects or sends a
// malformed frame.
type Handler struct {
	pipeline.NoopHandler

	lex     *Lexer
	sink    Sink
	log     logrus.FieldLogger
	metrics ErrorMetrics
	remote  net.Addr
}

// ErrorMetrics receives a notification for every malformed frame a Handler
// rejects; the metrics package implements it on top of
// prometheus/client_golang. Kept separate from Sink so a syslog consumer
// that doesn't care about metrics is never forced to implement it.
type ErrorMetrics interface {
	ParseError()
}

type noopErrorMetrics struct{}

func (noopErrorMetrics) ParseError() {}

// NewHandler returns a Handler delivering decoded messages to sink. A nil
// sink is replaced with one that discards messages.
func NewHandler(sink Sink, log logrus.FieldLogger) *Handler {
	if sink == nil {
		sink = SinkFunc(func(net.Addr, *SyslogMessage) {})
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{lex: NewLexer(), sink: sink, log: log, metrics: noopErrorMetrics{}}
}

// SetMetrics attaches m as the Handler's parse-error counter. A nil m
// restores the no-op default.
func (h *Handler) SetMetrics(m ErrorMetrics) {
	if m == nil {
		m = noopErrorMetrics{}
	}
	h.metrics = m
}

// OnConnect requests the first read, per the lexer's "always reading" design.
func (h *Handler) OnConnect(remote net.Addr) pipeline.Result {
	h.remote = remote
	return pipeline.RequestRead()
}

// OnRead feeds chunk through the lexer, delivers every completed message to
// Sink, and requests another read unless the frame is malformed.
func (h *Handler) OnRead(chunk []byte) pipeline.Result {
	err := h.lex.Feed(chunk, func(msg *SyslogMessage) {
		h.sink.OnMessage(h.remote, msg)
	})
	if err != nil {
		h.metrics.ParseError()
		h.log.WithError(err).WithField("remote", h.remote).Warn("malformed syslog frame, closing")
		return pipeline.RequestClose()
	}
	return pipeline.RequestRead()
}

// Factory builds a pipeline.Factory producing a fresh Handler per connection,
// all delivering to the same sink.
func Factory(sink Sink, log logrus.FieldLogger) pipeline.Factory {
	return FactoryWithMetrics(sink, log, nil)
}

// FactoryWithMetrics is Factory with an ErrorMetrics collaborator attached
// to every produced Handler.
func FactoryWithMetrics(sink Sink, log logrus.FieldLogger, metrics ErrorMetrics) pipeline.Factory {
	return pipeline.FactoryFunc{
		DownstreamFunc: func() pipeline.Chain {
			h := NewHandler(sink, log)
			h.SetMetrics(metrics)
			return pipeline.Chain{h}
		},
		UpstreamFunc: func() pipeline.Chain {
			return pipeline.Chain{}
		},
	}
}
