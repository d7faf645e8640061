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

// Package metrics implements reactor.Metrics on top of
// prometheus/client_golang: an open-connection gauge, accept/close
// counters, byte counters, and a parse-error counter, registered against a
// caller-supplied registry so multiple reactor instances in one process
// (or in tests) don't collide on the default registerer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector is the reactor.Metrics implementation backed by Prometheus
// collectors. The zero value is not usable; build one with New.
type Collector struct {
	openConnections prometheus.Gauge
	accepted        prometheus.Counter
	closed          prometheus.Counter
	bytesRead       prometheus.Counter
	bytesWritten    prometheus.Counter
	parseErrors     prometheus.Counter
}

// New registers a fresh set of collectors under namespace "netreactor" on
// reg. Passing nil uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		openConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "netreactor",
			Name:      "open_connections",
			Help:      "Number of connections currently tracked by the reactor.",
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netreactor",
			Name:      "connections_accepted_total",
			Help:      "Total connections accepted by the reactor.",
		}),
		closed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netreactor",
			Name:      "connections_closed_total",
			Help:      "Total connections reclaimed by the reactor.",
		}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netreactor",
			Name:      "bytes_read_total",
			Help:      "Total bytes read across all connections.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netreactor",
			Name:      "bytes_written_total",
			Help:      "Total bytes written across all connections.",
		}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "netreactor",
			Name:      "parse_errors_total",
			Help:      "Total malformed-frame errors raised by protocol handlers.",
		}),
	}

	reg.MustRegister(
		c.openConnections,
		c.accepted,
		c.closed,
		c.bytesRead,
		c.bytesWritten,
		c.parseErrors,
	)

	return c
}

// ConnectionAccepted implements reactor.Metrics.
func (c *Collector) ConnectionAccepted() {
	c.accepted.Inc()
	c.openConnections.Inc()
}

// ConnectionClosed implements reactor.Metrics.
func (c *Collector) ConnectionClosed() {
	c.closed.Inc()
	c.openConnections.Dec()
}

// BytesRead implements reactor.Metrics.
func (c *Collector) BytesRead(n int) {
	c.bytesRead.Add(float64(n))
}

// BytesWritten implements reactor.Metrics.
func (c *Collector) BytesWritten(n int) {
	c.bytesWritten.Add(float64(n))
}

// ParseError implements reactor.Metrics.
func (c *Collector) ParseError() {
	c.parseErrors.Inc()
}
