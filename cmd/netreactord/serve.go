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

package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nabbar/netreactor/examples/echo"
	"github.com/nabbar/netreactor/examples/syslogserver"
	"github.com/nabbar/netreactor/metrics"
	"github.com/nabbar/netreactor/pipeline"
	"github.com/nabbar/netreactor/rconfig"
	"github.com/nabbar/netreactor/reactor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var servePipeline string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reactor until interrupted",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&servePipeline, "pipeline", "echo", "pipeline factory: echo or syslog")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := rconfig.Load(vpr, "netreactor")
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	mcs := metrics.New(reg)

	var factory pipeline.Factory
	switch servePipeline {
	case "syslog":
		factory = syslogserver.NewFactory(log, mcs)
	default:
		factory = echo.NewFactory()
	}

	opts := []reactor.Option{
		reactor.WithLogger(log),
		reactor.WithMetrics(mcs),
	}
	if cfg.PollTimeout > 0 {
		opts = append(opts, reactor.WithPollInterval(time.Duration(cfg.PollTimeout)))
	}
	if kind, ok := cfg.SelectorKind(); ok {
		sel, selErr := selectorByKind(kind)
		if selErr != nil {
			return selErr
		}
		opts = append(opts, reactor.WithSelector(sel))
	}

	r := reactor.New(cfg.SocketAddress(), factory, opts...)

	if hostport, ok := cfg.MetricsHostPort(); ok {
		srv := &http.Server{Addr: hostport, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if srvErr := srv.ListenAndServe(); srvErr != nil && srvErr != http.ErrServerClosed {
				log.WithError(srvErr).Warn("metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutdown signal received")
		r.Stop()
	}()

	log.WithField("addr", cfg.SocketAddress().String()).Info("reactor starting")
	return r.Run()
}
