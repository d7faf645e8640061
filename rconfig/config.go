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

// Package rconfig unmarshals a typed Config out of a spf13/viper instance,
// the same viper-backed-component idiom the host project uses across its
// config/components tree: a plain struct with yaml tags, a Validate method,
// and a loader that reads one config key rather than the whole tree.
package rconfig

import (
	"fmt"
	"net"

	"github.com/nabbar/netreactor/duration"
	"github.com/nabbar/netreactor/reactor"
	"github.com/nabbar/netreactor/selector"
	"github.com/spf13/viper"
)

// Config is the reactor's full runtime configuration, unmarshalled from a
// single viper key (conventionally "netreactor").
type Config struct {
	// Family is "ipv4", "ipv6", or "unix".
	Family string `yaml:"family" mapstructure:"family"`
	// Host is the bind address for ipv4/ipv6, or the socket path for unix.
	Host string `yaml:"host" mapstructure:"host"`
	// Port is ignored for the unix family.
	Port int `yaml:"port" mapstructure:"port"`

	// PollTimeout overrides the reactor's fixed ~10ms poll interval when
	// positive; mirrors the host project's duration-typed config fields.
	PollTimeout duration.Duration `yaml:"pollTimeout" mapstructure:"pollTimeout"`

	// Selector forces "epoll" or "poll"; empty means probe at startup.
	Selector string `yaml:"selector" mapstructure:"selector"`

	// MetricsAddr is the listen address for the Prometheus scrape
	// endpoint; empty disables it.
	MetricsAddr string `yaml:"metricsAddr" mapstructure:"metricsAddr"`
}

// Validate reports whether Config describes a bindable SocketAddress and a
// recognized selector choice.
func (c Config) Validate() error {
	switch c.Family {
	case "ipv4", "ipv6":
		if c.Host == "" {
			return fmt.Errorf("rconfig: host is required for family %q", c.Family)
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("rconfig: invalid port %d", c.Port)
		}
	case "unix":
		if c.Host == "" {
			return fmt.Errorf("rconfig: host (socket path) is required for family unix")
		}
	default:
		return fmt.Errorf("rconfig: unknown family %q", c.Family)
	}

	switch c.Selector {
	case "", "epoll", "poll":
	default:
		return fmt.Errorf("rconfig: unknown selector %q", c.Selector)
	}

	return nil
}

// SocketAddress builds the reactor.SocketAddress this Config describes.
func (c Config) SocketAddress() reactor.SocketAddress {
	if c.Family == "unix" {
		return reactor.NewUnixAddress(c.Host)
	}
	fam := reactor.FamilyIPv4
	if c.Family == "ipv6" {
		fam = reactor.FamilyIPv6
	}
	return reactor.NewTCPAddress(fam, c.Host, c.Port)
}

// SelectorKind resolves the configured selector choice to a selector.Kind,
// returning ok=false when the choice is empty and Probe() should run
// instead.
func (c Config) SelectorKind() (kind selector.Kind, ok bool) {
	switch c.Selector {
	case "epoll":
		return selector.KindEpoll, true
	case "poll":
		return selector.KindPoll, true
	default:
		return "", false
	}
}

// MetricsHostPort returns MetricsAddr as a single host:port string,
// re-joined through net.JoinHostPort when it splits cleanly and returned
// unchanged otherwise, with ok=false when metrics are disabled.
func (c Config) MetricsHostPort() (hostport string, ok bool) {
	if c.MetricsAddr == "" {
		return "", false
	}
	host, port, err := net.SplitHostPort(c.MetricsAddr)
	if err != nil {
		return c.MetricsAddr, true
	}
	return net.JoinHostPort(host, port), true
}

// Default returns the configuration the "serve" command falls back to when
// no config file sets the "netreactor" key.
func Default() Config {
	return Config{
		Family:      "ipv4",
		Host:        "0.0.0.0",
		Port:        6514,
		MetricsAddr: ":9090",
	}
}

// Load reads key out of v into a validated Config, falling back to Default
// when the key is entirely absent from the loaded file/flags/env.
func Load(v *viper.Viper, key string) (Config, error) {
	cfg := Default()

	if v == nil || !v.IsSet(key) {
		return cfg, cfg.Validate()
	}

	if err := v.UnmarshalKey(key, &cfg, viper.DecodeHook(duration.ViperDecoderHook())); err != nil {
		return Config{}, fmt.Errorf("rconfig: unmarshal %q: %w", key, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
