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

import "fmt"

// Family names the socket family a SocketAddress binds.
type Family string

const (
	FamilyIPv4 Family = "ipv4"
	FamilyIPv6 Family = "ipv6"
	FamilyUnix Family = "unix"
)

// SocketAddress is an immutable (family, host, port) triple describing the
// listening socket the application wants the reactor to bind on startup.
// For FamilyUnix, Host carries the socket path and Port is ignored.
type SocketAddress struct {
	family Family
	host   string
	port   int
}

// NewTCPAddress builds a SocketAddress for an IPv4 or IPv6 listener.
func NewTCPAddress(family Family, host string, port int) SocketAddress {
	return SocketAddress{family: family, host: host, port: port}
}

// NewUnixAddress builds a SocketAddress for a UNIX domain socket listener.
func NewUnixAddress(path string) SocketAddress {
	return SocketAddress{family: FamilyUnix, host: path}
}

func (a SocketAddress) Family() Family { return a.family }
func (a SocketAddress) Host() string   { return a.host }
func (a SocketAddress) Port() int      { return a.port }

// Network returns the net package dial/listen network name for this
// address's family ("tcp", "tcp6", or "unix").
func (a SocketAddress) Network() string {
	switch a.family {
	case FamilyIPv6:
		return "tcp6"
	case FamilyUnix:
		return "unix"
	default:
		return "tcp"
	}
}

// String returns the net package address string for this SocketAddress.
func (a SocketAddress) String() string {
	if a.family == FamilyUnix {
		return a.host
	}
	return fmt.Sprintf("%s:%d", a.host, a.port)
}
