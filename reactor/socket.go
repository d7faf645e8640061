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
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// listenBacklog is the fixed listen backlog mandated by the external
// interface contract.
const listenBacklog = 100

// netConn adapts a raw, non-blocking fd into net.Conn for the benefit of
// handler code and logging call sites (RemoteAddr, Close); the reactor
// itself talks to the fd directly via sysRead/sysWrite so it controls
// exactly when a read or write syscall happens. Deadlines are no-ops: the
// reactor never blocks on I/O, readiness is driven solely by the selector.
type netConn struct {
	fd     int
	local  net.Addr
	remote net.Addr
}

func (c *netConn) Read(b []byte) (int, error)       { return sysRead(c.fd, b) }
func (c *netConn) Write(b []byte) (int, error)      { return sysWrite(c.fd, b) }
func (c *netConn) Close() error                     { return unix.Close(c.fd) }
func (c *netConn) LocalAddr() net.Addr              { return c.local }
func (c *netConn) RemoteAddr() net.Addr             { return c.remote }
func (c *netConn) SetDeadline(time.Time) error      { return nil }
func (c *netConn) SetReadDeadline(time.Time) error  { return nil }
func (c *netConn) SetWriteDeadline(time.Time) error { return nil }

func sysRead(fd int, b []byte) (int, error) {
	return unix.Read(fd, b)
}

func sysWrite(fd int, b []byte) (int, error) {
	return unix.Write(fd, b)
}

func sysClose(fd int) error {
	return unix.Close(fd)
}

// isTransientIoErr reports a readiness false positive: the descriptor was
// reported ready but the syscall would still block (or was interrupted).
// The connection stays registered and the next poll retries.
func isTransientIoErr(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK || err == unix.EINTR
}

// isHangupErr reports errors equivalent to the peer having gone away, which
// collapse to a synthesized close without an error-level log.
func isHangupErr(err error) bool {
	switch err {
	case unix.ECONNRESET, unix.EPIPE, unix.ETIMEDOUT, unix.ESHUTDOWN, unix.ENOTCONN:
		return true
	default:
		return false
	}
}

// shutdownBoth attempts a graceful shutdown of both halves of the socket,
// swallowing errors: the peer may already have disappeared.
func shutdownBoth(fd int) {
	_ = unix.Shutdown(fd, unix.SHUT_RDWR)
}

// createListener builds a non-blocking listening socket bound to addr, with
// SO_REUSEADDR set and, for IP families, TCP_NODELAY set, per the external
// interface contract's socket configuration for listeners.
func createListener(addr SocketAddress) (int, error) {
	var (
		domain int
		sa     unix.Sockaddr
	)

	switch addr.Family() {
	case FamilyIPv6:
		domain = unix.AF_INET6
		var a6 [16]byte
		ip := net.ParseIP(addr.Host())
		if ip != nil {
			copy(a6[:], ip.To16())
		}
		sa = &unix.SockaddrInet6{Port: addr.Port(), Addr: a6}
	case FamilyUnix:
		domain = unix.AF_UNIX
		_ = os.Remove(addr.Host())
		sa = &unix.SockaddrUnix{Name: addr.Host()}
	default:
		domain = unix.AF_INET
		var a4 [4]byte
		ip := net.ParseIP(addr.Host())
		if ip != nil && ip.To4() != nil {
			copy(a4[:], ip.To4())
		}
		sa = &unix.SockaddrInet4{Port: addr.Port(), Addr: a4}
	}

	fd, err := unix.Socket(domain, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}

	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	if domain != unix.AF_UNIX {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	}

	if err = unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}

	if err = unix.Listen(fd, listenBacklog); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}

	if err = unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}

	return fd, nil
}

// acceptOne accepts exactly one pending connection from listenFd, sets it
// non-blocking, and (for IP families) sets TCP_NODELAY.
func acceptOne(listenFd int, family Family) (fd int, remote net.Addr, err error) {
	nfd, sa, err := unix.Accept(listenFd)
	if err != nil {
		return -1, nil, err
	}

	if err = unix.SetNonblock(nfd, true); err != nil {
		_ = unix.Close(nfd)
		return -1, nil, err
	}

	if family != FamilyUnix {
		_ = unix.SetsockoptInt(nfd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	}

	return nfd, sockaddrToAddr(sa), nil
}

func sockaddrToAddr(sa unix.Sockaddr) net.Addr {
	switch s := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IP(s.Addr[:]), Port: s.Port}
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: net.IP(s.Addr[:]), Port: s.Port}
	case *unix.SockaddrUnix:
		return &net.UnixAddr{Name: s.Name, Net: "unix"}
	default:
		return nil
	}
}
