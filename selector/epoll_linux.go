//go:build linux

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

package selector

import (
	"time"

	"golang.org/x/sys/unix"
)

// epollSelector binds Selector to Linux's epoll(7), level-triggered by
// default per the design's choice of the level-triggered behavior even on
// the edge-capable backend.
type epollSelector struct {
	epfd int
}

// NewEpoll creates an epoll-backed Selector.
func NewEpoll() (Selector, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollSelector{epfd: fd}, nil
}

func toEpollEvents(i Interest) uint32 {
	var ev uint32
	if i&InterestRead != 0 {
		ev |= unix.EPOLLIN
	}
	if i&InterestWrite != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

func (s *epollSelector) Register(fd int, interest Interest) error {
	return unix.EpollCtl(s.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
		Events: toEpollEvents(interest),
		Fd:     int32(fd),
	})
}

func (s *epollSelector) Modify(fd int, interest Interest) error {
	return unix.EpollCtl(s.epfd, unix.EPOLL_CTL_MOD, fd, &unix.EpollEvent{
		Events: toEpollEvents(interest),
		Fd:     int32(fd),
	})
}

func (s *epollSelector) Unregister(fd int) error {
	err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == unix.ENOENT || err == unix.EBADF {
		return nil
	}
	return err
}

func (s *epollSelector) Poll(timeout time.Duration) ([]Event, error) {
	raw := make([]unix.EpollEvent, 128)

	n, err := unix.EpollWait(s.epfd, raw, int(timeout/time.Millisecond))
	if err == unix.EINTR {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, n)
	for _, e := range raw[:n] {
		var r Readiness
		if e.Events&(unix.EPOLLIN|unix.EPOLLPRI) != 0 {
			r |= ReadinessRead
		}
		if e.Events&unix.EPOLLOUT != 0 {
			r |= ReadinessWrite
		}
		if e.Events&(unix.EPOLLHUP|unix.EPOLLERR|unix.EPOLLRDHUP) != 0 {
			r |= ReadinessHangup
		}
		events = append(events, Event{Fd: int(e.Fd), Readiness: r})
	}

	return events, nil
}

func (s *epollSelector) Close() error {
	return unix.Close(s.epfd)
}
