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
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// pollSelector binds Selector to the portable poll(2) syscall. It is the
// fallback backend on platforms (or sandboxes) without epoll.
type pollSelector struct {
	mu       sync.Mutex
	interest map[int]Interest
}

// NewPoll creates a poll(2)-backed Selector.
func NewPoll() (Selector, error) {
	return &pollSelector{interest: make(map[int]Interest)}, nil
}

func (s *pollSelector) Register(fd int, interest Interest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interest[fd] = interest
	return nil
}

func (s *pollSelector) Modify(fd int, interest Interest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interest[fd] = interest
	return nil
}

func (s *pollSelector) Unregister(fd int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.interest, fd)
	return nil
}

func toPollEvents(i Interest) int16 {
	var ev int16
	if i&InterestRead != 0 {
		ev |= unix.POLLIN
	}
	if i&InterestWrite != 0 {
		ev |= unix.POLLOUT
	}
	return ev
}

func (s *pollSelector) Poll(timeout time.Duration) ([]Event, error) {
	s.mu.Lock()
	fds := make([]unix.PollFd, 0, len(s.interest))
	order := make([]int, 0, len(s.interest))
	for fd, in := range s.interest {
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: toPollEvents(in)})
		order = append(order, fd)
	}
	s.mu.Unlock()

	if len(fds) == 0 {
		time.Sleep(timeout)
		return nil, nil
	}

	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err == unix.EINTR {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	events := make([]Event, 0, n)
	for i, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}

		var r Readiness
		if pfd.Revents&(unix.POLLIN|unix.POLLPRI) != 0 {
			r |= ReadinessRead
		}
		if pfd.Revents&unix.POLLOUT != 0 {
			r |= ReadinessWrite
		}
		if pfd.Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
			r |= ReadinessHangup
		}
		events = append(events, Event{Fd: order[i], Readiness: r})
	}

	return events, nil
}

func (s *pollSelector) Close() error {
	return nil
}
