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

// Package ringbuffer provides CyclicBuffer, a growable ring buffer of bytes
// with delimiter search, used as the per-connection read accumulator by the
// rfc5424 lexer. It is not safe for concurrent use; each
// buffer is owned by exactly one connection at a time.
package ringbuffer

import (
	"github.com/nabbar/netreactor/rerr"
)

// CyclicBuffer is a ring buffer storing an ordered FIFO byte stream.
// It grows geometrically (capacity doubles, repeatedly if needed) whenever a
// Put would not otherwise fit, and never discards data.
type CyclicBuffer struct {
	buf   []byte
	read  int
	write int
	avail int
}

// New returns a CyclicBuffer with the given initial capacity. A non-positive
// capacity is promoted to 1 so growth always has a base to double from.
func New(capacity int) *CyclicBuffer {
	if capacity <= 0 {
		capacity = 1
	}

	return &CyclicBuffer{buf: make([]byte, capacity)}
}

// Capacity returns the current backing capacity C.
func (c *CyclicBuffer) Capacity() int {
	return len(c.buf)
}

// Available returns the number of unread bytes currently stored.
func (c *CyclicBuffer) Available() int {
	return c.avail
}

// Remaining returns the free space, C - available.
func (c *CyclicBuffer) Remaining() int {
	return len(c.buf) - c.avail
}

// Clear discards all buffered content without reallocating.
func (c *CyclicBuffer) Clear() {
	c.read = 0
	c.write = 0
	c.avail = 0
}

// Put appends src to the buffer, growing geometrically when the free region
// is smaller than len(src). Putting a zero-length slice is a no-op.
func (c *CyclicBuffer) Put(src []byte) {
	if len(src) == 0 {
		return
	}

	if c.Remaining() < len(src) {
		c.grow(len(src))
	}

	total := len(src)
	n := total
	for n > 0 {
		chunk := len(c.buf) - c.write
		if chunk > n {
			chunk = n
		}
		copy(c.buf[c.write:c.write+chunk], src[:chunk])
		c.write = (c.write + chunk) % len(c.buf)
		src = src[chunk:]
		n -= chunk
	}

	c.avail += total
}

func (c *CyclicBuffer) grow(need int) {
	newCap := len(c.buf)
	if newCap == 0 {
		newCap = 1
	}
	for newCap-c.avail < need {
		newCap *= 2
	}

	nb := make([]byte, newCap)
	n, _ := c.peek(nb, c.avail)
	_ = n

	c.buf = nb
	c.read = 0
	c.write = c.avail
}

// peek copies up to max bytes starting at the current read position into
// dst, without mutating read/write/avail. Used internally by grow.
func (c *CyclicBuffer) peek(dst []byte, max int) (int, error) {
	n := max
	if n > c.avail {
		n = c.avail
	}
	if n > len(dst) {
		n = len(dst)
	}

	r := c.read
	remaining := n
	off := 0
	for remaining > 0 {
		chunk := len(c.buf) - r
		if chunk > remaining {
			chunk = remaining
		}
		copy(dst[off:off+chunk], c.buf[r:r+chunk])
		r = (r + chunk) % len(c.buf)
		off += chunk
		remaining -= chunk
	}

	return n, nil
}

// Get copies at most min(len(dst), available) bytes into dst, advancing the
// read index, and returns the number of bytes copied.
func (c *CyclicBuffer) Get(dst []byte) int {
	n, _ := c.peek(dst, len(dst))
	c.Skip(n)
	return n
}

// Skip advances the read index by n bytes (capped at available), discarding
// them without copying.
func (c *CyclicBuffer) Skip(n int) int {
	if n > c.avail {
		n = c.avail
	}
	if n <= 0 {
		return 0
	}

	c.read = (c.read + n) % len(c.buf)
	c.avail -= n

	if c.avail == 0 {
		c.read = 0
		c.write = 0
	}

	return n
}

// Seek scans at most limit bytes (or all available bytes if limit < 0)
// without mutating any index, and returns the zero-based offset of the
// first occurrence of delim from the current read position, or -1.
func (c *CyclicBuffer) Seek(delim byte, limit int) int {
	n := c.avail
	if limit >= 0 && limit < n {
		n = limit
	}

	r := c.read
	for i := 0; i < n; i++ {
		if c.buf[r] == delim {
			return i
		}
		r = (r + 1) % len(c.buf)
	}

	return -1
}

// GetUntil copies the bytes up to (but not including) the first occurrence
// of delim within the next limit bytes into dst (capped at len(dst)),
// and returns the number of bytes copied. The delimiter itself is left
// unread; callers typically follow with Skip(1). It returns -1 if the
// delimiter is not yet present within limit bytes of currently available
// data (need more data). If at least limit bytes are available and none of
// the first limit is the delimiter, GetUntil returns rerr.MalformedFrame: the lexer's
// policy is to fail rather than wait forever.
func (c *CyclicBuffer) GetUntil(delim byte, dst []byte, limit int) (int, error) {
	k := c.Seek(delim, limit)
	if k == -1 {
		if limit >= 0 && c.avail >= limit {
			return -1, rerr.MalformedFrame.Errorf("delimiter %q not found within %d bytes", delim, limit)
		}
		return -1, nil
	}

	if k > len(dst) {
		k = len(dst)
	}

	n := c.Get(dst[:k])
	return n, nil
}
