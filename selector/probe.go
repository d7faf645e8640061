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

// Probe returns the best Selector available on this platform: epoll on
// Linux, poll everywhere else. This is the one legitimate process-wide
// choice the design notes call out -- the poll-vs-epoll capability probe at
// startup -- everything else is scoped to the reactor instance.
func Probe() (Selector, Kind, error) {
	if sel, err := newEpollIfSupported(); sel != nil || err != nil {
		return sel, KindEpoll, err
	}
	sel, err := NewPoll()
	return sel, KindPoll, err
}

// New builds a Selector of the requested kind explicitly, bypassing Probe.
func New(kind Kind) (Selector, error) {
	switch kind {
	case KindEpoll:
		sel, err := newEpollIfSupported()
		if sel == nil && err == nil {
			return NewPoll()
		}
		return sel, err
	default:
		return NewPoll()
	}
}
