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

// WriteBuffer is a byte sequence plus a send-position cursor, owned
// exclusively by one ConnectionRecord.
type WriteBuffer struct {
	data   []byte
	cursor int
}

// Set replaces the buffer's contents and resets the cursor to 0.
func (w *WriteBuffer) Set(b []byte) {
	w.data = b
	w.cursor = 0
}

// Remaining returns the unsent slice.
func (w *WriteBuffer) Remaining() []byte {
	if w.cursor >= len(w.data) {
		return nil
	}
	return w.data[w.cursor:]
}

// Sent advances the cursor by n, capped at len(data).
func (w *WriteBuffer) Sent(n int) {
	w.cursor += n
	if w.cursor > len(w.data) {
		w.cursor = len(w.data)
	}
}

// Empty reports whether cursor == len(data).
func (w *WriteBuffer) Empty() bool {
	return w.cursor >= len(w.data)
}
