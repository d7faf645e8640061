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

package rerr

import "fmt"

// Error is a CodeError wrapped with an optional chain of parent causes.
type Error interface {
	error

	// Code returns the numeric code carried by this error.
	Code() CodeError

	// HasCode reports whether this error or any of its parents carries code.
	HasCode(code CodeError) bool

	// Parent returns the immediate parent errors, if any.
	Parent() []error

	// Unwrap exposes the parent chain to errors.Is / errors.As.
	Unwrap() []error
}

type ers struct {
	c CodeError
	m string
	p []error
}

func newError(c CodeError, msg string, parent ...error) Error {
	return &ers{c: c, m: msg, p: filterNil(parent)}
}

func newErrorf(c CodeError, format string, args ...interface{}) Error {
	return &ers{c: c, m: fmt.Sprintf(format, args...)}
}

func filterNil(in []error) []error {
	out := make([]error, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (e *ers) Error() string {
	if len(e.p) == 0 {
		return e.m
	}

	s := e.m + ": " + e.p[0].Error()
	for _, p := range e.p[1:] {
		s += "; " + p.Error()
	}
	return s
}

func (e *ers) Code() CodeError {
	return e.c
}

func (e *ers) HasCode(code CodeError) bool {
	if e.c == code {
		return true
	}

	for _, p := range e.p {
		if ce, ok := p.(Error); ok && ce.HasCode(code) {
			return true
		}
	}

	return false
}

func (e *ers) Parent() []error {
	return e.p
}

func (e *ers) Unwrap() []error {
	return e.p
}
