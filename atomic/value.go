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

// Package atomic provides a small type-safe container over sync/atomic.Value.
// The reactor publishes its running/stop flags through it so goroutines
// inspecting the loop (IsRunning, Stop) never take the connection-map mutex.
package atomic

import (
	"sync/atomic"
)

// box keeps the dynamic type stored in the underlying atomic.Value constant
// even when T is an interface type.
type box[T comparable] struct{ v T }

// Value is a generic, lock-free cell holding one value of T. The zero Value
// loads the zero value of T. Not a replacement for sync/atomic's specialized
// types on hot paths that need numeric add operations.
type Value[T comparable] struct {
	av atomic.Value
}

// NewValue returns an empty Value whose Load yields the zero value of T.
func NewValue[T comparable]() *Value[T] {
	return &Value[T]{}
}

// Load returns the stored value, or the zero value of T when nothing has
// been stored yet.
func (o *Value[T]) Load() T {
	if b, ok := o.av.Load().(box[T]); ok {
		return b.v
	}
	var zero T
	return zero
}

// Store replaces the stored value.
func (o *Value[T]) Store(val T) {
	o.av.Store(box[T]{v: val})
}

// Swap stores new and returns the previously stored value (zero value of T
// when the cell was empty).
func (o *Value[T]) Swap(new T) T {
	if b, ok := o.av.Swap(box[T]{v: new}).(box[T]); ok {
		return b.v
	}
	var zero T
	return zero
}

// CompareAndSwap stores new only when the current value equals old,
// reporting whether the swap happened. An empty cell is treated as holding
// the zero value of T.
func (o *Value[T]) CompareAndSwap(old, new T) bool {
	var zero T
	if old == zero && o.av.Load() == nil {
		// CAS on the underlying atomic.Value cannot match a nil slot, so
		// seed the zero value first.
		o.av.CompareAndSwap(nil, box[T]{v: zero})
	}
	return o.av.CompareAndSwap(box[T]{v: old}, box[T]{v: new})
}
