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

// Package duration wraps time.Duration with a days notation ("2d3h45m") and
// the encoding hooks (JSON, YAML, CBOR, text, viper) needed to use duration
// values directly inside unmarshalled configuration structs such as
// rconfig.Config.
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that parses and formats a leading whole-day
// component, since config files commonly express long intervals as "7d".
type Duration time.Duration

const day = 24 * time.Hour

// Parse reads a duration string in time.ParseDuration syntax, optionally
// prefixed with a whole number of days ("5d23h15m13s"). Surrounding quotes
// are tolerated so values survive permissive config decoding.
func Parse(s string) (Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, nil
	}

	var days int64
	if i := strings.IndexByte(s, 'd'); i > 0 {
		if n, err := strconv.ParseInt(s[:i], 10, 64); err == nil {
			days = n
			s = s[i+1:]
		}
	}

	if s == "" {
		return Duration(time.Duration(days) * day), nil
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration: %w", err)
	}

	return Duration(time.Duration(days)*day + v), nil
}

// ParseBytes is Parse over a raw byte slice.
func ParseBytes(b []byte) (Duration, error) {
	return Parse(string(b))
}

// Time returns the wrapped time.Duration.
func (d Duration) Time() time.Duration {
	return time.Duration(d)
}

// Days builds a Duration of n whole days.
func Days(n int64) Duration {
	return Duration(time.Duration(n) * day)
}

// String formats the duration with a leading day component when the value
// spans at least one whole day, otherwise in time.Duration syntax.
func (d Duration) String() string {
	v := time.Duration(d)

	neg := v < 0
	if neg {
		v = -v
	}

	if v < day {
		return time.Duration(d).String()
	}

	s := fmt.Sprintf("%dd", v/day)
	if rem := v % day; rem != 0 {
		s += rem.String()
	}
	if neg {
		s = "-" + s
	}
	return s
}
