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

package rfc5424

import (
	"strconv"
	"strings"

	"github.com/nabbar/netreactor/rerr"
	"github.com/nabbar/netreactor/ringbuffer"
)

type state int

const (
	stateStart state = iota
	stateReadOctet
	stateReadPri
	stateReadVersion
	stateReadTimestamp
	stateReadHostname
	stateReadAppName
	stateReadProcessID
	stateReadMessageID
	stateReadSDElement
	stateReadSDElementName
	stateReadSDFieldName
	stateReadSDValueStart
	stateReadSDValueContent
	stateReadSDNextFieldOrEnd
	stateReadMessage
)

const (
	sp = ' '

	limitOctet       = 9
	limitPri         = 5
	limitVersion     = 2
	limitTimestamp   = 48
	limitHostname    = 255
	limitAppName     = 48
	limitProcessID   = 128
	limitMessageID   = 32
	limitSDElemName  = 32
	limitSDFieldName = 32
	limitSDValStart  = 32
	limitSDValue     = 255
)

// Lexer is the per-connection RFC 5424 octet-counted state machine: it
// accumulates bytes in a CyclicBuffer and drives itself state-to-state,
// exactly as described by the per-state delimiter/limit table, producing one
// SyslogMessage per complete frame.
type Lexer struct {
	acc *ringbuffer.CyclicBuffer
	st  state

	msg        *SyslogMessage
	sd         *StructuredData
	fieldName  string
	octetCount int
}

// NewLexer returns a Lexer ready to consume the first frame.
func NewLexer() *Lexer {
	return &Lexer{acc: ringbuffer.New(512), st: stateStart}
}

// Feed appends chunk to the accumulator and runs parse_next until it either
// needs more data or fails. Every frame it completes along the way is passed
// to onMessage, in order. A non-nil error is always rerr.MalformedFrame and
// means the lexer must not be fed further; the caller should close the
// connection.
func (l *Lexer) Feed(chunk []byte, onMessage func(*SyslogMessage)) error {
	l.acc.Put(chunk)

	for {
		msg, needMore, err := l.parseNext()
		if err != nil {
			return err
		}
		if msg != nil {
			onMessage(msg)
			if l.acc.Available() == 0 {
				// Between frames: stay on the start state rather than
				// eagerly opening the next frame.
				return nil
			}
		}
		if needMore {
			return nil
		}
	}
}

// Idle reports whether the lexer sits between frames: start state, nothing
// buffered.
func (l *Lexer) Idle() bool {
	return l.st == stateStart && l.acc.Available() == 0
}

// parseNext runs exactly one state transition. It returns a non-nil msg only
// when the transition lands back on START with a freshly completed frame.
func (l *Lexer) parseNext() (msg *SyslogMessage, needMore bool, err error) {
	switch l.st {
	case stateStart:
		l.msg = newSyslogMessage()
		l.sd = nil
		l.fieldName = ""
		l.octetCount = 0
		l.st = stateReadOctet
		return nil, false, nil

	case stateReadOctet:
		v, more, err := l.readField(sp, limitOctet, false)
		if more || err != nil {
			return nil, more, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(string(v)))
		if convErr != nil || n < 0 {
			return nil, false, rerr.MalformedFrame.Errorf("invalid octet count %q", v)
		}
		l.octetCount = n
		l.st = stateReadPri
		return nil, false, nil

	case stateReadPri:
		v, more, err := l.readField('>', limitPri, true)
		if more || err != nil {
			return nil, more, err
		}
		l.msg.Priority = strings.TrimPrefix(string(v), "<")
		l.st = stateReadVersion
		return nil, false, nil

	case stateReadVersion:
		v, more, err := l.readField(sp, limitVersion, true)
		if more || err != nil {
			return nil, more, err
		}
		l.msg.Version = string(v)
		l.st = stateReadTimestamp
		return nil, false, nil

	case stateReadTimestamp:
		v, more, err := l.readField(sp, limitTimestamp, true)
		if more || err != nil {
			return nil, more, err
		}
		l.msg.Timestamp = string(v)
		l.st = stateReadHostname
		return nil, false, nil

	case stateReadHostname:
		v, more, err := l.readField(sp, limitHostname, true)
		if more || err != nil {
			return nil, more, err
		}
		l.msg.Hostname = string(v)
		l.st = stateReadAppName
		return nil, false, nil

	case stateReadAppName:
		v, more, err := l.readField(sp, limitAppName, true)
		if more || err != nil {
			return nil, more, err
		}
		l.msg.AppName = string(v)
		l.st = stateReadProcessID
		return nil, false, nil

	case stateReadProcessID:
		v, more, err := l.readField(sp, limitProcessID, true)
		if more || err != nil {
			return nil, more, err
		}
		l.msg.ProcessID = string(v)
		l.st = stateReadMessageID
		return nil, false, nil

	case stateReadMessageID:
		v, more, err := l.readField(sp, limitMessageID, true)
		if more || err != nil {
			return nil, more, err
		}
		l.msg.MessageID = string(v)
		l.st = stateReadSDElement
		return nil, false, nil

	case stateReadSDElement:
		b, ok := l.acc.PeekByte(0)
		if !ok {
			return nil, true, nil
		}
		switch b {
		case sp:
			l.acc.Skip(1)
			l.octetCount--
			l.st = stateReadMessage
		case '[':
			l.acc.Skip(1)
			l.octetCount--
			l.st = stateReadSDElementName
		default:
			return nil, false, rerr.MalformedFrame.Errorf("unexpected byte %q in READ_SD_ELEMENT", b)
		}
		return nil, false, nil

	case stateReadSDElementName:
		v, more, err := l.readField(sp, limitSDElemName, true)
		if more || err != nil {
			return nil, more, err
		}
		l.sd = newStructuredData(string(v))
		l.msg.addStructuredData(l.sd)
		l.st = stateReadSDFieldName
		return nil, false, nil

	case stateReadSDFieldName:
		v, more, err := l.readField('=', limitSDFieldName, true)
		if more || err != nil {
			return nil, more, err
		}
		l.fieldName = string(v)
		l.st = stateReadSDValueStart
		return nil, false, nil

	case stateReadSDValueStart:
		_, more, err := l.readField('"', limitSDValStart, true)
		if more || err != nil {
			return nil, more, err
		}
		l.st = stateReadSDValueContent
		return nil, false, nil

	case stateReadSDValueContent:
		v, more, err := l.readField('"', limitSDValue, true)
		if more || err != nil {
			return nil, more, err
		}
		l.sd.addField(StructuredDataField{Name: l.fieldName, Value: string(v)})
		l.st = stateReadSDNextFieldOrEnd
		return nil, false, nil

	case stateReadSDNextFieldOrEnd:
		b, ok := l.acc.PeekByte(0)
		if !ok {
			return nil, true, nil
		}
		switch b {
		case sp:
			l.acc.Skip(1)
			l.octetCount--
			l.st = stateReadSDFieldName
		case ']':
			l.acc.Skip(1)
			l.octetCount--
			l.st = stateReadSDElement
		default:
			return nil, false, rerr.MalformedFrame.Errorf("unexpected byte %q in READ_SD_NEXT_FIELD_OR_END", b)
		}
		return nil, false, nil

	case stateReadMessage:
		if l.octetCount < 0 {
			return nil, false, rerr.MalformedFrame.Errorf("negative octet count remaining")
		}
		if l.acc.Available() < l.octetCount {
			return nil, true, nil
		}
		dst := make([]byte, l.octetCount)
		l.acc.Get(dst)
		l.msg.Body = string(dst)

		done := l.msg
		l.st = stateStart
		return done, false, nil

	default:
		return nil, false, rerr.InvalidState.Error()
	}
}

// readField reads up to the delimiter within limit bytes, per the shared
// READ_* contract: -1/nil from GetUntil means need more data, a MalformedFrame
// means the limit was exhausted without finding delim. On success it skips
// the delimiter itself and, when countsTowardOctet, debits the consumed byte
// count (value plus delimiter) from the current frame's remaining octets.
func (l *Lexer) readField(delim byte, limit int, countsTowardOctet bool) (value []byte, needMore bool, err error) {
	dst := make([]byte, limit)
	n, err := l.acc.GetUntil(delim, dst, limit)
	if err != nil {
		return nil, false, err
	}
	if n == -1 {
		return nil, true, nil
	}

	l.acc.Skip(1)
	if countsTowardOctet {
		l.octetCount -= n + 1
	}

	return dst[:n], false, nil
}
