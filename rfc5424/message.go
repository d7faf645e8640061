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

// Package rfc5424 implements an octet-counted RFC 5424 structured-syslog
// lexer as a downstream pipeline.Handler: a byte-level state machine reads
// from a ringbuffer.CyclicBuffer accumulator and produces SyslogMessage
// values, demonstrating the reactor/pipeline core.
package rfc5424

// StructuredDataField is one NAME="VALUE" pair inside an SD element.
type StructuredDataField struct {
	Name  string
	Value string
}

// StructuredData holds the fields of one bracketed SD element, keyed by
// field name in the order they were parsed.
type StructuredData struct {
	Name   string
	Fields map[string]StructuredDataField
	Order  []string
}

func newStructuredData(name string) *StructuredData {
	return &StructuredData{Name: name, Fields: make(map[string]StructuredDataField)}
}

func (sd *StructuredData) addField(f StructuredDataField) {
	sd.Fields[f.Name] = f
	sd.Order = append(sd.Order, f.Name)
}

// SyslogMessage is the parsed record produced by one complete frame.
// Fields are owned copies: the lexer materializes them out of the
// accumulator at extraction time rather than returning borrowed slices, so
// a SyslogMessage remains valid across subsequent parse_next calls.
type SyslogMessage struct {
	Priority  string
	Version   string
	Timestamp string
	Hostname  string
	AppName   string
	ProcessID string
	MessageID string

	StructuredData map[string]*StructuredData
	SDOrder        []string

	Body string
}

func newSyslogMessage() *SyslogMessage {
	return &SyslogMessage{StructuredData: make(map[string]*StructuredData)}
}

func (m *SyslogMessage) addStructuredData(sd *StructuredData) {
	m.StructuredData[sd.Name] = sd
	m.SDOrder = append(m.SDOrder, sd.Name)
}
