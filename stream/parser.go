//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package stream

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"trpc.group/trpc-go/jsonstream/internal/state"
	"trpc.group/trpc-go/jsonstream/path"
)

// Parser drives an internal/state.Machine one rune at a time and
// translates its transitions into the Event sequence documented for this
// package: structural open/close events, deferred string and key flushes,
// and number provisional/final values. A Parser is created once per
// document and consumed monotonically; it rejects further input once it
// has terminated or errored.
type Parser struct {
	id      uuid.UUID
	machine *state.Machine
	path    path.Path
	errored bool

	numberBuf  strings.Builder
	stringBuf  strings.Builder
	unicodeBuf strings.Builder
	currentKey strings.Builder

	inString      bool
	inStringIsKey bool
	keyFlushed    bool

	pendingBytes []byte
}

// New returns a Parser ready to consume a single top-level JSON value.
func New() *Parser {
	return &Parser{id: uuid.New(), machine: state.New()}
}

// ID returns the Parser's unique stream identifier, useful for correlating
// log lines and trace spans across concurrently running instances.
func (p *Parser) ID() uuid.UUID { return p.id }

// Errored reports whether a prior Write call left this Parser unusable,
// without needing to inspect the last yielded error.
func (p *Parser) Errored() bool { return p.errored || p.machine.Terminated() }

// Write feeds chunk into the parser and returns a lazy sequence of the
// events that chunk produces. Set terminate on the final chunk of the
// document; the parser validates that the input ended in a legal state
// once the chunk is fully drained. Consumers may stop iterating early; the
// parser's internal state reflects exactly the runes consumed up to that
// point, so resuming with another Write call after an early stop is not
// supported — either drain the sequence or discard the Parser.
func (p *Parser) Write(chunk string, terminate bool) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		if p.Errored() {
			yield(Event{}, ErrParserClosed)
			return
		}

		data := chunk
		if len(p.pendingBytes) > 0 {
			data = string(p.pendingBytes) + chunk
			p.pendingBytes = nil
		}

		for i := 0; i < len(data); {
			rest := data[i:]
			if !utf8.FullRune([]byte(rest)) && !terminate && len(rest) < utf8.UTFMax {
				p.pendingBytes = []byte(rest)
				i = len(data)
				break
			}
			r, size := utf8.DecodeRuneInString(rest)
			if r == utf8.RuneError && size <= 1 {
				p.errored = true
				yield(Event{}, fmt.Errorf("jsonstream: invalid utf-8 at offset %d", p.machine.Offset()))
				return
			}
			i += size

			events, err := p.processRune(r)
			if err != nil {
				p.errored = true
				yield(Event{}, err)
				return
			}
			for _, ev := range events {
				if !yield(ev, nil) {
					return
				}
			}
		}

		for _, ev := range p.flushAtChunkEnd(terminate) {
			if !yield(ev, nil) {
				return
			}
		}

		if terminate {
			if err := p.machine.Terminate(); err != nil {
				p.errored = true
				yield(Event{}, err)
				return
			}
		}
	}
}

// WriteAll is a non-lazy convenience over Write for callers, such as tests,
// that want the whole event slice rather than streaming iteration.
func (p *Parser) WriteAll(chunk string, terminate bool) ([]Event, error) {
	var events []Event
	for ev, err := range p.Write(chunk, terminate) {
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// processRune advances the state machine by one rune and derives whatever
// events that single transition implies. A number's natural terminator is
// the one case where a single rune closes one production (the number) and
// immediately opens another transition (a comma or closing bracket), so
// the number-close check always runs first.
func (p *Parser) processRune(r rune) ([]Event, error) {
	prev := p.machine.State()
	if err := p.machine.WriteRune(r); err != nil {
		return nil, err
	}
	cur := p.machine.State()

	var events []Event

	if isNumberTerminal(prev) && !isNumberFamily(cur) {
		events = append(events, p.closeNumber()...)
	}

	switch cur {
	case state.StringChar:
		p.stringBuf.WriteRune(r)
	case state.StringEscapedChar:
		p.stringBuf.WriteRune(decodeOneCharEscape(r))
	case state.StringEscapeUnicode:
		if prev == state.StringEscapeUnicode {
			p.unicodeBuf.WriteRune(r)
		}
	case state.StringEscapeUnicodeClose:
		p.unicodeBuf.WriteRune(r)
		p.stringBuf.WriteRune(decodeUnicodeEscape(p.unicodeBuf.String()))
		p.unicodeBuf.Reset()
	}

	if prev != state.StringOpen && cur == state.StringOpen {
		p.keyFlushed = false
		p.inString = true
		p.inStringIsKey = p.machine.InKey()
		if p.inStringIsKey {
			events = append(events, Event{Type: OpenKey, Path: p.path.Clone()})
		} else {
			events = append(events, Event{Type: OpenString, Path: p.path.Clone()})
		}
	}

	if !isNumberFamily(prev) && isNumberOpen(cur) {
		events = append(events, Event{Type: OpenNumber, Path: p.path.Clone()})
	}
	if isNumberFamily(cur) {
		p.numberBuf.WriteRune(r)
	}

	if prev != state.TrueOpen && cur == state.TrueOpen {
		events = append(events, Event{Type: OpenBoolean, Bool: true, Path: p.path.Clone()})
	}
	if prev != state.FalseOpen && cur == state.FalseOpen {
		events = append(events, Event{Type: OpenBoolean, Bool: false, Path: p.path.Clone()})
	}
	if prev != state.NullOpen && cur == state.NullOpen {
		events = append(events, Event{Type: OpenNull, Path: p.path.Clone()})
	}
	if prev != state.TrueClose && cur == state.TrueClose {
		events = append(events, Event{Type: CloseBoolean, Bool: true, Path: p.path.Clone()})
	}
	if prev != state.FalseClose && cur == state.FalseClose {
		events = append(events, Event{Type: CloseBoolean, Bool: false, Path: p.path.Clone()})
	}
	if prev != state.NullClose && cur == state.NullClose {
		events = append(events, Event{Type: CloseNull, Path: p.path.Clone()})
	}

	if prev != state.KeyClose && cur == state.KeyClose {
		events = append(events, p.flushKey(true)...)
		p.inString = false
		key := p.currentKey.String()
		p.currentKey.Reset()
		p.path = append(p.path, path.Key(key))
		events = append(events, Event{Type: CloseKey, Key: key, Path: p.path.Clone()})
	}
	if prev != state.StringClose && cur == state.StringClose {
		events = append(events, p.flushString()...)
		p.inString = false
		events = append(events, Event{Type: CloseString, Path: p.path.Clone()})
	}

	if prev != state.ObjectOpen && cur == state.ObjectOpen {
		events = append(events, Event{Type: OpenObject, Path: p.path.Clone()})
	}
	if prev != state.ArrayOpen && cur == state.ArrayOpen {
		events = append(events, Event{Type: OpenArray, Path: p.path.Clone()})
		p.path = append(p.path, path.Index(0))
	}
	if prev != state.ArrayComma && cur == state.ArrayComma {
		if n := len(p.path); n > 0 {
			p.path[n-1].Index++
		}
	}
	if prev != state.ObjectComma && cur == state.ObjectComma {
		p.popKeyIfPresent()
	}
	if prev != state.ArrayClose && cur == state.ArrayClose {
		if n := len(p.path); n > 0 {
			p.path = p.path[:n-1]
		}
		events = append(events, Event{Type: CloseArray, Path: p.path.Clone()})
	}
	if prev != state.ObjectClose && cur == state.ObjectClose {
		p.popKeyIfPresent()
		events = append(events, Event{Type: CloseObject, Path: p.path.Clone()})
	}

	return events, nil
}

// flushAtChunkEnd applies the two end-of-chunk deferred-flush rules: a
// pending string/key buffer is flushed unconditionally, and a
// still-in-progress number emits a provisional set-number (and, only if
// this is the final chunk, the matching close-number).
func (p *Parser) flushAtChunkEnd(terminate bool) []Event {
	var events []Event
	if p.inString {
		if p.inStringIsKey {
			events = append(events, p.flushKey(false)...)
		} else {
			events = append(events, p.flushString()...)
		}
	}
	if isNumberTerminal(p.machine.State()) && p.numberBuf.Len() > 0 {
		events = append(events, Event{Type: SetNumber, Number: p.parseNumber(), Path: p.path.Clone()})
		if terminate {
			events = append(events, Event{Type: CloseNumber, Path: p.path.Clone()})
			p.numberBuf.Reset()
		}
	}
	return events
}

// closeNumber parses the accumulated digits, emits the final set-number
// and close-number pair, and clears the number buffer.
func (p *Parser) closeNumber() []Event {
	if p.numberBuf.Len() == 0 {
		return nil
	}
	ev := []Event{
		{Type: SetNumber, Number: p.parseNumber(), Path: p.path.Clone()},
		{Type: CloseNumber, Path: p.path.Clone()},
	}
	p.numberBuf.Reset()
	return ev
}

func (p *Parser) parseNumber() float64 {
	v, _ := strconv.ParseFloat(p.numberBuf.String(), 64)
	return v
}

// flushString emits the pending string-buffer content as a single
// append-string, if any has accrued since the last flush.
func (p *Parser) flushString() []Event {
	if p.stringBuf.Len() == 0 {
		return nil
	}
	delta := p.stringBuf.String()
	p.stringBuf.Reset()
	return []Event{{Type: AppendString, Delta: delta, Path: p.path.Clone()}}
}

// flushKey emits the pending string-buffer content as a single append-key.
// Unlike flushString, closing forces an emission (with an empty delta if
// necessary) when no append-key has fired yet for this key, matching the
// documented behavior for a key that opens and closes with no content.
func (p *Parser) flushKey(closing bool) []Event {
	if p.stringBuf.Len() == 0 && !(closing && !p.keyFlushed) {
		return nil
	}
	delta := p.stringBuf.String()
	p.stringBuf.Reset()
	p.currentKey.WriteString(delta)
	p.keyFlushed = true
	return []Event{{Type: AppendKey, Delta: delta, Path: p.path.Clone()}}
}

func (p *Parser) popKeyIfPresent() {
	if n := len(p.path); n > 0 && p.path[n-1].Kind == path.KindKey {
		p.path = p.path[:n-1]
	}
}

func isNumberOpen(s state.State) bool {
	return s == state.NumberSign || s == state.NumberIntegerZero || s == state.NumberInteger
}

func isNumberTerminal(s state.State) bool {
	return s == state.NumberIntegerZero || s == state.NumberInteger ||
		s == state.NumberDecimalDigit || s == state.NumberExponentDigit
}

func isNumberFamily(s state.State) bool {
	switch s {
	case state.NumberSign, state.NumberIntegerZero, state.NumberInteger,
		state.NumberDecimal, state.NumberDecimalDigit,
		state.NumberExponent, state.NumberExponentSign, state.NumberExponentDigit:
		return true
	}
	return false
}

// decodeOneCharEscape maps a recognized single-character escape to its
// decoded value; r has already been validated by the state machine.
func decodeOneCharEscape(r rune) rune {
	switch r {
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return r // " \ /
	}
}

// decodeUnicodeEscape decodes a 4-hex-digit \uXXXX escape as a single
// UTF-16 code unit reinterpreted directly as a rune. Per the carried-
// forward limitation in the design notes, surrogate pairs above U+FFFF are
// not reassembled: each \uXXXX becomes its own, independent code point.
func decodeUnicodeEscape(hex string) rune {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return utf8.RuneError
	}
	return rune(v)
}
