//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package state implements the character-level JSON grammar recognizer
// that the streaming parser drives one rune at a time. It carries no
// values of its own — it only tracks which grammar production is active,
// the stack of open containers, and whether the current string is an
// object key — so that the layer above can interpret transitions and
// buffer payloads.
//
// The transition policy mirrors a conventional recursive-descent JSON
// validator (see the teacher's internal/util/stream_json_parser.go
// handle*State methods), generalized into an explicit table of named
// states so chunked input, delayed number termination, and the isInKey
// interval can all be reasoned about precisely — none of which the
// teacher's simpler single-pass version tracked.
package state

import (
	"fmt"
)

// State names one node of the JSON grammar recognizer. String states that
// only differ by how many hex digits of a unicode escape have been read
// collapse onto StringEscapeUnicode plus an internal counter; the digit
// count is not exposed.
type State int

// Recognizer states, grouped as in the specification.
const (
	Open State = iota
	ValueClose

	ArrayOpen
	ArrayComma
	ArrayClose
	ObjectOpen
	ObjectComma
	ObjectMemberSeparator
	ObjectClose
	KeyClose

	StringOpen
	StringChar
	StringClose
	StringEscape
	StringEscapedChar
	StringEscapeUnicode
	StringEscapeUnicodeClose

	NumberSign
	NumberIntegerZero
	NumberInteger
	NumberDecimal
	NumberDecimalDigit
	NumberExponent
	NumberExponentSign
	NumberExponentDigit

	TrueOpen
	True2
	True3
	TrueClose

	FalseOpen
	False2
	False3
	False4
	FalseClose

	NullOpen
	Null2
	Null3
	NullClose

	End
)

var stateNames = map[State]string{
	Open: "open", ValueClose: "value-close",
	ArrayOpen: "array-open", ArrayComma: "array-comma", ArrayClose: "array-close",
	ObjectOpen: "object-open", ObjectComma: "object-comma",
	ObjectMemberSeparator: "object-member-separator", ObjectClose: "object-close",
	KeyClose:                 "key-close",
	StringOpen:               "string-open",
	StringChar:               "string-char",
	StringClose:              "string-close",
	StringEscape:             "string-escape",
	StringEscapedChar:        "string-escaped-char",
	StringEscapeUnicode:      "string-escape-unicode",
	StringEscapeUnicodeClose: "string-escape-unicode-close",
	NumberSign:               "number-sign",
	NumberIntegerZero:        "number-integer-zero",
	NumberInteger:            "number-integer",
	NumberDecimal:            "number-decimal",
	NumberDecimalDigit:       "number-decimal-digit",
	NumberExponent:           "number-exponent",
	NumberExponentSign:       "number-exponent-sign",
	NumberExponentDigit:      "number-exponent-digit",
	TrueOpen:                 "true-open", True2: "true-2", True3: "true-3", TrueClose: "true-close",
	FalseOpen: "false-open", False2: "false-2", False3: "false-3", False4: "false-4", FalseClose: "false-close",
	NullOpen: "null-open", Null2: "null-2", Null3: "null-3", NullClose: "null-close",
	End: "end",
}

// String renders the state's documented name, e.g. "string-escape-unicode".
// StringEscapeUnicode renders the same name whatever number of hex digits
// has been read.
func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// frameKind tags an entry on the container stack.
type frameKind int

const (
	frameObject frameKind = iota
	frameArray
)

// SyntaxError is returned for any character the machine has no legal
// transition for, carrying enough context to diagnose where and why.
// Shaped after the reference implementation's jsonrepair.Error{Message,
// Position}, with the offending state name added.
type SyntaxError struct {
	Message string
	State   string
	Offset  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d (state %s)", e.Message, e.Offset, e.State)
}

// Sentinel errors for the two non-syntax fatal conditions spec.md §7
// distinguishes from invalid-character errors.
var (
	// ErrPrematureTermination is returned by Terminate when the state is
	// not terminally valid or containers remain open.
	ErrPrematureTermination = fmt.Errorf("premature termination")
	// ErrTerminated is returned by WriteRune or Terminate once the
	// machine has already terminated; it never becomes usable again.
	ErrTerminated = fmt.Errorf("write after termination")
)

// Machine is a character-driven recognizer for the JSON grammar. The zero
// value is not ready to use; call New.
type Machine struct {
	state       State
	stack       []frameKind
	inKey       bool
	unicodeRead int // hex digits consumed for the current \uXXXX, 0..4
	offset      int // runes consumed so far, for error diagnostics
	terminated  bool
}

// New returns a Machine ready to recognize a single top-level JSON value.
func New() *Machine {
	return &Machine{state: Open}
}

// State reports the machine's current recognizer state.
func (m *Machine) State() State { return m.state }

// Depth reports the number of currently open containers.
func (m *Machine) Depth() int { return len(m.stack) }

// InKey reports whether the machine is currently inside an object key's
// string, from the key's opening quote up to and including its
// terminating close-key.
func (m *Machine) InKey() bool { return m.inKey }

// Offset reports how many runes have been written so far.
func (m *Machine) Offset() int { return m.offset }

// Terminated reports whether Terminate has already succeeded.
func (m *Machine) Terminated() bool { return m.terminated }

func (m *Machine) push(k frameKind) { m.stack = append(m.stack, k) }

func (m *Machine) pop() {
	if len(m.stack) > 0 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

func (m *Machine) top() (frameKind, bool) {
	if len(m.stack) == 0 {
		return 0, false
	}
	return m.stack[len(m.stack)-1], true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHex(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (m *Machine) errInvalid(r rune) error {
	return &SyntaxError{
		Message: fmt.Sprintf("unexpected character %q", r),
		State:   m.state.String(),
		Offset:  m.offset,
	}
}

// terminalStates are the states Terminate will accept, provided the
// container stack is also empty.
var terminalStates = map[State]bool{
	NumberIntegerZero: true, NumberInteger: true, NumberDecimalDigit: true, NumberExponentDigit: true,
	StringClose: true, TrueClose: true, FalseClose: true, NullClose: true,
	ObjectClose: true, ArrayClose: true, ValueClose: true,
}

// Terminate signals end of input. It succeeds only when the current state
// is terminally valid and no containers remain open; otherwise it returns
// ErrPrematureTermination. After a successful call the machine rejects any
// further WriteRune.
func (m *Machine) Terminate() error {
	if m.terminated {
		return ErrTerminated
	}
	if len(m.stack) != 0 || !terminalStates[m.state] {
		return ErrPrematureTermination
	}
	m.terminated = true
	m.state = End
	return nil
}

// WriteRune advances the machine by one character. It returns a
// *SyntaxError for any character with no legal transition from the
// current state, ErrTerminated if called after Terminate has succeeded.
func (m *Machine) WriteRune(r rune) error {
	if m.terminated {
		return ErrTerminated
	}
	m.offset++

	switch m.state {
	case Open, ArrayComma, ObjectMemberSeparator:
		return m.valueAccept(r)
	case ArrayOpen:
		return m.handleArrayOpen(r)
	case ObjectOpen:
		return m.handleObjectOpen(r)
	case ObjectComma:
		return m.handleObjectComma(r)
	case KeyClose:
		return m.handleKeyClose(r)

	case StringOpen, StringChar, StringEscapeUnicodeClose, StringEscapedChar:
		return m.handleStringContent(r)
	case StringEscape:
		return m.handleStringEscape(r)
	case StringEscapeUnicode:
		return m.handleUnicodeDigit(r)

	case NumberSign:
		return m.handleNumberSign(r)
	case NumberIntegerZero, NumberInteger:
		return m.handleNumberIntegerDigit(r)
	case NumberDecimal:
		return m.handleNumberDecimalStart(r)
	case NumberDecimalDigit:
		return m.handleNumberDecimalDigit(r)
	case NumberExponent:
		return m.handleNumberExponentStart(r)
	case NumberExponentSign:
		return m.handleNumberExponentSignDigit(r)
	case NumberExponentDigit:
		return m.handleNumberExponentDigit(r)

	case TrueOpen:
		return m.expect(r, 'r', True2)
	case True2:
		return m.expect(r, 'u', True3)
	case True3:
		return m.expect(r, 'e', TrueClose)

	case FalseOpen:
		return m.expect(r, 'a', False2)
	case False2:
		return m.expect(r, 'l', False3)
	case False3:
		return m.expect(r, 's', False4)
	case False4:
		return m.expect(r, 'e', FalseClose)

	case NullOpen:
		return m.expect(r, 'u', Null2)
	case Null2:
		return m.expect(r, 'l', Null3)
	case Null3:
		return m.expect(r, 'l', NullClose)

	case StringClose, TrueClose, FalseClose, NullClose, ObjectClose, ArrayClose, ValueClose:
		return m.afterValue(r)

	case End:
		return ErrTerminated

	default:
		return m.errInvalid(r)
	}
}

// valueAccept dispatches the first character of a value from any
// value-accepting context (open, array-comma, object-member-separator).
func (m *Machine) valueAccept(r rune) error {
	if isSpace(r) {
		return nil
	}
	switch r {
	case '{':
		m.push(frameObject)
		m.state = ObjectOpen
		return nil
	case '[':
		m.push(frameArray)
		m.state = ArrayOpen
		return nil
	case '"':
		m.inKey = false
		m.state = StringOpen
		return nil
	case 't':
		m.state = TrueOpen
		return nil
	case 'f':
		m.state = FalseOpen
		return nil
	case 'n':
		m.state = NullOpen
		return nil
	case '-':
		m.state = NumberSign
		return nil
	case '0':
		m.state = NumberIntegerZero
		return nil
	}
	if r >= '1' && r <= '9' {
		m.state = NumberInteger
		return nil
	}
	return m.errInvalid(r)
}

func (m *Machine) handleArrayOpen(r rune) error {
	if isSpace(r) {
		return nil
	}
	if r == ']' {
		m.pop()
		m.state = ArrayClose
		return nil
	}
	return m.valueAccept(r)
}

func (m *Machine) handleObjectOpen(r rune) error {
	if isSpace(r) {
		return nil
	}
	switch r {
	case '}':
		m.pop()
		m.state = ObjectClose
		return nil
	case '"':
		m.inKey = true
		m.state = StringOpen
		return nil
	}
	return m.errInvalid(r)
}

func (m *Machine) handleObjectComma(r rune) error {
	if isSpace(r) {
		return nil
	}
	if r == '"' {
		m.inKey = true
		m.state = StringOpen
		return nil
	}
	return m.errInvalid(r)
}

func (m *Machine) handleKeyClose(r rune) error {
	if isSpace(r) {
		return nil
	}
	if r == ':' {
		m.inKey = false
		m.state = ObjectMemberSeparator
		return nil
	}
	return m.errInvalid(r)
}

// afterValue is the shared "a value just completed" dispatch: whitespace
// is absorbed into value-close, and otherwise the enclosing container (if
// any) decides whether a comma or closing bracket/brace is legal.
func (m *Machine) afterValue(r rune) error {
	if isSpace(r) {
		m.state = ValueClose
		return nil
	}
	kind, ok := m.top()
	if !ok {
		return m.errInvalid(r)
	}
	switch kind {
	case frameArray:
		switch r {
		case ',':
			m.state = ArrayComma
			return nil
		case ']':
			m.pop()
			m.state = ArrayClose
			return nil
		}
	case frameObject:
		switch r {
		case ',':
			m.state = ObjectComma
			return nil
		case '}':
			m.pop()
			m.state = ObjectClose
			return nil
		}
	}
	return m.errInvalid(r)
}

// handleStringContent is shared by string-open, string-char,
// string-escaped-char, and string-escape-unicode-close: each of those
// states accepts an arbitrary content character, a backslash starting a
// new escape, or the closing quote.
func (m *Machine) handleStringContent(r rune) error {
	switch r {
	case '"':
		if m.inKey {
			m.state = KeyClose
		} else {
			m.state = StringClose
		}
		return nil
	case '\\':
		m.state = StringEscape
		return nil
	default:
		m.state = StringChar
		return nil
	}
}

func (m *Machine) handleStringEscape(r rune) error {
	switch r {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		m.state = StringEscapedChar
		return nil
	case 'u':
		m.state = StringEscapeUnicode
		m.unicodeRead = 0
		return nil
	}
	return m.errInvalid(r)
}

func (m *Machine) handleUnicodeDigit(r rune) error {
	if !isHex(r) {
		return m.errInvalid(r)
	}
	m.unicodeRead++
	if m.unicodeRead >= 4 {
		m.unicodeRead = 0
		m.state = StringEscapeUnicodeClose
	}
	return nil
}

func (m *Machine) handleNumberSign(r rune) error {
	if r == '0' {
		m.state = NumberIntegerZero
		return nil
	}
	if r >= '1' && r <= '9' {
		m.state = NumberInteger
		return nil
	}
	return m.errInvalid(r)
}

func (m *Machine) handleNumberIntegerDigit(r rune) error {
	if isDigit(r) {
		m.state = NumberInteger
		return nil
	}
	switch r {
	case '.':
		m.state = NumberDecimal
		return nil
	case 'e', 'E':
		m.state = NumberExponent
		return nil
	}
	return m.afterValue(r)
}

func (m *Machine) handleNumberDecimalStart(r rune) error {
	if isDigit(r) {
		m.state = NumberDecimalDigit
		return nil
	}
	return m.errInvalid(r)
}

func (m *Machine) handleNumberDecimalDigit(r rune) error {
	if isDigit(r) {
		return nil
	}
	if r == 'e' || r == 'E' {
		m.state = NumberExponent
		return nil
	}
	return m.afterValue(r)
}

func (m *Machine) handleNumberExponentStart(r rune) error {
	if r == '+' || r == '-' {
		m.state = NumberExponentSign
		return nil
	}
	if isDigit(r) {
		m.state = NumberExponentDigit
		return nil
	}
	return m.errInvalid(r)
}

func (m *Machine) handleNumberExponentSignDigit(r rune) error {
	if isDigit(r) {
		m.state = NumberExponentDigit
		return nil
	}
	return m.errInvalid(r)
}

func (m *Machine) handleNumberExponentDigit(r rune) error {
	if isDigit(r) {
		return nil
	}
	return m.afterValue(r)
}

// expect checks r against a single required character, advancing to next
// on match; used by the true/false/null literal sub-machines.
func (m *Machine) expect(r, want rune, next State) error {
	if r != want {
		return m.errInvalid(r)
	}
	m.state = next
	return nil
}
