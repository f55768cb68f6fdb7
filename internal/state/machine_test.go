//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package state_test

import (
	"errors"
	"testing"

	"trpc.group/trpc-go/jsonstream/internal/state"
)

func writeAll(m *state.Machine, s string) error {
	for _, r := range s {
		if err := m.WriteRune(r); err != nil {
			return err
		}
	}
	return nil
}

func TestAcceptsScenarios(t *testing.T) {
	cases := []string{
		`{}`,
		`[]`,
		`{"name":"John"}`,
		`[1,"two",true]`,
		`{"a":{"b":[1,2,3]},"c":null,"d":false,"e":-1.5e10}`,
		`  {  "a" : 1  }  `,
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			m := state.New()
			if err := writeAll(m, in); err != nil {
				t.Fatalf("WriteRune failed on %q: %v", in, err)
			}
			if err := m.Terminate(); err != nil {
				t.Fatalf("Terminate() failed on %q: %v", in, err)
			}
		})
	}
}

func TestLeadingZeroFollowedByDigitsIsAccepted(t *testing.T) {
	// Known, intentionally preserved limitation: RFC 8259 forbids this.
	m := state.New()
	if err := writeAll(m, "01"); err != nil {
		t.Fatalf("WriteRune failed: %v", err)
	}
	if err := m.Terminate(); err != nil {
		t.Fatalf("Terminate() failed: %v", err)
	}
}

func TestRejectsTrailingComma(t *testing.T) {
	m := state.New()
	err := writeAll(m, `{"a":1,}`)
	if err == nil {
		t.Fatalf("expected an error for a trailing comma in an object")
	}
	var syntaxErr *state.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected a *state.SyntaxError, got %T: %v", err, err)
	}
}

func TestRejectsUnknownLiteral(t *testing.T) {
	m := state.New()
	if err := writeAll(m, "tru"); err != nil {
		t.Fatalf("unexpected error mid-literal: %v", err)
	}
	if err := m.WriteRune('x'); err == nil {
		t.Fatalf("expected an error for 'trux'")
	}
}

func TestPrematureTerminationOnUnclosedString(t *testing.T) {
	m := state.New()
	if err := writeAll(m, `"unclosed`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Terminate(); !errors.Is(err, state.ErrPrematureTermination) {
		t.Fatalf("Terminate() = %v, want ErrPrematureTermination", err)
	}
}

func TestPrematureTerminationMidEscape(t *testing.T) {
	m := state.New()
	if err := writeAll(m, `{"p":"\`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Terminate(); !errors.Is(err, state.ErrPrematureTermination) {
		t.Fatalf("Terminate() = %v, want ErrPrematureTermination", err)
	}
}

func TestPrematureTerminationOnOpenContainer(t *testing.T) {
	m := state.New()
	if err := writeAll(m, `{"a":1`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Terminate(); !errors.Is(err, state.ErrPrematureTermination) {
		t.Fatalf("Terminate() = %v, want ErrPrematureTermination", err)
	}
}

func TestWriteAfterTerminateFails(t *testing.T) {
	m := state.New()
	if err := writeAll(m, `1`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Terminate(); err != nil {
		t.Fatalf("Terminate() failed: %v", err)
	}
	if err := m.WriteRune('2'); !errors.Is(err, state.ErrTerminated) {
		t.Fatalf("WriteRune after Terminate = %v, want ErrTerminated", err)
	}
	if err := m.Terminate(); !errors.Is(err, state.ErrTerminated) {
		t.Fatalf("second Terminate() = %v, want ErrTerminated", err)
	}
}

func TestUnicodeEscapeRequiresFourHexDigits(t *testing.T) {
	m := state.New()
	if err := writeAll(m, `"\u004`); err != nil {
		t.Fatalf("unexpected error mid-escape: %v", err)
	}
	if got, want := m.State(), state.StringEscapeUnicode; got != want {
		t.Fatalf("State() = %v, want %v (escape not yet complete)", got, want)
	}
	if err := m.WriteRune('1'); err != nil {
		t.Fatalf("unexpected error on 4th hex digit: %v", err)
	}
	if got, want := m.State(), state.StringEscapeUnicodeClose; got != want {
		t.Fatalf("State() = %v, want %v", got, want)
	}
}

func TestDepthTracksNesting(t *testing.T) {
	m := state.New()
	if err := writeAll(m, `{"a":[`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Depth(); got != 2 {
		t.Fatalf("Depth() = %d, want 2", got)
	}
}

func TestInKeyIntervalCoversOnlyTheKeyString(t *testing.T) {
	m := state.New()
	if err := m.WriteRune('{'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.WriteRune('"'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.InKey() {
		t.Fatalf("InKey() should be true once a key's string has opened")
	}
	if err := writeAll(m, `a"`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.InKey() {
		t.Fatalf("InKey() should remain true through key-close")
	}
	if err := m.WriteRune(':'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.InKey() {
		t.Fatalf("InKey() should clear once the colon is consumed")
	}
}
