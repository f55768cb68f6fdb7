//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package stream wraps the character-level recognizer in internal/state
// with token buffering, root-relative path tracking, and event emission,
// exposed as a lazy Go 1.23 iterator.
package stream

import (
	"strconv"

	"trpc.group/trpc-go/jsonstream/path"
)

// Type discriminates the kind of payload an Event carries.
type Type int

// Event variants, matching the documented emission rules.
const (
	OpenObject Type = iota
	CloseObject
	OpenArray
	CloseArray
	OpenKey
	AppendKey
	CloseKey
	OpenString
	AppendString
	CloseString
	OpenNumber
	SetNumber
	CloseNumber
	OpenBoolean
	CloseBoolean
	OpenNull
	CloseNull
)

var typeNames = map[Type]string{
	OpenObject: "open-object", CloseObject: "close-object",
	OpenArray: "open-array", CloseArray: "close-array",
	OpenKey: "open-key", AppendKey: "append-key", CloseKey: "close-key",
	OpenString: "open-string", AppendString: "append-string", CloseString: "close-string",
	OpenNumber: "open-number", SetNumber: "set-number", CloseNumber: "close-number",
	OpenBoolean: "open-boolean", CloseBoolean: "close-boolean",
	OpenNull: "open-null", CloseNull: "close-null",
}

// String renders the event type's documented name.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Event is one record of the parser's output. Which fields are meaningful
// depends on Type: Delta for append-string/append-key, Key for close-key,
// Number for set-number, Bool for open-boolean/close-boolean.
type Event struct {
	Type   Type
	Path   path.Path
	Delta  string
	Key    string
	Number float64
	Bool   bool
}

// String renders the event for diagnostics, e.g. "open-string $.name".
func (e Event) String() string {
	s := e.Type.String() + " " + e.Path.String()
	switch e.Type {
	case AppendString, AppendKey:
		s += " delta=" + e.Delta
	case CloseKey:
		s += " key=" + e.Key
	case SetNumber:
		s += " value=" + floatString(e.Number)
	case OpenBoolean, CloseBoolean:
		s += " value=" + boolString(e.Bool)
	}
	return s
}

func floatString(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
