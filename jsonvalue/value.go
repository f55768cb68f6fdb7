//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package jsonvalue holds the polymorphic JSON value representation shared
// by the listener's accumulators. A JSON value is modeled as an explicit
// tagged union rather than a bare interface{}, and object members are kept
// in an ordered pair list rather than a Go map so that output order is
// reproducible across runs.
package jsonvalue

import "strconv"

// Kind discriminates the concrete type a Value currently holds.
type Kind int

// Possible value kinds.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns a human-readable name for k.
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// member is one key/value pair of an Object-kind Value, kept in insertion
// order. A duplicate key overwrites the existing member's value in place
// (see Value.SetKey) rather than appending a second pair, matching the
// accumulator's documented duplicate-key behavior.
type member struct {
	key string
	val *Value
}

// Value is a mutable node in a partially or fully materialized JSON tree.
// Listener accumulators hold a *Value per subscription and grow it in
// place as events arrive; nothing about Value is safe for concurrent use.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	text    string
	items   []*Value
	members []member
}

// NewNull returns a new null-kind value.
func NewNull() *Value { return &Value{kind: Null} }

// NewBool returns a new bool-kind value.
func NewBool(b bool) *Value { return &Value{kind: Bool, boolean: b} }

// NewNumber returns a new number-kind value.
func NewNumber(n float64) *Value { return &Value{kind: Number, number: n} }

// NewString returns a new string-kind value.
func NewString(s string) *Value { return &Value{kind: String, text: s} }

// NewArray returns a new, empty array-kind value.
func NewArray() *Value { return &Value{kind: Array} }

// NewObject returns a new, empty object-kind value.
func NewObject() *Value { return &Value{kind: Object} }

// Kind reports v's current kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// Bool returns v's boolean payload; zero value if v is not Bool-kind.
func (v *Value) Bool() bool {
	if v == nil {
		return false
	}
	return v.boolean
}

// Number returns v's numeric payload; zero value if v is not Number-kind.
func (v *Value) Number() float64 {
	if v == nil {
		return 0
	}
	return v.number
}

// Text returns v's string payload; empty string if v is not String-kind.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	return v.text
}

// Items returns v's array elements in order; nil if v is not Array-kind.
func (v *Value) Items() []*Value {
	if v == nil {
		return nil
	}
	return v.items
}

// Keys returns v's object member names in insertion order; nil if v is not
// Object-kind.
func (v *Value) Keys() []string {
	if v == nil || v.kind != Object {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.key
	}
	return keys
}

// Get looks up an object member by key; returns nil, false if v is not
// Object-kind or has no such member.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.kind != Object {
		return nil, false
	}
	for _, m := range v.members {
		if m.key == key {
			return m.val, true
		}
	}
	return nil, false
}

// At returns the array element at i; nil, false if v is not Array-kind or
// i is out of range.
func (v *Value) At(i int) (*Value, bool) {
	if v == nil || v.kind != Array || i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

// SetKey sets (or overwrites, silently — duplicate keys are not an error,
// per the accumulation model's documented limitation) the member named key
// to val. v must already be Object-kind.
func (v *Value) SetKey(key string, val *Value) {
	for i, m := range v.members {
		if m.key == key {
			v.members[i].val = val
			return
		}
	}
	v.members = append(v.members, member{key: key, val: val})
}

// SetIndex grows the array as needed and sets element i to val. v must
// already be Array-kind.
func (v *Value) SetIndex(i int, val *Value) {
	for len(v.items) <= i {
		v.items = append(v.items, NewNull())
	}
	v.items[i] = val
}

// AppendString concatenates delta onto v's string payload. v must already
// be String-kind.
func (v *Value) AppendString(delta string) {
	v.text += delta
}

// Assign mutates v in place to become a copy of other's contents. Used
// when an accumulator's relative path has length 0, i.e. a later open-*
// (re)places the accumulator's own root node, since the accumulator holds
// a stable *Value pointer that callers may have already captured.
func (v *Value) Assign(other *Value) {
	*v = *other
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{kind: v.kind, boolean: v.boolean, number: v.number, text: v.text}
	if v.items != nil {
		c.items = make([]*Value, len(v.items))
		for i, item := range v.items {
			c.items[i] = item.Clone()
		}
	}
	if v.members != nil {
		c.members = make([]member, len(v.members))
		for i, m := range v.members {
			c.members[i] = member{key: m.key, val: m.val.Clone()}
		}
	}
	return c
}

// Interface converts v into the equivalent native Go representation
// (nil, bool, float64, string, []interface{}, map[string]interface{}) for
// callers that don't want to walk the tagged union themselves. Object
// member order is lost in this conversion; use Keys/Get to preserve it.
func (v *Value) Interface() interface{} {
	if v == nil {
		return nil
	}
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.boolean
	case Number:
		return v.number
	case String:
		return v.text
	case Array:
		out := make([]interface{}, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case Object:
		out := make(map[string]interface{}, len(v.members))
		for _, m := range v.members {
			out[m.key] = m.val.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders v as JSON-ish text for diagnostics. It is NOT guaranteed
// to be valid JSON (mirrors the reference implementation's debug String,
// which makes the same disclaimer).
func (v *Value) String() string {
	if v == nil {
		return "null"
	}
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		if v.boolean {
			return "true"
		}
		return "false"
	case Number:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case String:
		return strconv.Quote(v.text)
	case Array:
		s := "["
		for i, item := range v.items {
			if i > 0 {
				s += ","
			}
			s += item.String()
		}
		return s + "]"
	case Object:
		s := "{"
		for i, m := range v.members {
			if i > 0 {
				s += ","
			}
			s += strconv.Quote(m.key) + ":" + m.val.String()
		}
		return s + "}"
	default:
		return "<unknown>"
	}
}
