//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package path provides the root-relative location type shared by the
// streaming parser and the path listener. A Path is a sum type over object
// keys and array indices: representing it as a plain []interface{} would
// let a string key and an integer index collide in places that expect one
// or the other, so each Element carries an explicit kind tag instead.
package path

import (
	"fmt"
	"strconv"
	"strings"
)

// AnyIndex is the sentinel array index used only in subscription patterns;
// it matches any concrete non-negative array index at the same depth.
// Exposed as -1 for compatibility with the reference implementation, but
// callers should prefer the Any() constructor over the raw constant.
const AnyIndex = -1

// Kind discriminates what an Element addresses.
type Kind int

const (
	// KindKey addresses an object member by name.
	KindKey Kind = iota
	// KindIndex addresses an array element by position.
	KindIndex
)

// Element is one step of a Path: either an object key or an array index.
// Only Index is meaningful when Kind == KindIndex (and may be AnyIndex in
// a pattern); only Key is meaningful when Kind == KindKey.
type Element struct {
	Kind  Kind
	Key   string
	Index int
}

// Key builds a path Element addressing an object member.
func Key(k string) Element { return Element{Kind: KindKey, Key: k} }

// Index builds a path Element addressing a concrete array position.
func Index(i int) Element { return Element{Kind: KindIndex, Index: i} }

// Any builds a path Element that matches any array position; valid only in
// subscription patterns, never in a concrete event path.
func Any() Element { return Element{Kind: KindIndex, Index: AnyIndex} }

// String renders the element the way it would appear in a dotted path, for
// diagnostics only.
func (e Element) String() string {
	switch e.Kind {
	case KindIndex:
		if e.Index == AnyIndex {
			return "[*]"
		}
		return "[" + strconv.Itoa(e.Index) + "]"
	default:
		return e.Key
	}
}

// Path is an ordered sequence of Elements locating a node relative to the
// document root. The empty Path denotes the root itself.
type Path []Element

// String renders a human-readable rendition of the path, e.g. `$.a[0].b`.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, e := range p {
		switch e.Kind {
		case KindIndex:
			fmt.Fprintf(&b, "%s", e)
		default:
			b.WriteByte('.')
			b.WriteString(e.Key)
		}
	}
	return b.String()
}

// Clone returns a copy of p so callers may retain it beyond the lifetime of
// the slice backing the original (the parser and listener both mutate
// their working path in place between events).
func (p Path) Clone() Path {
	if len(p) == 0 {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Equal reports whether p and o address the same concrete location; AnyIndex
// is not special-cased here — use Covers for pattern matching.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Parent returns all but the last element of p, and false if p is empty.
func (p Path) Parent() (Path, bool) {
	if len(p) == 0 {
		return nil, false
	}
	return p[:len(p)-1], true
}

// Last returns the final element of p, and false if p is empty.
func (p Path) Last() (Element, bool) {
	if len(p) == 0 {
		return Element{}, false
	}
	return p[len(p)-1], true
}

// Covers reports whether pattern p (which may contain AnyIndex elements)
// covers concrete path c in the prefix sense used by on-partial/on-complete:
// |p| <= |c| and every element of p matches the corresponding element of c,
// with AnyIndex matching any index. The empty pattern covers everything.
func (p Path) Covers(c Path) bool {
	if len(p) > len(c) {
		return false
	}
	for i, pe := range p {
		if !pe.matches(c[i]) {
			return false
		}
	}
	return true
}

// CoversExact reports whether pattern p covers c and the lengths match
// exactly, the stricter condition on-complete dispatch requires.
func (p Path) CoversExact(c Path) bool {
	return len(p) == len(c) && p.Covers(c)
}

// CoversParent reports whether pattern p covers c's parent, i.e. all but
// the last element of c, and c's last element is an array index. This is
// the condition on-item dispatch requires.
func (p Path) CoversParent(c Path) bool {
	last, ok := c.Last()
	if !ok || last.Kind != KindIndex {
		return false
	}
	parent, _ := c.Parent()
	return len(p) == len(parent) && p.Covers(parent)
}

// matches reports whether pattern element pe matches concrete element ce.
// Only pe may hold AnyIndex; ce comes from a concrete event path, and
// AnyIndex only ever appears in subscription patterns.
func (pe Element) matches(ce Element) bool {
	if pe.Kind != ce.Kind {
		return false
	}
	if pe.Kind == KindIndex {
		return pe.Index == AnyIndex || pe.Index == ce.Index
	}
	return pe.Key == ce.Key
}

// WithTrailingIndex returns a copy of p with its last element's index set
// to i; p's last element must be an array index. The receiver is left
// unchanged.
func (p Path) WithTrailingIndex(i int) Path {
	if len(p) == 0 {
		return p
	}
	c := p.Clone()
	c[len(c)-1].Index = i
	return c
}
