//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package path_test

import (
	"testing"

	"trpc.group/trpc-go/jsonstream/path"
)

func TestElementString(t *testing.T) {
	cases := []struct {
		name string
		elem path.Element
		want string
	}{
		{"key", path.Key("name"), "name"},
		{"index", path.Index(3), "[3]"},
		{"any", path.Any(), "[*]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.elem.String(); got != c.want {
				t.Fatalf("String() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestPathString(t *testing.T) {
	p := path.Path{path.Key("elements"), path.Index(0), path.Key("weight")}
	if got, want := p.String(), "$.elements[0].weight"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := (path.Path{}).String(), "$"; got != want {
		t.Fatalf("empty String() = %q, want %q", got, want)
	}
}

func TestPathEqual(t *testing.T) {
	a := path.Path{path.Key("a"), path.Index(1)}
	b := path.Path{path.Key("a"), path.Index(1)}
	c := path.Path{path.Key("a"), path.Index(2)}
	if !a.Equal(b) {
		t.Fatalf("expected %v to equal %v", a, b)
	}
	if a.Equal(c) {
		t.Fatalf("expected %v to not equal %v", a, c)
	}
}

func TestPathCovers(t *testing.T) {
	cases := []struct {
		name    string
		pattern path.Path
		concrete path.Path
		want    bool
	}{
		{"empty covers everything", path.Path{}, path.Path{path.Key("a"), path.Index(0)}, true},
		{"exact match", path.Path{path.Key("a")}, path.Path{path.Key("a")}, true},
		{"prefix match", path.Path{path.Key("a")}, path.Path{path.Key("a"), path.Index(0)}, true},
		{"mismatched key", path.Path{path.Key("a")}, path.Path{path.Key("b")}, false},
		{"too long pattern", path.Path{path.Key("a"), path.Index(0)}, path.Path{path.Key("a")}, false},
		{"any index wildcard", path.Path{path.Key("elements"), path.Any(), path.Key("weight")},
			path.Path{path.Key("elements"), path.Index(2), path.Key("weight")}, true},
		{"kind mismatch", path.Path{path.Index(0)}, path.Path{path.Key("0")}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.pattern.Covers(c.concrete); got != c.want {
				t.Fatalf("Covers() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestPathCoversExact(t *testing.T) {
	pattern := path.Path{path.Key("elements"), path.Any(), path.Key("weight")}
	if !pattern.CoversExact(path.Path{path.Key("elements"), path.Index(1), path.Key("weight")}) {
		t.Fatalf("expected exact coverage")
	}
	if pattern.CoversExact(path.Path{path.Key("elements"), path.Index(1)}) {
		t.Fatalf("expected no exact coverage for a shorter concrete path")
	}
}

func TestPathCoversParent(t *testing.T) {
	pattern := path.Path{path.Key("elements")}
	if !pattern.CoversParent(path.Path{path.Key("elements"), path.Index(0)}) {
		t.Fatalf("expected pattern to cover the parent of an array element")
	}
	if pattern.CoversParent(path.Path{path.Key("elements"), path.Key("name")}) {
		t.Fatalf("CoversParent should require the last element to be an index")
	}
	if pattern.CoversParent(path.Path{path.Key("other"), path.Index(0)}) {
		t.Fatalf("CoversParent should require the pattern to match the parent exactly")
	}
}

func TestPathParentAndLast(t *testing.T) {
	p := path.Path{path.Key("a"), path.Index(2)}
	last, ok := p.Last()
	if !ok || last != path.Index(2) {
		t.Fatalf("Last() = %v, %v; want Index(2), true", last, ok)
	}
	parent, ok := p.Parent()
	if !ok || !parent.Equal(path.Path{path.Key("a")}) {
		t.Fatalf("Parent() = %v, %v; want [a], true", parent, ok)
	}
	if _, ok := (path.Path{}).Last(); ok {
		t.Fatalf("Last() on empty path should report false")
	}
	if _, ok := (path.Path{}).Parent(); ok {
		t.Fatalf("Parent() on empty path should report false")
	}
}

func TestPathCloneIsIndependent(t *testing.T) {
	p := path.Path{path.Index(0)}
	c := p.Clone()
	c[0] = path.Index(9)
	if p[0].Index != 0 {
		t.Fatalf("mutating the clone should not affect the original, got %v", p)
	}
}

func TestPathWithTrailingIndex(t *testing.T) {
	p := path.Path{path.Key("items"), path.Index(0)}
	got := p.WithTrailingIndex(5)
	if got[len(got)-1].Index != 5 {
		t.Fatalf("WithTrailingIndex(5) = %v, want trailing index 5", got)
	}
	if p[len(p)-1].Index != 0 {
		t.Fatalf("WithTrailingIndex should not mutate the receiver, got %v", p)
	}
}
