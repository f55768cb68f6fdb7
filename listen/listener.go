//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package listen subscribes callbacks to JSON path patterns and
// reconstructs just enough of the document to answer them as a
// stream.Parser's events arrive. Three subscription kinds are offered:
// OnPartial (fires on every mutation below a pattern), OnItem (fires when
// an array element below a pattern completes), and OnComplete (fires once,
// when the value at a pattern finalizes).
package listen

import (
	"fmt"
	"iter"

	"github.com/google/uuid"

	"trpc.group/trpc-go/jsonstream/jsonvalue"
	"trpc.group/trpc-go/jsonstream/path"
	"trpc.group/trpc-go/jsonstream/stream"
)

// Callback receives the value currently addressed by a subscription and
// the concrete path it was resolved against (with any ANY_INDEX elements
// in the subscription pattern substituted for the index actually seen).
type Callback func(value jsonvalue.Value, at path.Path)

type subscription struct {
	pattern path.Path
	cb      Callback
}

// accumulator is a (pattern, partial) pair as described in the data model:
// partial grows in place as events below pattern arrive.
type accumulator struct {
	pattern path.Path
	root    *jsonvalue.Value
}

// Listener subscribes callbacks to path patterns and dispatches them as
// events from a stream.Parser are fed in. A Listener accumulates its own
// deduplicated set of partial-value trees; it does not consume state from
// a Parser directly and has no awareness of chunk boundaries.
type Listener struct {
	id uuid.UUID

	accumulators []*accumulator
	partials     []subscription
	items        []subscription
	completes    []subscription
}

// New returns an empty Listener with no subscriptions.
func New() *Listener {
	return &Listener{id: uuid.New()}
}

// ID returns the Listener's unique identifier, for log/trace correlation.
func (l *Listener) ID() uuid.UUID { return l.id }

// OnPartial registers cb to fire whenever any event occurs at or below a
// path matching pattern; cb receives the (possibly partial) value
// currently at pattern.
func (l *Listener) OnPartial(pattern path.Path, cb Callback) {
	l.partials = append(l.partials, subscription{pattern: pattern.Clone(), cb: cb})
	l.ensureAccumulator(pattern)
}

// OnItem registers cb to fire when an array element below arrayPattern
// completes; cb receives the element's full value.
func (l *Listener) OnItem(arrayPattern path.Path, cb Callback) {
	l.items = append(l.items, subscription{pattern: arrayPattern.Clone(), cb: cb})
	l.ensureAccumulator(arrayPattern)
}

// OnComplete registers cb to fire when the value at pattern is finalized.
func (l *Listener) OnComplete(pattern path.Path, cb Callback) {
	l.completes = append(l.completes, subscription{pattern: pattern.Clone(), cb: cb})
	l.ensureAccumulator(pattern)
}

// Feed drains events, updating accumulators and dispatching callbacks for
// each one in order. It returns the first error yielded by events, if any;
// events already processed have already invoked their callbacks.
func (l *Listener) Feed(events iter.Seq2[stream.Event, error]) error {
	var feedErr error
	for ev, err := range events {
		if err != nil {
			feedErr = err
			break
		}
		for _, acc := range l.accumulators {
			if acc.pattern.Covers(ev.Path) {
				l.applyEvent(acc, ev)
			}
		}
		l.dispatch(ev)
	}
	return feedErr
}

// ensureAccumulator adds an accumulator rooted at pattern unless an
// existing accumulator's pattern already covers it, and removes any
// existing accumulators pattern itself subsumes — the deduplication
// optimization described for the accumulator model.
func (l *Listener) ensureAccumulator(pattern path.Path) {
	pattern = pattern.Clone()
	for _, acc := range l.accumulators {
		if acc.pattern.Covers(pattern) {
			return
		}
	}
	kept := l.accumulators[:0]
	for _, acc := range l.accumulators {
		if !pattern.Covers(acc.pattern) {
			kept = append(kept, acc)
		}
	}
	l.accumulators = append(kept, &accumulator{pattern: pattern, root: jsonvalue.NewNull()})
}

// applyEvent updates acc's partial tree for a single event, per the
// accumulator update table; only the seven listed event kinds mutate a
// value, everything else is a pure dispatch trigger.
func (l *Listener) applyEvent(acc *accumulator, ev stream.Event) {
	rel := ev.Path[len(acc.pattern):]
	switch ev.Type {
	case stream.OpenObject:
		setAt(acc.root, rel, jsonvalue.NewObject())
	case stream.OpenArray:
		setAt(acc.root, rel, jsonvalue.NewArray())
	case stream.OpenString:
		setAt(acc.root, rel, jsonvalue.NewString(""))
	case stream.AppendString:
		mustNavigate(acc.root, rel).AppendString(ev.Delta)
	case stream.SetNumber:
		setAt(acc.root, rel, jsonvalue.NewNumber(ev.Number))
	case stream.CloseBoolean:
		setAt(acc.root, rel, jsonvalue.NewBool(ev.Bool))
	case stream.CloseNull:
		setAt(acc.root, rel, jsonvalue.NewNull())
	}
}

// dispatch fires every subscription whose pattern matches ev, per the
// documented order: partial listeners, then item listeners, then complete
// listeners, all within this one event.
func (l *Listener) dispatch(ev stream.Event) {
	for _, sub := range l.partials {
		if !sub.pattern.Covers(ev.Path) {
			continue
		}
		at := resolve(sub.pattern, ev.Path)
		acc := l.findCovering(at)
		l.invoke(sub.cb, acc, at)
	}
	if !isCloseEvent(ev.Type) {
		return
	}
	for _, sub := range l.items {
		if sub.pattern.CoversParent(ev.Path) {
			acc := l.findCovering(ev.Path)
			l.invoke(sub.cb, acc, ev.Path)
		}
	}
	for _, sub := range l.completes {
		if sub.pattern.CoversExact(ev.Path) {
			acc := l.findCovering(ev.Path)
			l.invoke(sub.cb, acc, ev.Path)
		}
	}
}

func (l *Listener) invoke(cb Callback, acc *accumulator, at path.Path) {
	rel := at[len(acc.pattern):]
	cb(*mustNavigate(acc.root, rel), at)
}

// findCovering returns the most specific (longest-pattern) accumulator
// covering c. Per the failure semantics, it is a programmer error — should
// be impossible by construction, since every subscription installs a
// covering accumulator — for none to be found.
func (l *Listener) findCovering(c path.Path) *accumulator {
	var best *accumulator
	for _, acc := range l.accumulators {
		if !acc.pattern.Covers(c) {
			continue
		}
		if best == nil || len(acc.pattern) > len(best.pattern) {
			best = acc
		}
	}
	if best == nil {
		panic(fmt.Sprintf("jsonstream/listen: no accumulator covers path %s", c))
	}
	return best
}

// resolve substitutes any ANY_INDEX element of pattern with the concrete
// index found at the same position in c, producing the concrete path a
// partial-listener callback should be told it was invoked at.
func resolve(pattern, c path.Path) path.Path {
	out := pattern.Clone()
	for i := range out {
		if out[i].Kind == path.KindIndex && out[i].Index == path.AnyIndex {
			out[i].Index = c[i].Index
		}
	}
	return out
}

func isCloseEvent(t stream.Type) bool {
	switch t {
	case stream.CloseObject, stream.CloseArray, stream.CloseString,
		stream.CloseNumber, stream.CloseBoolean, stream.CloseNull:
		return true
	}
	return false
}

// navigate walks root down through rel, returning the node already present
// there; it does not create anything, used where the node is expected to
// already exist (e.g. appending to a previously opened string).
func navigate(root *jsonvalue.Value, rel path.Path) (*jsonvalue.Value, bool) {
	cur := root
	for _, e := range rel {
		var ok bool
		if e.Kind == path.KindKey {
			cur, ok = cur.Get(e.Key)
		} else {
			cur, ok = cur.At(e.Index)
		}
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func mustNavigate(root *jsonvalue.Value, rel path.Path) *jsonvalue.Value {
	n, ok := navigate(root, rel)
	if !ok {
		panic(fmt.Sprintf("jsonstream/listen: no value at relative path %s (should be impossible by construction)", path.Path(rel)))
	}
	return n
}

// setAt places val at rel within root, creating the position (an object
// member or array slot) if needed; an empty rel replaces root's own
// contents in place, since accumulator roots are stable pointers that
// callers may already hold.
func setAt(root *jsonvalue.Value, rel path.Path, val *jsonvalue.Value) {
	if len(rel) == 0 {
		root.Assign(val)
		return
	}
	parent := mustNavigate(root, rel[:len(rel)-1])
	last := rel[len(rel)-1]
	if last.Kind == path.KindKey {
		parent.SetKey(last.Key, val)
	} else {
		parent.SetIndex(last.Index, val)
	}
}
