//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package listen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/jsonstream/jsonvalue"
	"trpc.group/trpc-go/jsonstream/listen"
	"trpc.group/trpc-go/jsonstream/path"
	"trpc.group/trpc-go/jsonstream/stream"
)

const animalsDoc = `{"elements":[{"name":"Rabbit","weight":3},{"name":"Cat","weight":6}]}`

func TestOnItemReceivesEachCompletedElement(t *testing.T) {
	p := stream.New()
	l := listen.New()

	var got []jsonvalue.Value
	l.OnItem(path.Path{path.Key("elements")}, func(v jsonvalue.Value, at path.Path) {
		got = append(got, v)
	})

	require.NoError(t, l.Feed(p.Write(animalsDoc, true)))
	require.Len(t, got, 2)

	name0, ok := got[0].Get("name")
	require.True(t, ok)
	require.Equal(t, "Rabbit", name0.Text())

	name1, ok := got[1].Get("name")
	require.True(t, ok)
	require.Equal(t, "Cat", name1.Text())
}

func TestOnCompleteWildcardReceivesEachMatch(t *testing.T) {
	p := stream.New()
	l := listen.New()

	var weights []float64
	var paths []string
	l.OnComplete(path.Path{path.Key("elements"), path.Any(), path.Key("weight")},
		func(v jsonvalue.Value, at path.Path) {
			weights = append(weights, v.Number())
			paths = append(paths, at.String())
		})

	require.NoError(t, l.Feed(p.Write(animalsDoc, true)))
	require.Equal(t, []float64{3, 6}, weights)
	require.Equal(t, []string{"$.elements[0].weight", "$.elements[1].weight"}, paths)
}

func TestOnCompleteAtRootFiresOnceWithFullDocument(t *testing.T) {
	p := stream.New()
	l := listen.New()

	var calls int
	var final jsonvalue.Value
	l.OnComplete(path.Path{}, func(v jsonvalue.Value, at path.Path) {
		calls++
		final = v
	})

	require.NoError(t, l.Feed(p.Write(animalsDoc, true)))
	require.Equal(t, 1, calls)
	require.Equal(t, jsonvalue.Object, final.Kind())
}

func TestOnPartialFiresOnEveryDescendantMutation(t *testing.T) {
	p := stream.New()
	l := listen.New()

	var invocations int
	l.OnPartial(path.Path{path.Key("elements")}, func(v jsonvalue.Value, at path.Path) {
		invocations++
	})

	require.NoError(t, l.Feed(p.Write(animalsDoc, true)))
	require.Greater(t, invocations, 2, "expected more than two partial callbacks as the array grows")
}

func TestCloseKeyDoesNotTriggerItemOrComplete(t *testing.T) {
	p := stream.New()
	l := listen.New()

	var itemCalls, completeCalls int
	// A key is never addressable as an "item" or "complete" value; only the
	// value it introduces is.
	l.OnItem(path.Path{}, func(v jsonvalue.Value, at path.Path) { itemCalls++ })
	l.OnComplete(path.Path{path.Key("name")}, func(v jsonvalue.Value, at path.Path) { completeCalls++ })

	require.NoError(t, l.Feed(p.Write(`{"name":"x"}`, true)))
	require.Equal(t, 0, itemCalls, "no array index ever closes in this document")
	require.Equal(t, 1, completeCalls)
}

func TestAccumulatorDeduplicationSharesOneRootForOverlappingPatterns(t *testing.T) {
	p := stream.New()
	l := listen.New()

	var broad, narrow jsonvalue.Value
	l.OnComplete(path.Path{}, func(v jsonvalue.Value, at path.Path) { broad = v })
	l.OnComplete(path.Path{path.Key("a")}, func(v jsonvalue.Value, at path.Path) { narrow = v })

	require.NoError(t, l.Feed(p.Write(`{"a":1}`, true)))

	a, ok := broad.Get("a")
	require.True(t, ok)
	require.Equal(t, float64(1), a.Number())
	require.Equal(t, float64(1), narrow.Number())
}

func TestOnItemAtRootReceivesTopLevelElements(t *testing.T) {
	p := stream.New()
	l := listen.New()

	var topLevel []float64
	l.OnItem(path.Path{}, func(v jsonvalue.Value, at path.Path) {
		topLevel = append(topLevel, v.Number())
	})

	require.NoError(t, l.Feed(p.Write(`[10,20,30]`, true)))
	require.Equal(t, []float64{10, 20, 30}, topLevel)
}
