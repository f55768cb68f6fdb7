//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Command jsonstream-tap reads JSON from stdin in fixed-size chunks —
// simulating token-by-token delivery from a generative model — and prints
// the resulting event stream plus a live view of the document as the
// root-level listener subscription sees it grow.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"

	"trpc.group/trpc-go/jsonstream/internal/telemetry"
	"trpc.group/trpc-go/jsonstream/jsonvalue"
	"trpc.group/trpc-go/jsonstream/listen"
	"trpc.group/trpc-go/jsonstream/log"
	"trpc.group/trpc-go/jsonstream/path"
	"trpc.group/trpc-go/jsonstream/stream"
)

func main() {
	chunkSize := flag.Int("chunk-size", 16, "number of bytes read from stdin per simulated chunk")
	quiet := flag.Bool("quiet", false, "suppress the per-event trace, printing only the final document")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *chunkSize, *quiet); err != nil {
		log.Errorf("jsonstream-tap: %v", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, chunkSize int, quiet bool) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk-size must be positive, got %d", chunkSize)
	}

	ctx := context.Background()
	p := stream.New()
	l := listen.New()
	l.OnPartial(path.Path{}, func(v jsonvalue.Value, at path.Path) {
		if !quiet {
			fmt.Fprintf(out, "  partial %s => %s\n", at, v.String())
		}
	})
	l.OnComplete(path.Path{}, func(v jsonvalue.Value, at path.Path) {
		fmt.Fprintf(out, "document complete: %s\n", v.String())
	})

	reader := bufio.NewReader(in)
	buf := make([]byte, chunkSize)
	for {
		n, readErr := reader.Read(buf)
		terminate := readErr == io.EOF
		if n > 0 {
			chunk := string(buf[:n])
			if !quiet {
				fmt.Fprintf(out, "chunk %q\n", chunk)
			}
			if err := feedChunk(ctx, p, l, chunk, terminate, out, quiet); err != nil {
				return err
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				if n == 0 {
					return feedChunk(ctx, p, l, "", true, out, quiet)
				}
				return nil
			}
			return readErr
		}
	}
}

// feedChunk routes the chunk through the core Parser/Listener pair wrapped
// in telemetry.TraceWrite/TraceFeed, so every write and feed in this CLI
// produces a span via telemetry.Tracer (a no-op until a host process
// registers a real OpenTelemetry TracerProvider).
func feedChunk(ctx context.Context, p *stream.Parser, l *listen.Listener, chunk string, terminate bool, out io.Writer, quiet bool) error {
	events := telemetry.TraceWrite(ctx, telemetry.Tracer, p.ID().String(), chunk, terminate, p.Write)
	feed := func(events iter.Seq2[stream.Event, error]) error {
		return telemetry.TraceFeed(ctx, telemetry.Tracer, l.ID().String(), events, l.Feed)
	}
	if quiet {
		return feed(events)
	}
	var collected []stream.Event
	err := feed(teeEvents(events, &collected))
	for _, ev := range collected {
		fmt.Fprintf(out, "  %s\n", ev)
	}
	return err
}

// teeEvents lets the CLI both print the raw event trace and feed the
// listener from a single underlying iteration, since stream.Event's
// Parser.Write sequence can only be drained once.
func teeEvents(events iter.Seq2[stream.Event, error], into *[]stream.Event) iter.Seq2[stream.Event, error] {
	return func(yield func(stream.Event, error) bool) {
		for ev, err := range events {
			if err == nil {
				*into = append(*into, ev)
			}
			if !yield(ev, err) {
				return
			}
		}
	}
}
