//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry wraps stream.Parser and listen.Listener calls in
// OpenTelemetry spans. It is deliberately kept outside those packages so
// the core pipeline stays transport- and observability-agnostic (neither
// Parser.Write nor Listener.Feed takes a context.Context); a host
// application that wants tracing calls these wrappers instead, passing in
// whatever tracer its own provider configuration yields — cmd/jsonstream-tap
// does exactly this with Tracer below.
package telemetry

import (
	"context"
	"iter"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/jsonstream/log"
	"trpc.group/trpc-go/jsonstream/stream"
)

// Tracer is the default tracer passed to TraceWrite/TraceFeed by callers,
// such as cmd/jsonstream-tap, that don't carry their own. It resolves
// against the global OpenTelemetry TracerProvider, so it is a no-op until a
// host process calls otel.SetTracerProvider with a real one — tracing is
// off by default and opt-in, per the package's transport-agnostic design.
var Tracer trace.Tracer = otel.Tracer("trpc.group/trpc-go/jsonstream")

// TraceWrite wraps a Parser.Write call in a span named "jsonstream.write",
// tagged with the parser's stream ID, chunk length, and the number of
// events the chunk ultimately produced. On error the span is marked
// errored and the failure is logged with log.ErrorfContext, matching the
// teacher's pattern of logging only at the orchestration layer, never
// inside the low-level codec itself.
func TraceWrite(
	ctx context.Context,
	tracer trace.Tracer,
	streamID string,
	chunk string,
	terminate bool,
	write func(string, bool) iter.Seq2[stream.Event, error],
) iter.Seq2[stream.Event, error] {
	return func(yield func(stream.Event, error) bool) {
		ctx, span := tracer.Start(ctx, "jsonstream.write", trace.WithAttributes(
			attribute.String("jsonstream.stream_id", streamID),
			attribute.Int("jsonstream.chunk_bytes", len(chunk)),
			attribute.Bool("jsonstream.terminate", terminate),
		))
		defer span.End()

		count := 0
		for ev, err := range write(chunk, terminate) {
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				span.RecordError(err)
				span.SetAttributes(attribute.Int("jsonstream.events_emitted", count))
				log.ErrorfContext(ctx, "jsonstream: write failed for stream %s at event %d: %v", streamID, count, err)
				yield(ev, err)
				return
			}
			count++
			if !yield(ev, nil) {
				span.SetAttributes(attribute.Int("jsonstream.events_emitted", count))
				return
			}
		}
		span.SetAttributes(attribute.Int("jsonstream.events_emitted", count))
	}
}

// TraceFeed wraps a Listener.Feed call in a span named "jsonstream.feed",
// tagged with the listener's ID.
func TraceFeed(
	ctx context.Context,
	tracer trace.Tracer,
	listenerID string,
	events iter.Seq2[stream.Event, error],
	feed func(iter.Seq2[stream.Event, error]) error,
) error {
	ctx, span := tracer.Start(ctx, "jsonstream.feed", trace.WithAttributes(
		attribute.String("jsonstream.listener_id", listenerID),
	))
	defer span.End()

	if err := feed(events); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		log.ErrorfContext(ctx, "jsonstream: feed failed for listener %s: %v", listenerID, err)
		return err
	}
	return nil
}
