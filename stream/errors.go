//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package stream

import "errors"

// ErrParserClosed is returned by Write when called on a Parser that has
// already terminated or errored; a Parser is single-use, instance per
// stream, and never becomes writable again.
var ErrParserClosed = errors.New("jsonstream: parser is closed")
