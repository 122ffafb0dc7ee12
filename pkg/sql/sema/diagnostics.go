// Copyright 2026 The Antelope Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package sema

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// Diagnostics receives analysis events. There is no global logger; the
// sink is passed explicitly into NewContext and events carry the log tags
// of the analysis context (query ID, current inline view).
type Diagnostics interface {
	Eventf(ctx context.Context, format string, args ...interface{})
}

type noopDiagnostics struct{}

func (noopDiagnostics) Eventf(context.Context, string, ...interface{}) {}

// WriterDiagnostics writes one line per event to W, prefixed with the
// context's log tags. Event arguments pass through the redact formatter,
// with the markers stripped for readability.
type WriterDiagnostics struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterDiagnostics returns a sink writing to w.
func NewWriterDiagnostics(w io.Writer) *WriterDiagnostics {
	return &WriterDiagnostics{w: w}
}

// Eventf implements the Diagnostics interface.
func (d *WriterDiagnostics) Eventf(ctx context.Context, format string, args ...interface{}) {
	var prefix string
	if b := logtags.FromContext(ctx); b != nil {
		prefix = "[" + b.String() + "] "
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.w, "%s%s\n", prefix, redact.Sprintf(format, args...).StripMarkers())
}
