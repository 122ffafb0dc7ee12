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

package tree

import "bytes"

// NodeFormatter is implemented by nodes that can render themselves as SQL.
// The rendering is used by diagnostics and plan explain output, not by
// execution.
type NodeFormatter interface {
	Format(ctx *FmtCtx)
}

// FmtCtx is a buffer into which nodes render their SQL form.
type FmtCtx struct {
	bytes.Buffer
}

// NewFmtCtx creates an empty formatting context.
func NewFmtCtx() *FmtCtx {
	return &FmtCtx{}
}

// FormatNode renders n into the context.
func (ctx *FmtCtx) FormatNode(n NodeFormatter) {
	n.Format(ctx)
}

// AsString renders n as SQL text.
func AsString(n NodeFormatter) string {
	ctx := NewFmtCtx()
	ctx.FormatNode(n)
	return ctx.String()
}
