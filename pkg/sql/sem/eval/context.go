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

// Package eval provides constant-expression evaluation for the analyzer.
// Evaluation is pure: for a fixed expression and Context it always
// produces the same result, which the null-wrapping rewrite relies on for
// correctness.
package eval

import "time"

// Context carries the query-global constants fixed for the lifetime of one
// statement's analysis.
type Context struct {
	// StmtTimestamp is the statement's logical evaluation time.
	StmtTimestamp time.Time
	// Location is the session time zone.
	Location *time.Location
}

// NewContext creates query globals pinned to the given statement time, in
// UTC.
func NewContext(stmtTimestamp time.Time) *Context {
	return &Context{StmtTimestamp: stmtTimestamp, Location: time.UTC}
}
