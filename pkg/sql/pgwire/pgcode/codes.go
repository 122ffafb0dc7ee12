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

// Package pgcode defines the PostgreSQL 5-character error codes attached to
// user-facing analysis errors. Codes are from
// https://www.postgresql.org/docs/current/errcodes-appendix.html.
package pgcode

// Code is a wrapper around a 5-character error code.
type Code struct {
	code string
}

// MakeCode converts a raw 5-character code into a Code.
func MakeCode(code string) Code {
	return Code{code: code}
}

// String returns the 5-character code.
func (c Code) String() string {
	return c.code
}

var (
	// Syntax signals a query that is malformed in a way detected after
	// parsing, e.g. a FROM subquery with no alias.
	Syntax = MakeCode("42601")
	// DivisionByZero signals a constant division by zero.
	DivisionByZero = MakeCode("22012")
	// AmbiguousColumn signals an unqualified column name matching more
	// than one visible table reference.
	AmbiguousColumn = MakeCode("42702")
	// DuplicateAlias signals two table references with the same alias in
	// one scope.
	DuplicateAlias = MakeCode("42712")
	// UndefinedColumn signals a column reference that names no known column.
	UndefinedColumn = MakeCode("42703")
	// UndefinedTable signals a table alias that names no visible reference.
	UndefinedTable = MakeCode("42P01")
	// Uncategorized is attached to errors without an explicit code.
	Uncategorized = MakeCode("XXUUU")
	// Internal marks invariant violations. Errors with this code indicate a
	// defect, not a user mistake.
	Internal = MakeCode("XX000")
)
