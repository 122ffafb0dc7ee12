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

// Package pgerror attaches PostgreSQL error codes to user-facing analysis
// errors. Internal invariant violations do not go through this package;
// they are raised with errors.AssertionFailedf and map to pgcode.Internal
// when flattened.
package pgerror

import (
	"fmt"

	"github.com/antelopedb/antelope/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/errors"
)

// withCode decorates an error with a candidate PG code. The code survives
// further wrapping via the standard Unwrap chain.
type withCode struct {
	cause error
	code  pgcode.Code
}

var _ error = (*withCode)(nil)
var _ fmt.Formatter = (*withCode)(nil)

func (w *withCode) Error() string { return w.cause.Error() }
func (w *withCode) Unwrap() error { return w.cause }

func (w *withCode) Format(s fmt.State, verb rune) { errors.FormatError(w, s, verb) }

// FormatError implements errors.Formatter.
func (w *withCode) FormatError(p errors.Printer) (next error) {
	if p.Detail() {
		p.Printf("code: %s", w.code)
	}
	return w.cause
}

// New creates an error with a PG code.
func New(code pgcode.Code, msg string) error {
	return &withCode{cause: errors.NewWithDepth(1, msg), code: code}
}

// Newf creates an error with a PG code and formats the message.
func Newf(code pgcode.Code, format string, args ...interface{}) error {
	return &withCode{cause: errors.NewWithDepthf(1, format, args...), code: code}
}

// Wrapf wraps an error, adding a message prefix and a candidate PG code.
// The code is only used if the chain does not already carry one.
func Wrapf(err error, code pgcode.Code, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &withCode{cause: errors.WrapWithDepthf(1, err, format, args...), code: code}
}

// GetPGCode returns the PG code carried by the error chain. Assertion
// failures dominate: an error that is (or wraps) an internal invariant
// violation reports pgcode.Internal regardless of any candidate code, so
// that defects are never presented as user-correctable. Errors with no
// code report pgcode.Uncategorized.
func GetPGCode(err error) pgcode.Code {
	if err == nil {
		return pgcode.Uncategorized
	}
	if errors.HasAssertionFailure(err) {
		return pgcode.Internal
	}
	// The innermost code wins; codes attached by Wrapf higher up the chain
	// are only candidates.
	code := pgcode.Uncategorized
	for c := err; c != nil; c = errors.UnwrapOnce(c) {
		if w, ok := c.(*withCode); ok {
			code = w.code
		}
	}
	return code
}
