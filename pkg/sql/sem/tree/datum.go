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

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

// Datum is a SQL literal value. Datums are expressions that evaluate to
// themselves.
type Datum interface {
	Expr

	// Compare returns -1, 0 or 1 depending on whether the receiver sorts
	// before, equal to or after the other datum. Comparing datums of
	// different types or comparing with DNull is an error; NULL ordering is
	// the evaluator's concern, not the datum's.
	Compare(other Datum) (int, error)
}

// dNull is the NULL literal. There is only one value of this type, DNull.
type dNull struct{}

// DNull is the NULL datum.
var DNull Datum = dNull{}

// Format implements the NodeFormatter interface.
func (dNull) Format(ctx *FmtCtx) { ctx.WriteString("NULL") }

func (dNull) String() string { return AsString(DNull) }

// Compare implements the Datum interface.
func (dNull) Compare(other Datum) (int, error) {
	return 0, errors.AssertionFailedf("NULL is not comparable")
}

// DBool is the boolean datum.
type DBool bool

// Format implements the NodeFormatter interface.
func (d DBool) Format(ctx *FmtCtx) {
	if d {
		ctx.WriteString("true")
	} else {
		ctx.WriteString("false")
	}
}

func (d DBool) String() string { return AsString(d) }

// Compare implements the Datum interface.
func (d DBool) Compare(other Datum) (int, error) {
	o, ok := other.(DBool)
	if !ok {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	if d == o {
		return 0, nil
	}
	if !d {
		return -1, nil
	}
	return 1, nil
}

// DInt is the 64-bit integer datum.
type DInt int64

// Format implements the NodeFormatter interface.
func (d DInt) Format(ctx *FmtCtx) { ctx.WriteString(strconv.FormatInt(int64(d), 10)) }

func (d DInt) String() string { return AsString(d) }

// Compare implements the Datum interface.
func (d DInt) Compare(other Datum) (int, error) {
	switch o := other.(type) {
	case DInt:
		switch {
		case d < o:
			return -1, nil
		case d > o:
			return 1, nil
		}
		return 0, nil
	case *DDecimal:
		var dec apd.Decimal
		dec.SetInt64(int64(d))
		return dec.Cmp(&o.Decimal), nil
	}
	return 0, makeUnsupportedComparisonError(d, other)
}

// DString is the string datum.
type DString string

// Format implements the NodeFormatter interface.
func (d DString) Format(ctx *FmtCtx) {
	ctx.WriteByte('\'')
	ctx.WriteString(strings.ReplaceAll(string(d), "'", "''"))
	ctx.WriteByte('\'')
}

func (d DString) String() string { return AsString(d) }

// Compare implements the Datum interface.
func (d DString) Compare(other Datum) (int, error) {
	o, ok := other.(DString)
	if !ok {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	return strings.Compare(string(d), string(o)), nil
}

// DDecimal is the arbitrary-precision decimal datum.
type DDecimal struct {
	apd.Decimal
}

// NewDDecimal parses s as a decimal literal.
func NewDDecimal(s string) (*DDecimal, error) {
	d := &DDecimal{}
	if _, _, err := d.SetString(s); err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as decimal", s)
	}
	return d, nil
}

// Format implements the NodeFormatter interface.
func (d *DDecimal) Format(ctx *FmtCtx) { ctx.WriteString(d.Decimal.String()) }

func (d *DDecimal) String() string { return AsString(d) }

// Compare implements the Datum interface.
func (d *DDecimal) Compare(other Datum) (int, error) {
	switch o := other.(type) {
	case *DDecimal:
		return d.Cmp(&o.Decimal), nil
	case DInt:
		var dec apd.Decimal
		dec.SetInt64(int64(o))
		return d.Cmp(&dec), nil
	}
	return 0, makeUnsupportedComparisonError(d, other)
}

func makeUnsupportedComparisonError(left, right Datum) error {
	return errors.AssertionFailedf("unsupported comparison: %s to %s",
		AsString(left), AsString(right))
}
