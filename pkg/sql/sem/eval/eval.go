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

package eval

import (
	"github.com/antelopedb/antelope/pkg/sql/pgwire/pgcode"
	"github.com/antelopedb/antelope/pkg/sql/pgwire/pgerror"
	"github.com/antelopedb/antelope/pkg/sql/sem/tree"
	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

var decimalCtx = apd.BaseContext.WithPrecision(20)

// Expr evaluates a constant expression to a datum. Expressions containing
// slot references, unresolved names or tuple predicates are not constant;
// passing one is a caller bug and yields an assertion failure.
func Expr(e tree.Expr, evalCtx *Context) (tree.Datum, error) {
	switch t := e.(type) {
	case tree.Datum:
		return t, nil
	case *tree.UnaryExpr:
		return evalUnary(t, evalCtx)
	case *tree.BinaryExpr:
		return evalBinary(t, evalCtx)
	case *tree.ComparisonExpr:
		return evalComparison(t, evalCtx)
	case *tree.IsNullPredicate:
		d, err := Expr(t.Expr, evalCtx)
		if err != nil {
			return nil, err
		}
		return tree.DBool((d == tree.DNull) != t.Not), nil
	case *tree.CaseExpr:
		return evalCase(t, evalCtx)
	case *tree.CoalesceExpr:
		for _, operand := range t.Exprs {
			d, err := Expr(operand, evalCtx)
			if err != nil {
				return nil, err
			}
			if d != tree.DNull {
				return d, nil
			}
		}
		return tree.DNull, nil
	case *tree.IfExpr:
		cond, err := Expr(t.Cond, evalCtx)
		if err != nil {
			return nil, err
		}
		if b, ok := cond.(tree.DBool); ok && bool(b) {
			return Expr(t.True, evalCtx)
		}
		return Expr(t.Else, evalCtx)
	}
	return nil, errors.AssertionFailedf("not a constant expression: %s", tree.AsString(e))
}

// Predicate evaluates a constant boolean expression; a NULL result counts
// as false.
func Predicate(pred tree.Expr, evalCtx *Context) (bool, error) {
	d, err := Expr(pred, evalCtx)
	if err != nil {
		return false, err
	}
	if d == tree.DNull {
		return false, nil
	}
	if b, ok := d.(tree.DBool); ok {
		return bool(b), nil
	}
	return false, errors.AssertionFailedf("predicate evaluated to non-boolean %s", tree.AsString(d))
}

func evalUnary(u *tree.UnaryExpr, evalCtx *Context) (tree.Datum, error) {
	d, err := Expr(u.Expr, evalCtx)
	if err != nil {
		return nil, err
	}
	if d == tree.DNull {
		return tree.DNull, nil
	}
	switch u.Operator {
	case tree.UnaryMinus:
		switch t := d.(type) {
		case tree.DInt:
			return -t, nil
		case *tree.DDecimal:
			res := &tree.DDecimal{}
			res.Neg(&t.Decimal)
			return res, nil
		}
	}
	return nil, errors.AssertionFailedf("unsupported unary operand %s %s",
		u.Operator, tree.AsString(d))
}

func evalBinary(b *tree.BinaryExpr, evalCtx *Context) (tree.Datum, error) {
	left, err := Expr(b.Left, evalCtx)
	if err != nil {
		return nil, err
	}
	right, err := Expr(b.Right, evalCtx)
	if err != nil {
		return nil, err
	}
	// All binary operators propagate NULL operands.
	if left == tree.DNull || right == tree.DNull {
		return tree.DNull, nil
	}

	if b.Operator == tree.Concat {
		ls, lok := left.(tree.DString)
		rs, rok := right.(tree.DString)
		if !lok || !rok {
			return nil, makeUnsupportedBinaryError(b.Operator, left, right)
		}
		return ls + rs, nil
	}

	// Division is always performed in decimal arithmetic.
	if b.Operator != tree.Div {
		if li, lok := left.(tree.DInt); lok {
			if ri, rok := right.(tree.DInt); rok {
				switch b.Operator {
				case tree.Plus:
					return li + ri, nil
				case tree.Minus:
					return li - ri, nil
				case tree.Mult:
					return li * ri, nil
				}
			}
		}
	}

	ld, lok := asDecimal(left)
	rd, rok := asDecimal(right)
	if !lok || !rok {
		return nil, makeUnsupportedBinaryError(b.Operator, left, right)
	}
	res := &tree.DDecimal{}
	switch b.Operator {
	case tree.Plus:
		_, err = decimalCtx.Add(&res.Decimal, ld, rd)
	case tree.Minus:
		_, err = decimalCtx.Sub(&res.Decimal, ld, rd)
	case tree.Mult:
		_, err = decimalCtx.Mul(&res.Decimal, ld, rd)
	case tree.Div:
		if rd.IsZero() {
			return nil, pgerror.New(pgcode.DivisionByZero, "division by zero")
		}
		_, err = decimalCtx.Quo(&res.Decimal, ld, rd)
	default:
		return nil, makeUnsupportedBinaryError(b.Operator, left, right)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "evaluating %s", tree.AsString(b))
	}
	return res, nil
}

func asDecimal(d tree.Datum) (*apd.Decimal, bool) {
	switch t := d.(type) {
	case tree.DInt:
		var dec apd.Decimal
		dec.SetInt64(int64(t))
		return &dec, true
	case *tree.DDecimal:
		return &t.Decimal, true
	}
	return nil, false
}

func evalComparison(c *tree.ComparisonExpr, evalCtx *Context) (tree.Datum, error) {
	left, err := Expr(c.Left, evalCtx)
	if err != nil {
		return nil, err
	}
	right, err := Expr(c.Right, evalCtx)
	if err != nil {
		return nil, err
	}
	if left == tree.DNull || right == tree.DNull {
		return tree.DNull, nil
	}
	cmp, err := left.Compare(right)
	if err != nil {
		return nil, err
	}
	switch c.Operator {
	case tree.EQ:
		return tree.DBool(cmp == 0), nil
	case tree.NE:
		return tree.DBool(cmp != 0), nil
	case tree.LT:
		return tree.DBool(cmp < 0), nil
	case tree.LE:
		return tree.DBool(cmp <= 0), nil
	case tree.GT:
		return tree.DBool(cmp > 0), nil
	case tree.GE:
		return tree.DBool(cmp >= 0), nil
	}
	return nil, errors.AssertionFailedf("unknown comparison operator %d", c.Operator)
}

func evalCase(c *tree.CaseExpr, evalCtx *Context) (tree.Datum, error) {
	if c.Expr != nil {
		// Simple form: compare the operand against each WHEN value.
		operand, err := Expr(c.Expr, evalCtx)
		if err != nil {
			return nil, err
		}
		for _, w := range c.Whens {
			val, err := Expr(w.Cond, evalCtx)
			if err != nil {
				return nil, err
			}
			if operand == tree.DNull || val == tree.DNull {
				continue
			}
			cmp, err := operand.Compare(val)
			if err != nil {
				return nil, err
			}
			if cmp == 0 {
				return Expr(w.Val, evalCtx)
			}
		}
	} else {
		// Searched form: the first WHEN condition evaluating to true wins.
		for _, w := range c.Whens {
			cond, err := Expr(w.Cond, evalCtx)
			if err != nil {
				return nil, err
			}
			if b, ok := cond.(tree.DBool); ok && bool(b) {
				return Expr(w.Val, evalCtx)
			}
		}
	}
	if c.Else != nil {
		return Expr(c.Else, evalCtx)
	}
	return tree.DNull, nil
}

func makeUnsupportedBinaryError(op tree.BinaryOperator, left, right tree.Datum) error {
	return errors.AssertionFailedf("unsupported binary operands: %s %s %s",
		tree.AsString(left), op, tree.AsString(right))
}
