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

// Equal reports structural equality of two expression trees. Slot
// references are equal when they name the same slot descriptor ID,
// regardless of node identity.
func Equal(a, b Expr) bool {
	switch ta := a.(type) {
	case *ColumnItem:
		tb, ok := b.(*ColumnItem)
		return ok && ta.TableName == tb.TableName && ta.ColumnName == tb.ColumnName
	case *SlotRef:
		tb, ok := b.(*SlotRef)
		return ok && ta.Slot.ID == tb.Slot.ID
	case dNull:
		_, ok := b.(dNull)
		return ok
	case DBool:
		tb, ok := b.(DBool)
		return ok && ta == tb
	case DInt:
		tb, ok := b.(DInt)
		return ok && ta == tb
	case DString:
		tb, ok := b.(DString)
		return ok && ta == tb
	case *DDecimal:
		tb, ok := b.(*DDecimal)
		return ok && ta.Cmp(&tb.Decimal) == 0
	case *UnaryExpr:
		tb, ok := b.(*UnaryExpr)
		return ok && ta.Operator == tb.Operator && Equal(ta.Expr, tb.Expr)
	case *BinaryExpr:
		tb, ok := b.(*BinaryExpr)
		return ok && ta.Operator == tb.Operator &&
			Equal(ta.Left, tb.Left) && Equal(ta.Right, tb.Right)
	case *ComparisonExpr:
		tb, ok := b.(*ComparisonExpr)
		return ok && ta.Operator == tb.Operator &&
			Equal(ta.Left, tb.Left) && Equal(ta.Right, tb.Right)
	case *IsNullPredicate:
		tb, ok := b.(*IsNullPredicate)
		return ok && ta.Not == tb.Not && Equal(ta.Expr, tb.Expr)
	case *CaseExpr:
		tb, ok := b.(*CaseExpr)
		if !ok || len(ta.Whens) != len(tb.Whens) {
			return false
		}
		if !optionalEqual(ta.Expr, tb.Expr) || !optionalEqual(ta.Else, tb.Else) {
			return false
		}
		for i := range ta.Whens {
			if !Equal(ta.Whens[i].Cond, tb.Whens[i].Cond) ||
				!Equal(ta.Whens[i].Val, tb.Whens[i].Val) {
				return false
			}
		}
		return true
	case *CoalesceExpr:
		tb, ok := b.(*CoalesceExpr)
		if !ok || len(ta.Exprs) != len(tb.Exprs) {
			return false
		}
		for i := range ta.Exprs {
			if !Equal(ta.Exprs[i], tb.Exprs[i]) {
				return false
			}
		}
		return true
	case *IfExpr:
		tb, ok := b.(*IfExpr)
		return ok && Equal(ta.Cond, tb.Cond) && Equal(ta.True, tb.True) && Equal(ta.Else, tb.Else)
	case *TupleIsNullPredicate:
		tb, ok := b.(*TupleIsNullPredicate)
		if !ok || len(ta.TupleIDs) != len(tb.TupleIDs) {
			return false
		}
		for i := range ta.TupleIDs {
			if ta.TupleIDs[i] != tb.TupleIDs[i] {
				return false
			}
		}
		return true
	}
	return false
}

func optionalEqual(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}
