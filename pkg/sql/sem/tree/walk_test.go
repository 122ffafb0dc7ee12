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
	"testing"

	"github.com/antelopedb/antelope/pkg/sql/sqlbase"
	"github.com/stretchr/testify/require"
)

func TestDeepCopyIndependence(t *testing.T) {
	x := NewSlotRef(testSlot(0, "x"))
	orig := &CaseExpr{
		Whens: []*When{{
			Cond: &IsNullPredicate{Expr: x},
			Val:  DInt(1),
		}},
		Else: &BinaryExpr{Operator: Plus, Left: x, Right: DInt(2)},
	}

	cp := DeepCopy(orig).(*CaseExpr)
	require.True(t, Equal(orig, cp))
	require.NotSame(t, orig, cp)
	require.NotSame(t, orig.Whens[0], cp.Whens[0])
	require.NotSame(t, orig.Whens[0].Cond, cp.Whens[0].Cond)
	require.NotSame(t, orig.Else, cp.Else)

	// Mutating the copy leaves the original alone.
	cp.Else.(*BinaryExpr).Right = DInt(99)
	require.Equal(t, "x [slot 0] + 2", AsString(orig.Else))
}

func TestWalkExprCopyOnWrite(t *testing.T) {
	x := NewSlotRef(testSlot(0, "x"))
	expr := &BinaryExpr{Operator: Plus, Left: x, Right: DInt(1)}

	// A visitor that replaces nothing returns the input nodes unchanged.
	var noop noopVisitor
	res := WalkExpr(&noop, expr)
	require.Same(t, Expr(expr), res)

	// Replacing a leaf rebuilds only the spine.
	repl := replaceVisitor{from: x, to: DInt(7)}
	res = WalkExpr(&repl, expr)
	require.NotSame(t, Expr(expr), res)
	require.Equal(t, "7 + 1", AsString(res))
	require.Equal(t, "x [slot 0] + 1", AsString(expr))
}

type noopVisitor struct{}

func (noopVisitor) VisitPre(expr Expr) (bool, Expr) { return true, expr }
func (noopVisitor) VisitPost(expr Expr) Expr        { return expr }

type replaceVisitor struct {
	from, to Expr
}

func (v *replaceVisitor) VisitPre(expr Expr) (bool, Expr) {
	if Equal(expr, v.from) {
		return false, v.to
	}
	return true, expr
}

func (v *replaceVisitor) VisitPost(expr Expr) Expr { return expr }

func TestContains(t *testing.T) {
	guard := &TupleIsNullPredicate{TupleIDs: []sqlbase.TupleID{1}}
	wrapped := &IfExpr{Cond: guard, True: DNull, Else: DInt(2)}
	isGuard := func(e Expr) bool {
		_, ok := e.(*TupleIsNullPredicate)
		return ok
	}
	require.True(t, Contains(wrapped, isGuard))
	require.False(t, Contains(DInt(2), isGuard))
}

func TestCollectSlotRefs(t *testing.T) {
	x := NewSlotRef(testSlot(0, "x"))
	y := NewSlotRef(testSlot(1, "y"))
	e1 := &BinaryExpr{Operator: Plus, Left: y, Right: x}
	e2 := &ComparisonExpr{Operator: EQ, Left: NewSlotRef(testSlot(0, "x")), Right: DInt(3)}

	refs := CollectSlotRefs(e1, e2)
	require.Len(t, refs, 2)
	require.Equal(t, sqlbase.SlotID(1), refs[0].Slot.ID)
	require.Equal(t, sqlbase.SlotID(0), refs[1].Slot.ID)
}

func TestIsConst(t *testing.T) {
	x := NewSlotRef(testSlot(0, "x"))
	testCases := []struct {
		expr     Expr
		expected bool
	}{
		{DInt(1), true},
		{DNull, true},
		{&BinaryExpr{Operator: Plus, Left: DInt(1), Right: DInt(2)}, true},
		{&CaseExpr{Whens: []*When{{Cond: DBool(true), Val: DString("a")}}}, true},
		{x, false},
		{&ColumnItem{TableName: "t", ColumnName: "x"}, false},
		{&IsNullPredicate{Expr: x}, false},
		{&TupleIsNullPredicate{TupleIDs: []sqlbase.TupleID{0}}, false},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, IsConst(tc.expr), "%s", AsString(tc.expr))
	}
}

func TestEqual(t *testing.T) {
	x := NewSlotRef(testSlot(0, "x"))
	testCases := []struct {
		a, b     Expr
		expected bool
	}{
		{DInt(1), DInt(1), true},
		{DInt(1), DInt(2), false},
		{DInt(1), DString("1"), false},
		{DNull, DNull, true},
		{x, NewSlotRef(testSlot(0, "renamed")), true}, // slot identity is the ID
		{x, NewSlotRef(testSlot(1, "x")), false},
		{
			&BinaryExpr{Operator: Plus, Left: x, Right: DInt(1)},
			&BinaryExpr{Operator: Plus, Left: NewSlotRef(testSlot(0, "x")), Right: DInt(1)},
			true,
		},
		{
			&BinaryExpr{Operator: Plus, Left: x, Right: DInt(1)},
			&BinaryExpr{Operator: Minus, Left: x, Right: DInt(1)},
			false,
		},
		{
			&IsNullPredicate{Expr: x},
			&IsNullPredicate{Expr: x, Not: true},
			false,
		},
		{
			&TupleIsNullPredicate{TupleIDs: []sqlbase.TupleID{1, 2}},
			&TupleIsNullPredicate{TupleIDs: []sqlbase.TupleID{1, 2}},
			true,
		},
		{
			&TupleIsNullPredicate{TupleIDs: []sqlbase.TupleID{1}},
			&TupleIsNullPredicate{TupleIDs: []sqlbase.TupleID{2}},
			false,
		},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, Equal(tc.a, tc.b),
			"%s vs %s", AsString(tc.a), AsString(tc.b))
	}
}
