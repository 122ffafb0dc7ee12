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

package sema_test

import (
	"context"
	"testing"

	"github.com/antelopedb/antelope/pkg/sql/pgwire/pgcode"
	"github.com/antelopedb/antelope/pkg/sql/pgwire/pgerror"
	"github.com/antelopedb/antelope/pkg/sql/sem/eval"
	"github.com/antelopedb/antelope/pkg/sql/sem/tree"
	"github.com/antelopedb/antelope/pkg/sql/sema"
	"github.com/antelopedb/antelope/pkg/sql/sqlbase"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// nullableTestView builds a view whose select list exercises every
// null-wrapping case:
//
//	c1: CASE WHEN t.x IS NULL THEN 1 ELSE 2 END  -- non-NULL on NULL input
//	c2: t.x + 1                                  -- NULL on NULL input
//	c3: 7                                        -- constant
//	c4: NULL                                     -- NULL constant
func nullableTestView(base *sema.BaseTableRef) *sema.InlineViewRef {
	return sema.NewInlineViewRef("v", &sema.SelectStmt{
		From: []sema.TableRef{base},
		Exprs: []sema.SelectExpr{
			{
				Expr: &tree.CaseExpr{
					Whens: []*tree.When{{
						Cond: &tree.IsNullPredicate{Expr: col("t", "x")},
						Val:  tree.DInt(1),
					}},
					Else: tree.DInt(2),
				},
				As: "c1",
			},
			{
				Expr: &tree.BinaryExpr{Operator: tree.Plus, Left: col("t", "x"), Right: tree.DInt(1)},
				As:   "c2",
			},
			{Expr: tree.DInt(7), As: "c3"},
			{Expr: tree.DNull, As: "c4"},
		},
	})
}

// requireGuarded asserts that expr is IF(tuple_is_null(ids), NULL, inner)
// and returns inner.
func requireGuarded(t *testing.T, expr tree.Expr, ids []sqlbase.TupleID) tree.Expr {
	t.Helper()
	ifExpr, ok := expr.(*tree.IfExpr)
	require.True(t, ok, "expected a guarded expression, got %s", tree.AsString(expr))
	guard, ok := ifExpr.Cond.(*tree.TupleIsNullPredicate)
	require.True(t, ok, "guard condition is %s", tree.AsString(ifExpr.Cond))
	require.Equal(t, ids, guard.TupleIDs)
	require.Equal(t, tree.DNull, ifExpr.True)
	return ifExpr.Else
}

func TestLeftOuterJoinNullWrapping(t *testing.T) {
	u := sema.NewBaseTableRef("u", "k")
	base := sema.NewBaseTableRef("t", "x")
	v := nullableTestView(base)
	join := sema.NewJoinRef(sema.LeftOuterJoin, u, v,
		&tree.ComparisonExpr{Operator: tree.EQ, Left: col("u", "k"), Right: col("v", "c2")})
	outer := &sema.SelectStmt{
		From: []sema.TableRef{join},
		Exprs: []sema.SelectExpr{
			{Expr: col("v", "c1")},
			{Expr: col("v", "c2")},
		},
	}

	c := newTestContext()
	res, err := c.Analyze(context.Background(), outer)
	require.NoError(t, err)

	m := v.ExprSMap()
	require.Equal(t, 4, m.Len())
	materialized := []sqlbase.TupleID{base.Desc().ID}

	// c1 survives NULL inputs with a non-NULL value and needs the guard.
	inner := requireGuarded(t, replacementFor(t, m, "c1"), materialized)
	_, ok := inner.(*tree.CaseExpr)
	require.True(t, ok, "got %s", tree.AsString(inner))

	// c2 goes to NULL with its slot, no guard needed.
	_, ok = replacementFor(t, m, "c2").(*tree.BinaryExpr)
	require.True(t, ok, "got %s", tree.AsString(replacementFor(t, m, "c2")))

	// Constants need the guard; the NULL constant does not.
	inner = requireGuarded(t, replacementFor(t, m, "c3"), materialized)
	require.True(t, tree.Equal(tree.DInt(7), inner))
	require.Equal(t, tree.DNull, replacementFor(t, m, "c4"))

	// The guards flow into the top-level outputs.
	requireGuarded(t, res.ResultExprs[0], materialized)
	for _, ref := range tree.CollectSlotRefs(res.ResultExprs...) {
		require.Equal(t, base.Desc().ID, ref.Slot.Tuple)
	}

	// The ON condition was substituted down to base slots.
	for _, ref := range tree.CollectSlotRefs(join.OnCond()) {
		require.Contains(t, []sqlbase.TupleID{u.Desc().ID, base.Desc().ID}, ref.Slot.Tuple)
	}
}

func TestRightOuterJoinWrapsLeftSide(t *testing.T) {
	u := sema.NewBaseTableRef("u", "k")
	base := sema.NewBaseTableRef("t", "x")
	v := nullableTestView(base)
	join := sema.NewJoinRef(sema.RightOuterJoin, v, u,
		&tree.ComparisonExpr{Operator: tree.EQ, Left: col("v", "c2"), Right: col("u", "k")})
	outer := &sema.SelectStmt{
		From:  []sema.TableRef{join},
		Exprs: []sema.SelectExpr{{Expr: col("v", "c3")}},
	}

	c := newTestContext()
	res, err := c.Analyze(context.Background(), outer)
	require.NoError(t, err)
	requireGuarded(t, res.ResultExprs[0], []sqlbase.TupleID{base.Desc().ID})
}

func TestInnerJoinDoesNotWrap(t *testing.T) {
	u := sema.NewBaseTableRef("u", "k")
	base := sema.NewBaseTableRef("t", "x")
	v := nullableTestView(base)
	join := sema.NewJoinRef(sema.InnerJoin, u, v,
		&tree.ComparisonExpr{Operator: tree.EQ, Left: col("u", "k"), Right: col("v", "c2")})
	outer := &sema.SelectStmt{
		From:  []sema.TableRef{join},
		Exprs: []sema.SelectExpr{{Expr: col("v", "c3")}},
	}

	c := newTestContext()
	res, err := c.Analyze(context.Background(), outer)
	require.NoError(t, err)
	require.True(t, tree.Equal(tree.DInt(7), res.ResultExprs[0]),
		"got %s", tree.AsString(res.ResultExprs[0]))
}

func TestNullWrappingIdempotent(t *testing.T) {
	// (u LEFT OUTER JOIN v) FULL OUTER JOIN w: the full outer join visits v
	// a second time; already guarded replacements must not be wrapped again.
	u := sema.NewBaseTableRef("u", "k")
	w := sema.NewBaseTableRef("w", "m")
	base := sema.NewBaseTableRef("t", "x")
	v := nullableTestView(base)
	loj := sema.NewJoinRef(sema.LeftOuterJoin, u, v,
		&tree.ComparisonExpr{Operator: tree.EQ, Left: col("u", "k"), Right: col("v", "c2")})
	foj := sema.NewJoinRef(sema.FullOuterJoin, loj, w,
		&tree.ComparisonExpr{Operator: tree.EQ, Left: col("u", "k"), Right: col("w", "m")})
	outer := &sema.SelectStmt{
		From:  []sema.TableRef{foj},
		Exprs: []sema.SelectExpr{{Expr: col("v", "c1")}},
	}

	c := newTestContext()
	_, err := c.Analyze(context.Background(), outer)
	require.NoError(t, err)

	m := v.ExprSMap()
	materialized := []sqlbase.TupleID{base.Desc().ID}

	inner := requireGuarded(t, replacementFor(t, m, "c1"), materialized)
	_, ok := inner.(*tree.CaseExpr)
	require.True(t, ok, "double-wrapped replacement: %s", tree.AsString(replacementFor(t, m, "c1")))

	inner = requireGuarded(t, replacementFor(t, m, "c3"), materialized)
	require.True(t, tree.Equal(tree.DInt(7), inner),
		"double-wrapped replacement: %s", tree.AsString(replacementFor(t, m, "c3")))

	// The pass-through column still needs no guard.
	_, ok = replacementFor(t, m, "c2").(*tree.BinaryExpr)
	require.True(t, ok)
}

func TestNullWrappingConstantView(t *testing.T) {
	// A constant view on the nullable side guards against its own
	// synthesized tuple.
	u := sema.NewBaseTableRef("u", "k")
	v := sema.NewInlineViewRef("v", &sema.SelectStmt{
		Exprs: []sema.SelectExpr{{Expr: tree.DInt(1), As: "one"}},
	})
	join := sema.NewJoinRef(sema.LeftOuterJoin, u, v,
		&tree.ComparisonExpr{Operator: tree.EQ, Left: col("u", "k"), Right: col("v", "one")})
	outer := &sema.SelectStmt{
		From:  []sema.TableRef{join},
		Exprs: []sema.SelectExpr{{Expr: col("v", "one")}},
	}

	c := newTestContext()
	res, err := c.Analyze(context.Background(), outer)
	require.NoError(t, err)

	inner := requireGuarded(t, res.ResultExprs[0], []sqlbase.TupleID{v.Desc().ID})
	require.True(t, tree.Equal(tree.DInt(1), inner))
}

// countingEvaluator wraps the default constant folding and records how
// often the rewrite consults it.
type countingEvaluator struct {
	calls int
}

func (e *countingEvaluator) EvalPredicate(
	_ context.Context, pred tree.Expr, globals *eval.Context,
) (bool, error) {
	e.calls++
	return eval.Predicate(pred, globals)
}

func TestNullWrappingUsesConfiguredEvaluator(t *testing.T) {
	u := sema.NewBaseTableRef("u", "k")
	base := sema.NewBaseTableRef("t", "x")
	v := nullableTestView(base)
	join := sema.NewJoinRef(sema.LeftOuterJoin, u, v,
		&tree.ComparisonExpr{Operator: tree.EQ, Left: col("u", "k"), Right: col("v", "c2")})
	outer := &sema.SelectStmt{
		From:  []sema.TableRef{join},
		Exprs: []sema.SelectExpr{{Expr: col("v", "c1")}},
	}

	ev := &countingEvaluator{}
	c := newTestContext(sema.WithConstantEvaluator(ev))
	_, err := c.Analyze(context.Background(), outer)
	require.NoError(t, err)
	// One call per replacement in the view's map.
	require.Equal(t, 4, ev.calls)
}

type failingEvaluator struct{}

func (failingEvaluator) EvalPredicate(
	context.Context, tree.Expr, *eval.Context,
) (bool, error) {
	return false, errors.New("evaluator unavailable")
}

func TestNullWrappingEvaluatorFailure(t *testing.T) {
	u := sema.NewBaseTableRef("u", "k")
	base := sema.NewBaseTableRef("t", "x")
	v := nullableTestView(base)
	join := sema.NewJoinRef(sema.LeftOuterJoin, u, v,
		&tree.ComparisonExpr{Operator: tree.EQ, Left: col("u", "k"), Right: col("v", "c2")})
	outer := &sema.SelectStmt{
		From:  []sema.TableRef{join},
		Exprs: []sema.SelectExpr{{Expr: col("v", "c1")}},
	}

	c := newTestContext(sema.WithConstantEvaluator(failingEvaluator{}))
	_, err := c.Analyze(context.Background(), outer)
	require.Error(t, err)
	// An evaluation failure is an internal error, not a user error.
	require.True(t, errors.HasAssertionFailure(err))
	require.Equal(t, pgcode.Internal, pgerror.GetPGCode(err))
}
