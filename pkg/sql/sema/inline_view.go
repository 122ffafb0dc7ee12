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

	"github.com/antelopedb/antelope/pkg/sql/pgwire/pgcode"
	"github.com/antelopedb/antelope/pkg/sql/pgwire/pgerror"
	"github.com/antelopedb/antelope/pkg/sql/sem/tree"
	"github.com/antelopedb/antelope/pkg/sql/sqlbase"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
)

// InlineViewRef is a query statement used in place of a table, bound to an
// alias. Its substitution map translates references to the view's columns
// into the underlying, fully substituted result expressions: every slot
// reference in a replacement resolves to a base table, never to a
// contained inline view, so replacements can be evaluated at runtime.
type InlineViewRef struct {
	alias string
	stmt  QueryStmt

	// inner is the scope the view's statement was analyzed in. It is kept
	// for the lifetime of the reference; later callers re-resolve
	// expressions through it.
	inner *Analyzer
	desc  *sqlbase.TupleDescriptor

	// materializedTupleIDs are the tuples actually producing rows for this
	// view: normally the base tuples of the nested statement, or the
	// view's own tuple for a constant select.
	materializedTupleIDs []sqlbase.TupleID

	sMap     *tree.SubstitutionMap
	analyzed bool
}

var _ TableRef = (*InlineViewRef)(nil)

// NewInlineViewRef creates an inline view over stmt, bound to alias.
func NewInlineViewRef(alias string, stmt QueryStmt) *InlineViewRef {
	return &InlineViewRef{alias: alias, stmt: stmt}
}

// Alias implements the TableRef interface.
func (iv *InlineViewRef) Alias() string { return iv.alias }

// Desc implements the TableRef interface.
func (iv *InlineViewRef) Desc() *sqlbase.TupleDescriptor { return iv.desc }

// Stmt returns the view's query statement.
func (iv *InlineViewRef) Stmt() QueryStmt { return iv.stmt }

// InnerAnalyzer returns the scope the nested statement was analyzed in.
func (iv *InlineViewRef) InnerAnalyzer() *Analyzer {
	iv.checkAnalyzed()
	return iv.inner
}

// ExprSMap returns the view's substitution map.
func (iv *InlineViewRef) ExprSMap() *tree.SubstitutionMap {
	iv.checkAnalyzed()
	return iv.sMap
}

// MaterializedTupleIDs implements the TableRef interface.
func (iv *InlineViewRef) MaterializedTupleIDs() []sqlbase.TupleID {
	iv.checkAnalyzed()
	if len(iv.materializedTupleIDs) == 0 {
		panic(errors.AssertionFailedf("inline view %q has no materialized tuples", iv.alias))
	}
	return iv.materializedTupleIDs
}

func (iv *InlineViewRef) checkAnalyzed() {
	if !iv.analyzed {
		panic(errors.AssertionFailedf("inline view %q has not been analyzed", iv.alias))
	}
}

// resolve analyzes the nested statement in a child scope, registers the
// view in the enclosing scope and builds the substitution map exposing the
// view's columns.
func (iv *InlineViewRef) resolve(ctx context.Context, a *Analyzer) error {
	if iv.alias == "" {
		return pgerror.New(pgcode.Syntax, "subquery in FROM must have an alias")
	}
	ctx = logtags.AddTag(ctx, "view", iv.alias)

	// The nested query block has its own analysis scope. By the time its
	// analysis returns, every nested view below it has been substituted
	// all the way down.
	iv.inner = a.CreateChild()
	if err := iv.stmt.Analyze(ctx, iv.inner); err != nil {
		return err
	}
	iv.materializedTupleIDs = append([]sqlbase.TupleID(nil), iv.stmt.MaterializedTupleIDs()...)

	td, err := a.RegisterInlineViewRef(iv)
	if err != nil {
		return err
	}
	iv.desc = td
	iv.analyzed = true

	// A constant select has no materialized tuples of its own, yet still
	// needs a physical row to carry its values through the plan.
	if len(iv.materializedTupleIDs) == 0 {
		td.Materialized = true
		iv.materializedTupleIDs = []sqlbase.TupleID{td.ID}
	}

	labels := iv.stmt.ColLabels()
	exprs := iv.stmt.ResultExprs()
	if len(labels) != len(exprs) {
		return errors.AssertionFailedf("inline view %q: %d labels, %d result expressions",
			iv.alias, len(labels), len(exprs))
	}
	raw := &tree.SubstitutionMap{}
	for i := range labels {
		slot, err := a.RegisterColumnRef(iv.alias, labels[i])
		if err != nil {
			return err
		}
		raw.Insert(tree.NewSlotRef(slot), exprs[i])
	}
	// Push the replacements through the maps of the views nested below, so
	// this map never retains a reference to an intermediate view's slots.
	iv.sMap = raw.Compose(iv.stmt.fromSMap())

	a.c.diag.Eventf(ctx, "inline view smap: %s", iv.sMap)
	return nil
}

func (iv *InlineViewRef) columnNames() []string {
	return iv.stmt.ColLabels()
}

// Format implements the tree.NodeFormatter interface.
func (iv *InlineViewRef) Format(ctx *tree.FmtCtx) {
	ctx.WriteByte('(')
	ctx.FormatNode(iv.stmt)
	ctx.WriteString(") ")
	ctx.WriteString(iv.alias)
}

// makeOutputNullable rewrites the substitution map so that each
// replacement evaluates to NULL whenever all of the view's materialized
// tuples present NULL rows. A replacement needs rewriting when it yields a
// non-NULL value with every one of its slot references set to NULL: a
// constant, or an expression like CASE WHEN s IS NULL THEN 1 ELSE 2 END.
// Should be called only when this view is on the nullable side of an
// outer join. The rewrite is idempotent: already guarded replacements are
// left alone.
func (iv *InlineViewRef) makeOutputNullable(ctx context.Context, a *Analyzer) error {
	iv.checkAnalyzed()
	wrapped := &tree.SubstitutionMap{}
	for i := 0; i < iv.sMap.Len(); i++ {
		e := iv.sMap.Replacement(i)
		needsWrap, err := iv.requiresNullWrapping(ctx, a, e)
		if err != nil {
			return err
		}
		if needsWrap {
			e = &tree.IfExpr{
				Cond: &tree.TupleIsNullPredicate{
					TupleIDs: append([]sqlbase.TupleID(nil), iv.materializedTupleIDs...),
				},
				True: tree.DNull,
				Else: tree.DeepCopy(e),
			}
		} else {
			e = tree.DeepCopy(e)
		}
		wrapped.Insert(tree.DeepCopy(iv.sMap.Source(i)), e)
	}
	iv.sMap = wrapped
	a.c.diag.Eventf(ctx, "nullable inline view smap: %s", iv.sMap)
	return nil
}

// requiresNullWrapping replaces every slot reference in expr with NULL and
// evaluates the resulting constant: a non-NULL result means the expression
// does not go to NULL with its inputs and must be guarded.
func (iv *InlineViewRef) requiresNullWrapping(
	ctx context.Context, a *Analyzer, expr tree.Expr,
) (bool, error) {
	// An existing guard means an earlier rewrite pass already handled this
	// expression; wrapping again would be redundant.
	if containsTupleIsNull(expr) {
		return false, nil
	}

	nullSMap := &tree.SubstitutionMap{}
	for _, ref := range tree.CollectSlotRefs(expr) {
		nullSMap.Insert(tree.NewSlotRef(ref.Slot), tree.DNull)
	}
	pred := &tree.IsNullPredicate{Expr: nullSMap.Apply(expr), Not: true}
	if !tree.IsConst(pred) {
		return false, errors.AssertionFailedf(
			"null-wrapping predicate is not constant: %s", tree.AsString(pred))
	}
	res, err := a.c.evaluator.EvalPredicate(ctx, pred, a.QueryGlobals())
	if err != nil {
		return false, errors.NewAssertionErrorWithWrappedErrf(err,
			"could not evaluate predicate %s", tree.AsString(pred))
	}
	return res, nil
}

func containsTupleIsNull(expr tree.Expr) bool {
	return tree.Contains(expr, func(e tree.Expr) bool {
		_, ok := e.(*tree.TupleIsNullPredicate)
		return ok
	})
}
