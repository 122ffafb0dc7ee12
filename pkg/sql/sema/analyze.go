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

// Package sema turns a parsed query tree into a fully resolved,
// substitution-consistent representation usable by a planner. Each query
// block is analyzed in its own scope; inline views expose their output
// columns to the enclosing block through substitution maps, and views on
// the nullable side of an outer join have their output expressions
// rewritten to preserve outer-join NULL semantics.
package sema

import (
	"context"

	"github.com/antelopedb/antelope/pkg/sql/sem/eval"
	"github.com/antelopedb/antelope/pkg/sql/sem/tree"
	"github.com/antelopedb/antelope/pkg/sql/sqlbase"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
)

// QueryStmt is one query block. Column labels and result expressions are
// index-aligned and equal in length once the statement is analyzed.
type QueryStmt interface {
	tree.NodeFormatter

	// Analyze resolves the statement entirely within the given scope,
	// recursively analyzing nested query blocks in child scopes.
	Analyze(ctx context.Context, a *Analyzer) error
	// ColLabels returns the output column labels, in select-list order.
	ColLabels() []string
	// ResultExprs returns the resolved output expressions, index-aligned
	// with ColLabels.
	ResultExprs() []tree.Expr
	// MaterializedTupleIDs returns the tuples that physically produce rows
	// for this statement. Empty for a constant, table-free select.
	MaterializedTupleIDs() []sqlbase.TupleID

	// fromSMap exposes the combined substitution map of the statement's
	// FROM-clause views, used by an enclosing inline view to compose its
	// own map down to base-table slots.
	fromSMap() *tree.SubstitutionMap
}

// ConstantEvaluator evaluates a side-effect-free boolean expression
// against the fixed query globals. Implementations must be pure and
// deterministic: the nullability rewrite depends on this for correctness,
// not merely for performance. A failure is not retriable; it signals a
// malformed constant expression and aborts the whole analysis.
type ConstantEvaluator interface {
	EvalPredicate(ctx context.Context, pred tree.Expr, globals *eval.Context) (bool, error)
}

// constFoldEvaluator is the in-process evaluator, backed by the eval
// package's constant folding.
type constFoldEvaluator struct{}

func (constFoldEvaluator) EvalPredicate(
	_ context.Context, pred tree.Expr, globals *eval.Context,
) (bool, error) {
	return eval.Predicate(pred, globals)
}

// AnalyzedQuery is the planner-facing result of analyzing a statement. Its
// result expressions are substituted all the way down: every slot
// reference they contain resolves to a base-table slot.
type AnalyzedQuery struct {
	ColLabels            []string
	ResultExprs          []tree.Expr
	MaterializedTupleIDs []sqlbase.TupleID
}

// Analyze analyzes stmt in the context's root scope. User errors (unknown
// columns, alias collisions) are returned with their PG code; invariant
// violations surface as assertion failures, including those raised as
// panics by state guards deeper in the analysis.
func (c *Context) Analyze(ctx context.Context, stmt QueryStmt) (res *AnalyzedQuery, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.HasAssertionFailure(e) {
				res, err = nil, e
				return
			}
			panic(r)
		}
	}()

	ctx = logtags.AddTag(ctx, "query", c.queryID.String())
	if err := stmt.Analyze(ctx, c.Root()); err != nil {
		return nil, err
	}

	m := stmt.fromSMap()
	exprs := stmt.ResultExprs()
	out := &AnalyzedQuery{
		ColLabels:            append([]string(nil), stmt.ColLabels()...),
		ResultExprs:          make([]tree.Expr, len(exprs)),
		MaterializedTupleIDs: append([]sqlbase.TupleID(nil), stmt.MaterializedTupleIDs()...),
	}
	for i, e := range exprs {
		out.ResultExprs[i] = m.Apply(e)
	}
	c.diag.Eventf(ctx, "analyzed statement with %d output columns over %d tuples",
		len(out.ColLabels), c.descs.NumTuples())
	return out, nil
}
