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
	"strings"

	"github.com/antelopedb/antelope/pkg/sql/sem/tree"
	"github.com/antelopedb/antelope/pkg/sql/sqlbase"
	"github.com/cockroachdb/errors"
)

// SelectExpr is one select-list entry with an optional AS label.
type SelectExpr struct {
	Expr tree.Expr
	As   string
}

// SelectStmt is a single SELECT block. It implements QueryStmt.
type SelectStmt struct {
	From  []TableRef
	Exprs []SelectExpr
	Where tree.Expr

	analyzer      *Analyzer
	colLabels     []string
	resultExprs   []tree.Expr
	whereResolved tree.Expr
	combinedSMap  *tree.SubstitutionMap
	analyzed      bool
}

var _ QueryStmt = (*SelectStmt)(nil)

// Analyze implements the QueryStmt interface. Table references resolve in
// FROM order; the select list and WHERE clause then resolve against them,
// with visibility into enclosing scopes for correlated references.
func (s *SelectStmt) Analyze(ctx context.Context, a *Analyzer) error {
	if s.analyzed {
		return errors.AssertionFailedf("statement analyzed twice")
	}
	if len(s.Exprs) == 0 {
		return errors.AssertionFailedf("statement has an empty select list")
	}
	s.analyzer = a

	for _, ref := range s.From {
		if err := ref.resolve(ctx, a); err != nil {
			return err
		}
	}
	s.combinedSMap = &tree.SubstitutionMap{}
	for _, ref := range s.From {
		s.combinedSMap = tree.Combine(s.combinedSMap, refSMap(ref))
	}

	s.colLabels = make([]string, len(s.Exprs))
	s.resultExprs = make([]tree.Expr, len(s.Exprs))
	for i, se := range s.Exprs {
		s.colLabels[i] = se.label()
		resolved, err := resolveColumnRefs(a, se.Expr)
		if err != nil {
			return err
		}
		s.resultExprs[i] = resolved
	}

	if s.Where != nil {
		resolved, err := resolveColumnRefs(a, s.Where)
		if err != nil {
			return err
		}
		s.whereResolved = s.combinedSMap.Apply(resolved)
	}

	s.analyzed = true
	return nil
}

// label derives the output column label: the AS alias if present, the
// column name for a plain column reference, otherwise the lowercased SQL
// form of the expression.
func (se SelectExpr) label() string {
	if se.As != "" {
		return se.As
	}
	if c, ok := se.Expr.(*tree.ColumnItem); ok {
		return c.ColumnName
	}
	return strings.ToLower(tree.AsString(se.Expr))
}

func (s *SelectStmt) checkAnalyzed() {
	if !s.analyzed {
		panic(errors.AssertionFailedf("statement has not been analyzed"))
	}
}

// ColLabels implements the QueryStmt interface.
func (s *SelectStmt) ColLabels() []string {
	s.checkAnalyzed()
	return s.colLabels
}

// ResultExprs implements the QueryStmt interface. The expressions are
// name-resolved; references to FROM-clause views are translated to base
// slots by the enclosing inline view's map composition, or by
// Context.Analyze for the outermost block.
func (s *SelectStmt) ResultExprs() []tree.Expr {
	s.checkAnalyzed()
	return s.resultExprs
}

// WhereClause returns the resolved, fully substituted filter, or nil.
func (s *SelectStmt) WhereClause() tree.Expr {
	s.checkAnalyzed()
	return s.whereResolved
}

// MaterializedTupleIDs implements the QueryStmt interface.
func (s *SelectStmt) MaterializedTupleIDs() []sqlbase.TupleID {
	s.checkAnalyzed()
	var ids []sqlbase.TupleID
	for _, ref := range s.From {
		ids = append(ids, ref.MaterializedTupleIDs()...)
	}
	return ids
}

func (s *SelectStmt) fromSMap() *tree.SubstitutionMap {
	s.checkAnalyzed()
	return s.combinedSMap
}

// Format implements the tree.NodeFormatter interface.
func (s *SelectStmt) Format(ctx *tree.FmtCtx) {
	ctx.WriteString("SELECT ")
	for i, se := range s.Exprs {
		if i > 0 {
			ctx.WriteString(", ")
		}
		ctx.FormatNode(se.Expr)
		if se.As != "" {
			ctx.WriteString(" AS ")
			ctx.WriteString(se.As)
		}
	}
	if len(s.From) > 0 {
		ctx.WriteString(" FROM ")
		for i, ref := range s.From {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.FormatNode(ref)
		}
	}
	if s.Where != nil {
		ctx.WriteString(" WHERE ")
		ctx.FormatNode(s.Where)
	}
}

func (s *SelectStmt) String() string { return tree.AsString(s) }

// resolveVisitor replaces ColumnItems with slot references.
type resolveVisitor struct {
	a   *Analyzer
	err error
}

var _ tree.Visitor = (*resolveVisitor)(nil)

func (v *resolveVisitor) VisitPre(expr tree.Expr) (bool, tree.Expr) {
	if v.err != nil {
		return false, expr
	}
	if c, ok := expr.(*tree.ColumnItem); ok {
		slot, err := v.a.RegisterColumnRef(c.TableName, c.ColumnName)
		if err != nil {
			v.err = err
			return false, expr
		}
		return false, tree.NewSlotRef(slot)
	}
	return true, expr
}

func (v *resolveVisitor) VisitPost(expr tree.Expr) tree.Expr { return expr }

// resolveColumnRefs returns expr with every column reference resolved to
// a slot reference. The input tree is left unmodified.
func resolveColumnRefs(a *Analyzer, expr tree.Expr) (tree.Expr, error) {
	v := resolveVisitor{a: a}
	resolved := tree.WalkExpr(&v, expr)
	if v.err != nil {
		return nil, v.err
	}
	return resolved, nil
}
