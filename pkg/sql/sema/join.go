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

	"github.com/antelopedb/antelope/pkg/sql/sem/tree"
	"github.com/antelopedb/antelope/pkg/sql/sqlbase"
	"github.com/cockroachdb/errors"
)

// JoinType identifies the join operator of a JoinRef.
type JoinType int

// JoinRef join types.
const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	CrossJoin
)

var joinTypeName = [...]string{
	InnerJoin:      "JOIN",
	LeftOuterJoin:  "LEFT OUTER JOIN",
	RightOuterJoin: "RIGHT OUTER JOIN",
	FullOuterJoin:  "FULL OUTER JOIN",
	CrossJoin:      "CROSS JOIN",
}

func (t JoinType) String() string { return joinTypeName[t] }

// JoinRef joins two table references. Both sides bind their aliases in the
// enclosing scope; the join itself is unnamed. Resolving an outer join
// rewrites the output of any inline view on a nullable side so that its
// columns evaluate to NULL for non-matching rows.
type JoinRef struct {
	joinType    JoinType
	left, right TableRef
	on          tree.Expr

	onResolved tree.Expr
	resolved   bool
}

var _ TableRef = (*JoinRef)(nil)

// NewJoinRef creates a join. The ON condition may be nil for CROSS joins.
func NewJoinRef(joinType JoinType, left, right TableRef, on tree.Expr) *JoinRef {
	return &JoinRef{joinType: joinType, left: left, right: right, on: on}
}

// Alias implements the TableRef interface.
func (j *JoinRef) Alias() string { return "" }

// Desc implements the TableRef interface.
func (j *JoinRef) Desc() *sqlbase.TupleDescriptor { return nil }

// MaterializedTupleIDs implements the TableRef interface.
func (j *JoinRef) MaterializedTupleIDs() []sqlbase.TupleID {
	if !j.resolved {
		panic(errors.AssertionFailedf("join has not been resolved"))
	}
	return append(j.left.MaterializedTupleIDs(), j.right.MaterializedTupleIDs()...)
}

// OnCond returns the resolved, fully substituted ON condition, or nil.
func (j *JoinRef) OnCond() tree.Expr {
	if !j.resolved {
		panic(errors.AssertionFailedf("join has not been resolved"))
	}
	return j.onResolved
}

func (j *JoinRef) resolve(ctx context.Context, a *Analyzer) error {
	if err := j.left.resolve(ctx, a); err != nil {
		return err
	}
	if err := j.right.resolve(ctx, a); err != nil {
		return err
	}
	if j.on != nil {
		resolved, err := resolveColumnRefs(a, j.on)
		if err != nil {
			return err
		}
		j.onResolved = tree.Combine(refSMap(j.left), refSMap(j.right)).Apply(resolved)
	}
	j.resolved = true

	// A non-matching outer-join row presents NULLs for every slot of the
	// unmatched side. Inline views there must have their output rewritten,
	// or expressions reading no slots would still produce non-NULL values.
	switch j.joinType {
	case LeftOuterJoin:
		return makeRefOutputNullable(ctx, a, j.right)
	case RightOuterJoin:
		return makeRefOutputNullable(ctx, a, j.left)
	case FullOuterJoin:
		if err := makeRefOutputNullable(ctx, a, j.left); err != nil {
			return err
		}
		return makeRefOutputNullable(ctx, a, j.right)
	}
	return nil
}

// makeRefOutputNullable applies the nullability rewrite to every inline
// view within ref. Base tables need no rewrite; their slots present NULLs
// naturally.
func makeRefOutputNullable(ctx context.Context, a *Analyzer, ref TableRef) error {
	switch t := ref.(type) {
	case *InlineViewRef:
		return t.makeOutputNullable(ctx, a)
	case *JoinRef:
		if err := makeRefOutputNullable(ctx, a, t.left); err != nil {
			return err
		}
		return makeRefOutputNullable(ctx, a, t.right)
	}
	return nil
}

func (j *JoinRef) columnNames() []string { return nil }

// Format implements the tree.NodeFormatter interface.
func (j *JoinRef) Format(ctx *tree.FmtCtx) {
	ctx.FormatNode(j.left)
	ctx.WriteByte(' ')
	ctx.WriteString(j.joinType.String())
	ctx.WriteByte(' ')
	ctx.FormatNode(j.right)
	if j.on != nil {
		ctx.WriteString(" ON ")
		ctx.FormatNode(j.on)
	}
}
