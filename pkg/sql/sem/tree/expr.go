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
	"fmt"
	"strconv"

	"github.com/antelopedb/antelope/pkg/sql/sqlbase"
)

// Expr is an expression tree node.
type Expr interface {
	fmt.Stringer
	NodeFormatter

	// Walk recurses into the expression's children with the given visitor.
	// It returns a new node if the visitor replaced any descendant, leaving
	// the receiver unmodified.
	Walk(Visitor) Expr
}

// ColumnItem is an unresolved column reference of the form [table.]column.
// Name resolution replaces it with a SlotRef.
type ColumnItem struct {
	TableName  string
	ColumnName string
}

// Format implements the NodeFormatter interface.
func (c *ColumnItem) Format(ctx *FmtCtx) {
	if c.TableName != "" {
		ctx.WriteString(c.TableName)
		ctx.WriteByte('.')
	}
	ctx.WriteString(c.ColumnName)
}

func (c *ColumnItem) String() string { return AsString(c) }

// SlotRef is a resolved column reference. It refers to a slot descriptor
// without owning it.
type SlotRef struct {
	Slot *sqlbase.SlotDescriptor
}

// NewSlotRef returns a reference to the given slot.
func NewSlotRef(slot *sqlbase.SlotDescriptor) *SlotRef {
	return &SlotRef{Slot: slot}
}

// Format implements the NodeFormatter interface.
func (s *SlotRef) Format(ctx *FmtCtx) {
	ctx.WriteString(s.Slot.Column)
	ctx.WriteString(" [slot ")
	ctx.WriteString(strconv.Itoa(int(s.Slot.ID)))
	ctx.WriteByte(']')
}

func (s *SlotRef) String() string { return AsString(s) }

// UnaryOperator represents a unary operator.
type UnaryOperator int

// UnaryExpr operators.
const (
	UnaryMinus UnaryOperator = iota
)

var unaryOpName = [...]string{
	UnaryMinus: "-",
}

func (op UnaryOperator) String() string { return unaryOpName[op] }

// UnaryExpr represents a unary value expression.
type UnaryExpr struct {
	Operator UnaryOperator
	Expr     Expr
}

// Format implements the NodeFormatter interface.
func (u *UnaryExpr) Format(ctx *FmtCtx) {
	ctx.WriteString(u.Operator.String())
	ctx.FormatNode(u.Expr)
}

func (u *UnaryExpr) String() string { return AsString(u) }

// BinaryOperator represents a binary operator.
type BinaryOperator int

// BinaryExpr operators.
const (
	Plus BinaryOperator = iota
	Minus
	Mult
	Div
	Concat
)

var binaryOpName = [...]string{
	Plus:   "+",
	Minus:  "-",
	Mult:   "*",
	Div:    "/",
	Concat: "||",
}

func (op BinaryOperator) String() string { return binaryOpName[op] }

// BinaryExpr represents a binary value expression.
type BinaryExpr struct {
	Operator    BinaryOperator
	Left, Right Expr
}

// Format implements the NodeFormatter interface.
func (b *BinaryExpr) Format(ctx *FmtCtx) {
	ctx.FormatNode(b.Left)
	ctx.WriteByte(' ')
	ctx.WriteString(b.Operator.String())
	ctx.WriteByte(' ')
	ctx.FormatNode(b.Right)
}

func (b *BinaryExpr) String() string { return AsString(b) }

// ComparisonOperator represents a comparison operator.
type ComparisonOperator int

// ComparisonExpr operators.
const (
	EQ ComparisonOperator = iota
	NE
	LT
	LE
	GT
	GE
)

var comparisonOpName = [...]string{
	EQ: "=",
	NE: "!=",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",
}

func (op ComparisonOperator) String() string { return comparisonOpName[op] }

// ComparisonExpr represents a comparison between two values.
type ComparisonExpr struct {
	Operator    ComparisonOperator
	Left, Right Expr
}

// Format implements the NodeFormatter interface.
func (c *ComparisonExpr) Format(ctx *FmtCtx) {
	ctx.FormatNode(c.Left)
	ctx.WriteByte(' ')
	ctx.WriteString(c.Operator.String())
	ctx.WriteByte(' ')
	ctx.FormatNode(c.Right)
}

func (c *ComparisonExpr) String() string { return AsString(c) }

// IsNullPredicate represents e IS NULL and, with Not set, e IS NOT NULL.
// Unlike comparisons, it never evaluates to NULL.
type IsNullPredicate struct {
	Expr Expr
	Not  bool
}

// Format implements the NodeFormatter interface.
func (p *IsNullPredicate) Format(ctx *FmtCtx) {
	ctx.FormatNode(p.Expr)
	if p.Not {
		ctx.WriteString(" IS NOT NULL")
	} else {
		ctx.WriteString(" IS NULL")
	}
}

func (p *IsNullPredicate) String() string { return AsString(p) }

// When is a single WHEN ... THEN ... arm of a CaseExpr.
type When struct {
	Cond Expr
	Val  Expr
}

// Format implements the NodeFormatter interface.
func (w *When) Format(ctx *FmtCtx) {
	ctx.WriteString("WHEN ")
	ctx.FormatNode(w.Cond)
	ctx.WriteString(" THEN ")
	ctx.FormatNode(w.Val)
}

// CaseExpr represents a CASE expression, in both the searched form
// (no operand) and the simple form (operand compared to each WHEN).
type CaseExpr struct {
	Expr  Expr // optional operand
	Whens []*When
	Else  Expr // optional
}

// Format implements the NodeFormatter interface.
func (c *CaseExpr) Format(ctx *FmtCtx) {
	ctx.WriteString("CASE")
	if c.Expr != nil {
		ctx.WriteByte(' ')
		ctx.FormatNode(c.Expr)
	}
	for _, w := range c.Whens {
		ctx.WriteByte(' ')
		w.Format(ctx)
	}
	if c.Else != nil {
		ctx.WriteString(" ELSE ")
		ctx.FormatNode(c.Else)
	}
	ctx.WriteString(" END")
}

func (c *CaseExpr) String() string { return AsString(c) }

// CoalesceExpr represents COALESCE(...): the first non-NULL operand.
type CoalesceExpr struct {
	Exprs []Expr
}

// Format implements the NodeFormatter interface.
func (c *CoalesceExpr) Format(ctx *FmtCtx) {
	ctx.WriteString("COALESCE(")
	for i, e := range c.Exprs {
		if i > 0 {
			ctx.WriteString(", ")
		}
		ctx.FormatNode(e)
	}
	ctx.WriteByte(')')
}

func (c *CoalesceExpr) String() string { return AsString(c) }

// IfExpr represents IF(cond, true, else). A NULL condition selects the
// else branch.
type IfExpr struct {
	Cond Expr
	True Expr
	Else Expr
}

// Format implements the NodeFormatter interface.
func (i *IfExpr) Format(ctx *FmtCtx) {
	ctx.WriteString("IF(")
	ctx.FormatNode(i.Cond)
	ctx.WriteString(", ")
	ctx.FormatNode(i.True)
	ctx.WriteString(", ")
	ctx.FormatNode(i.Else)
	ctx.WriteByte(')')
}

func (i *IfExpr) String() string { return AsString(i) }

// TupleIsNullPredicate evaluates to true at execution time when every one
// of the given tuples presents a NULL row, as happens on the nullable side
// of an outer join for non-matching rows. It is not a constant expression.
type TupleIsNullPredicate struct {
	TupleIDs []sqlbase.TupleID
}

// Format implements the NodeFormatter interface.
func (t *TupleIsNullPredicate) Format(ctx *FmtCtx) {
	ctx.WriteString("tuple_is_null(")
	for i, id := range t.TupleIDs {
		if i > 0 {
			ctx.WriteString(", ")
		}
		ctx.WriteString(strconv.Itoa(int(id)))
	}
	ctx.WriteByte(')')
}

func (t *TupleIsNullPredicate) String() string { return AsString(t) }
