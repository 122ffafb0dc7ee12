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
	"github.com/antelopedb/antelope/pkg/sql/sqlbase"
	"github.com/cockroachdb/errors"
)

// Visitor defines methods invoked by WalkExpr for each node. If VisitPre
// returns recurse=false, the children of the (possibly replaced) node are
// not visited.
type Visitor interface {
	VisitPre(expr Expr) (recurse bool, newExpr Expr)
	VisitPost(expr Expr) (newExpr Expr)
}

// WalkExpr traverses the expression with the visitor. The input tree is
// never modified; a new tree is returned whenever the visitor replaced a
// node, sharing unreplaced subtrees with the input.
func WalkExpr(v Visitor, expr Expr) Expr {
	recurse, newExpr := v.VisitPre(expr)
	if recurse {
		newExpr = newExpr.Walk(v)
		newExpr = v.VisitPost(newExpr)
	}
	return newExpr
}

// Walk implements the Expr interface.
func (c *ColumnItem) Walk(_ Visitor) Expr { return c }

// Walk implements the Expr interface.
func (s *SlotRef) Walk(_ Visitor) Expr { return s }

// Walk implements the Expr interface.
func (dNull) Walk(_ Visitor) Expr { return DNull }

// Walk implements the Expr interface.
func (d DBool) Walk(_ Visitor) Expr { return d }

// Walk implements the Expr interface.
func (d DInt) Walk(_ Visitor) Expr { return d }

// Walk implements the Expr interface.
func (d DString) Walk(_ Visitor) Expr { return d }

// Walk implements the Expr interface.
func (d *DDecimal) Walk(_ Visitor) Expr { return d }

// Walk implements the Expr interface.
func (u *UnaryExpr) Walk(v Visitor) Expr {
	e := WalkExpr(v, u.Expr)
	if e != u.Expr {
		uCopy := *u
		uCopy.Expr = e
		return &uCopy
	}
	return u
}

// Walk implements the Expr interface.
func (b *BinaryExpr) Walk(v Visitor) Expr {
	left := WalkExpr(v, b.Left)
	right := WalkExpr(v, b.Right)
	if left != b.Left || right != b.Right {
		bCopy := *b
		bCopy.Left = left
		bCopy.Right = right
		return &bCopy
	}
	return b
}

// Walk implements the Expr interface.
func (c *ComparisonExpr) Walk(v Visitor) Expr {
	left := WalkExpr(v, c.Left)
	right := WalkExpr(v, c.Right)
	if left != c.Left || right != c.Right {
		cCopy := *c
		cCopy.Left = left
		cCopy.Right = right
		return &cCopy
	}
	return c
}

// Walk implements the Expr interface.
func (p *IsNullPredicate) Walk(v Visitor) Expr {
	e := WalkExpr(v, p.Expr)
	if e != p.Expr {
		pCopy := *p
		pCopy.Expr = e
		return &pCopy
	}
	return p
}

// Walk implements the Expr interface.
func (c *CaseExpr) Walk(v Visitor) Expr {
	changed := false
	var operand Expr
	if c.Expr != nil {
		operand = WalkExpr(v, c.Expr)
		changed = changed || operand != c.Expr
	}
	whens := make([]*When, len(c.Whens))
	for i, w := range c.Whens {
		cond := WalkExpr(v, w.Cond)
		val := WalkExpr(v, w.Val)
		if cond != w.Cond || val != w.Val {
			whens[i] = &When{Cond: cond, Val: val}
			changed = true
		} else {
			whens[i] = w
		}
	}
	var elseExpr Expr
	if c.Else != nil {
		elseExpr = WalkExpr(v, c.Else)
		changed = changed || elseExpr != c.Else
	}
	if changed {
		return &CaseExpr{Expr: operand, Whens: whens, Else: elseExpr}
	}
	return c
}

// Walk implements the Expr interface.
func (c *CoalesceExpr) Walk(v Visitor) Expr {
	changed := false
	exprs := make([]Expr, len(c.Exprs))
	for i, e := range c.Exprs {
		exprs[i] = WalkExpr(v, e)
		changed = changed || exprs[i] != e
	}
	if changed {
		return &CoalesceExpr{Exprs: exprs}
	}
	return c
}

// Walk implements the Expr interface.
func (i *IfExpr) Walk(v Visitor) Expr {
	cond := WalkExpr(v, i.Cond)
	trueExpr := WalkExpr(v, i.True)
	elseExpr := WalkExpr(v, i.Else)
	if cond != i.Cond || trueExpr != i.True || elseExpr != i.Else {
		return &IfExpr{Cond: cond, True: trueExpr, Else: elseExpr}
	}
	return i
}

// Walk implements the Expr interface.
func (t *TupleIsNullPredicate) Walk(_ Visitor) Expr { return t }

// DeepCopy returns a copy of the expression sharing no interior nodes with
// the input. Slot descriptors are not copied; references stay non-owning.
func DeepCopy(expr Expr) Expr {
	switch t := expr.(type) {
	case *ColumnItem:
		tCopy := *t
		return &tCopy
	case *SlotRef:
		tCopy := *t
		return &tCopy
	case dNull, DBool, DInt, DString:
		return t
	case *DDecimal:
		d := &DDecimal{}
		d.Set(&t.Decimal)
		return d
	case *UnaryExpr:
		return &UnaryExpr{Operator: t.Operator, Expr: DeepCopy(t.Expr)}
	case *BinaryExpr:
		return &BinaryExpr{Operator: t.Operator, Left: DeepCopy(t.Left), Right: DeepCopy(t.Right)}
	case *ComparisonExpr:
		return &ComparisonExpr{Operator: t.Operator, Left: DeepCopy(t.Left), Right: DeepCopy(t.Right)}
	case *IsNullPredicate:
		return &IsNullPredicate{Expr: DeepCopy(t.Expr), Not: t.Not}
	case *CaseExpr:
		c := &CaseExpr{Whens: make([]*When, len(t.Whens))}
		if t.Expr != nil {
			c.Expr = DeepCopy(t.Expr)
		}
		for i, w := range t.Whens {
			c.Whens[i] = &When{Cond: DeepCopy(w.Cond), Val: DeepCopy(w.Val)}
		}
		if t.Else != nil {
			c.Else = DeepCopy(t.Else)
		}
		return c
	case *CoalesceExpr:
		c := &CoalesceExpr{Exprs: make([]Expr, len(t.Exprs))}
		for i, e := range t.Exprs {
			c.Exprs[i] = DeepCopy(e)
		}
		return c
	case *IfExpr:
		return &IfExpr{Cond: DeepCopy(t.Cond), True: DeepCopy(t.True), Else: DeepCopy(t.Else)}
	case *TupleIsNullPredicate:
		return &TupleIsNullPredicate{TupleIDs: append([]sqlbase.TupleID(nil), t.TupleIDs...)}
	default:
		panic(errors.AssertionFailedf("unhandled expression type %T", expr))
	}
}

// searchVisitor stops the walk once the predicate matches a node.
type searchVisitor struct {
	pred  func(Expr) bool
	found bool
}

var _ Visitor = (*searchVisitor)(nil)

func (v *searchVisitor) VisitPre(expr Expr) (bool, Expr) {
	if v.found {
		return false, expr
	}
	if v.pred(expr) {
		v.found = true
		return false, expr
	}
	return true, expr
}

func (v *searchVisitor) VisitPost(expr Expr) Expr { return expr }

// Contains reports whether any node of the expression satisfies pred.
func Contains(expr Expr, pred func(Expr) bool) bool {
	v := searchVisitor{pred: pred}
	WalkExpr(&v, expr)
	return v.found
}

// slotCollector gathers slot references in traversal order.
type slotCollector struct {
	refs []*SlotRef
}

var _ Visitor = (*slotCollector)(nil)

func (v *slotCollector) VisitPre(expr Expr) (bool, Expr) {
	if s, ok := expr.(*SlotRef); ok {
		v.refs = append(v.refs, s)
		return false, expr
	}
	return true, expr
}

func (v *slotCollector) VisitPost(expr Expr) Expr { return expr }

// CollectSlotRefs returns the distinct slot references contained in the
// given expressions, deduplicated by slot ID, in first-occurrence order.
func CollectSlotRefs(exprs ...Expr) []*SlotRef {
	var v slotCollector
	for _, e := range exprs {
		WalkExpr(&v, e)
	}
	seen := make(map[int]struct{}, len(v.refs))
	distinct := v.refs[:0]
	for _, ref := range v.refs {
		if _, ok := seen[int(ref.Slot.ID)]; ok {
			continue
		}
		seen[int(ref.Slot.ID)] = struct{}{}
		distinct = append(distinct, ref)
	}
	return distinct
}

// IsConst reports whether the expression can be evaluated without any row
// context: no unresolved names, no slot references, no tuple predicates.
func IsConst(expr Expr) bool {
	return !Contains(expr, func(e Expr) bool {
		switch e.(type) {
		case *ColumnItem, *SlotRef, *TupleIsNullPredicate:
			return true
		}
		return false
	})
}
