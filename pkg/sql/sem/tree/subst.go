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

import "github.com/cockroachdb/errors"

// SubstitutionMap is an ordered set of rewrite rules. The source at index
// i maps to the replacement at the same index; lookups use first-match
// semantics, so a later duplicate source is unreachable. Inserting a
// duplicate is a caller error that is deliberately not detected here (see
// Lookup).
type SubstitutionMap struct {
	sources      []Expr
	replacements []Expr
}

// Insert appends a rewrite rule.
func (m *SubstitutionMap) Insert(source, replacement Expr) {
	m.sources = append(m.sources, source)
	m.replacements = append(m.replacements, replacement)
}

// Len returns the number of rules.
func (m *SubstitutionMap) Len() int {
	m.checkAligned()
	return len(m.sources)
}

// Source returns the source expression at index i.
func (m *SubstitutionMap) Source(i int) Expr { return m.sources[i] }

// Replacement returns the replacement expression at index i.
func (m *SubstitutionMap) Replacement(i int) Expr { return m.replacements[i] }

// Lookup returns the replacement for the first source structurally equal
// to expr. Later rules with an equal source are intentionally shadowed.
func (m *SubstitutionMap) Lookup(expr Expr) (Expr, bool) {
	m.checkAligned()
	for i, src := range m.sources {
		if Equal(src, expr) {
			return m.replacements[i], true
		}
	}
	return nil, false
}

// substVisitor rewrites matching subtrees top-down. A replaced subtree is
// not recursed into: the outermost match wins.
type substVisitor struct {
	m *SubstitutionMap
}

var _ Visitor = (*substVisitor)(nil)

func (v *substVisitor) VisitPre(expr Expr) (bool, Expr) {
	if repl, ok := v.m.Lookup(expr); ok {
		return false, DeepCopy(repl)
	}
	return true, expr
}

func (v *substVisitor) VisitPost(expr Expr) Expr { return expr }

// Apply produces a new expression tree with every subtree matching a
// source replaced by a copy of the corresponding replacement. The result
// shares no nodes with the input or with the map.
func (m *SubstitutionMap) Apply(expr Expr) Expr {
	m.checkAligned()
	if len(m.sources) == 0 {
		return DeepCopy(expr)
	}
	v := substVisitor{m: m}
	return WalkExpr(&v, DeepCopy(expr))
}

// Compose re-substitutes this map's replacements through inner and returns
// the resulting map. It is used when inline views nest: the enclosing
// view's map must not retain references to the slots of an intermediate
// view, so its replacements are pushed through the intermediate view's
// map before being exposed upward.
func (m *SubstitutionMap) Compose(inner *SubstitutionMap) *SubstitutionMap {
	m.checkAligned()
	res := &SubstitutionMap{
		sources:      make([]Expr, len(m.sources)),
		replacements: make([]Expr, len(m.replacements)),
	}
	for i := range m.sources {
		res.sources[i] = DeepCopy(m.sources[i])
		res.replacements[i] = inner.Apply(m.replacements[i])
	}
	return res
}

// Combine returns a new map holding a's rules followed by b's. Either
// argument may be nil.
func Combine(a, b *SubstitutionMap) *SubstitutionMap {
	res := &SubstitutionMap{}
	for _, m := range []*SubstitutionMap{a, b} {
		if m == nil {
			continue
		}
		m.checkAligned()
		res.sources = append(res.sources, m.sources...)
		res.replacements = append(res.replacements, m.replacements...)
	}
	return res
}

func (m *SubstitutionMap) checkAligned() {
	if len(m.sources) != len(m.replacements) {
		panic(errors.AssertionFailedf(
			"substitution map misaligned: %d sources, %d replacements",
			len(m.sources), len(m.replacements)))
	}
}

// Format implements the NodeFormatter interface, rendering the map as
// src:=repl pairs for diagnostics.
func (m *SubstitutionMap) Format(ctx *FmtCtx) {
	ctx.WriteString("smap(")
	for i := range m.sources {
		if i > 0 {
			ctx.WriteString(", ")
		}
		ctx.FormatNode(m.sources[i])
		ctx.WriteString(":=")
		ctx.FormatNode(m.replacements[i])
	}
	ctx.WriteByte(')')
}

func (m *SubstitutionMap) String() string { return AsString(m) }
