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
	"github.com/antelopedb/antelope/pkg/sql/pgwire/pgcode"
	"github.com/antelopedb/antelope/pkg/sql/pgwire/pgerror"
	"github.com/antelopedb/antelope/pkg/sql/sem/eval"
	"github.com/antelopedb/antelope/pkg/sql/sqlbase"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Context owns all state of one statement's analysis: the scope arena, the
// descriptor arena, the query globals and the diagnostic sink. It is torn
// down as a unit once analysis completes; no scope outlives it.
type Context struct {
	descs     sqlbase.DescriptorCollection
	scopes    []scopeData
	globals   *eval.Context
	diag      Diagnostics
	evaluator ConstantEvaluator
	queryID   uuid.UUID
}

// scopeData is one query block's name space. Scopes form a tree through
// parent indices into the arena; children are created when analysis enters
// a nested query block and are never revisited after analysis leaves it.
type scopeData struct {
	parent int // index into Context.scopes, -1 for the root
	refs   map[string]TableRef
}

// Analyzer is a handle on one scope in the arena. It resolves column names
// to slot descriptors within its query block, with visibility into
// ancestor blocks for correlated references.
type Analyzer struct {
	c  *Context
	id int
}

// Option configures a Context.
type Option func(*Context)

// WithDiagnostics routes analysis events to the given sink.
func WithDiagnostics(d Diagnostics) Option {
	return func(c *Context) { c.diag = d }
}

// WithConstantEvaluator substitutes the evaluator consulted by the
// nullability rewrite. It must be pure and deterministic for a given
// expression and global-constant set.
func WithConstantEvaluator(ev ConstantEvaluator) Option {
	return func(c *Context) { c.evaluator = ev }
}

// NewContext creates the analysis context and its root scope.
func NewContext(globals *eval.Context, opts ...Option) *Context {
	c := &Context{
		globals:   globals,
		diag:      noopDiagnostics{},
		evaluator: constFoldEvaluator{},
		queryID:   uuid.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.scopes = append(c.scopes, scopeData{parent: -1, refs: make(map[string]TableRef)})
	return c
}

// Root returns the analyzer for the outermost query block.
func (c *Context) Root() *Analyzer {
	return &Analyzer{c: c, id: 0}
}

// QueryID identifies this analysis in diagnostics.
func (c *Context) QueryID() uuid.UUID {
	return c.queryID
}

// CreateChild opens a new scope with the receiver as parent. It is used
// exactly once per nested query block.
func (a *Analyzer) CreateChild() *Analyzer {
	a.c.scopes = append(a.c.scopes, scopeData{parent: a.id, refs: make(map[string]TableRef)})
	return &Analyzer{c: a.c, id: len(a.c.scopes) - 1}
}

// QueryGlobals returns the fixed query-wide constants used for constant
// evaluation.
func (a *Analyzer) QueryGlobals() *eval.Context {
	return a.c.globals
}

// RegisterInlineViewRef binds the view's alias in this scope and allocates
// the tuple descriptor visible to the enclosing block.
func (a *Analyzer) RegisterInlineViewRef(ref *InlineViewRef) (*sqlbase.TupleDescriptor, error) {
	return a.registerTableRef(ref)
}

// registerTableRef binds ref's alias in this scope and allocates its tuple
// descriptor. The alias must be unique within the scope.
func (a *Analyzer) registerTableRef(ref TableRef) (*sqlbase.TupleDescriptor, error) {
	alias := ref.Alias()
	sc := &a.c.scopes[a.id]
	if _, ok := sc.refs[alias]; ok {
		return nil, pgerror.Newf(pgcode.DuplicateAlias, "duplicate table alias: %q", alias)
	}
	td := a.c.descs.NewTuple(alias)
	sc.refs[alias] = ref
	return td, nil
}

// resolveAlias finds the table reference bound to alias in this scope or
// the nearest ancestor scope.
func (a *Analyzer) resolveAlias(alias string) (TableRef, bool) {
	for id := a.id; id != -1; id = a.c.scopes[id].parent {
		if ref, ok := a.c.scopes[id].refs[alias]; ok {
			return ref, true
		}
	}
	return nil, false
}

// RegisterColumnRef resolves tableAlias.colName to a slot descriptor,
// allocating the slot on first use. An empty tableAlias resolves the
// column against every reference visible from this scope and fails if the
// name is ambiguous.
func (a *Analyzer) RegisterColumnRef(tableAlias, colName string) (*sqlbase.SlotDescriptor, error) {
	var ref TableRef
	if tableAlias == "" {
		var err error
		if ref, err = a.resolveUnqualified(colName); err != nil {
			return nil, err
		}
	} else {
		var ok bool
		if ref, ok = a.resolveAlias(tableAlias); !ok {
			return nil, pgerror.Newf(pgcode.UndefinedTable,
				"no data source matches prefix: %q", tableAlias)
		}
	}
	td := ref.Desc()
	if td == nil {
		return nil, errors.AssertionFailedf(
			"column %q resolved against unanalyzed reference %q", colName, ref.Alias())
	}
	if s := td.SlotByName(colName); s != nil {
		return s, nil
	}
	if !refHasColumn(ref, colName) {
		return nil, pgerror.Newf(pgcode.UndefinedColumn, "column %q does not exist", colName)
	}
	return a.c.descs.NewSlot(td, colName), nil
}

// resolveUnqualified finds the unique visible reference exposing colName.
// The search stops at the innermost scope containing a match, so an inner
// column shadows a same-named column of an enclosing block.
func (a *Analyzer) resolveUnqualified(colName string) (TableRef, error) {
	for id := a.id; id != -1; id = a.c.scopes[id].parent {
		var found TableRef
		for _, ref := range a.c.scopes[id].refs {
			if !refHasColumn(ref, colName) {
				continue
			}
			if found != nil {
				return nil, pgerror.Newf(pgcode.AmbiguousColumn,
					"column reference %q is ambiguous", colName)
			}
			found = ref
		}
		if found != nil {
			return found, nil
		}
	}
	return nil, pgerror.Newf(pgcode.UndefinedColumn, "column %q does not exist", colName)
}

func refHasColumn(ref TableRef, colName string) bool {
	for _, c := range ref.columnNames() {
		if c == colName {
			return true
		}
	}
	return false
}
