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

// TableRef is one entry of a FROM clause: a base table, an inline view or
// a join. The variants form a closed set within this package; dispatch
// goes through the shared resolve method rather than anything like an
// override chain.
type TableRef interface {
	tree.NodeFormatter

	// Alias returns the name binding this reference in its scope. Joins
	// have no alias of their own.
	Alias() string
	// Desc returns the tuple descriptor, nil until resolved (and always
	// nil for joins, whose children carry the descriptors).
	Desc() *sqlbase.TupleDescriptor
	// MaterializedTupleIDs returns the tuples producing rows for this
	// reference. Calling it before resolution is a programming error.
	MaterializedTupleIDs() []sqlbase.TupleID

	// resolve analyzes the reference within the given scope.
	resolve(ctx context.Context, a *Analyzer) error
	// columnNames lists the columns this reference can expose.
	columnNames() []string
}

// refSMap returns the substitution map a reference exposes to its
// enclosing block: the view map for inline views, the combined child maps
// for joins, nothing for base tables.
func refSMap(ref TableRef) *tree.SubstitutionMap {
	switch t := ref.(type) {
	case *InlineViewRef:
		return t.ExprSMap()
	case *JoinRef:
		return tree.Combine(refSMap(t.left), refSMap(t.right))
	}
	return nil
}

// BaseTableRef is a scan of a stored table. Catalog resolution is outside
// this core; the reference carries its column names directly.
type BaseTableRef struct {
	alias   string
	columns []string

	desc *sqlbase.TupleDescriptor
}

var _ TableRef = (*BaseTableRef)(nil)

// NewBaseTableRef creates a base table reference with the given alias and
// columns.
func NewBaseTableRef(alias string, columns ...string) *BaseTableRef {
	return &BaseTableRef{alias: alias, columns: columns}
}

// Alias implements the TableRef interface.
func (b *BaseTableRef) Alias() string { return b.alias }

// Desc implements the TableRef interface.
func (b *BaseTableRef) Desc() *sqlbase.TupleDescriptor { return b.desc }

// MaterializedTupleIDs implements the TableRef interface.
func (b *BaseTableRef) MaterializedTupleIDs() []sqlbase.TupleID {
	if b.desc == nil {
		panic(errors.AssertionFailedf("table %q has not been resolved", b.alias))
	}
	return []sqlbase.TupleID{b.desc.ID}
}

func (b *BaseTableRef) resolve(ctx context.Context, a *Analyzer) error {
	td, err := a.registerTableRef(b)
	if err != nil {
		return err
	}
	td.BaseTable = true
	td.Materialized = true
	b.desc = td
	return nil
}

func (b *BaseTableRef) columnNames() []string { return b.columns }

// Format implements the tree.NodeFormatter interface.
func (b *BaseTableRef) Format(ctx *tree.FmtCtx) {
	ctx.WriteString(b.alias)
}
