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
	"io"
	"strconv"

	"github.com/antelopedb/antelope/pkg/sql/sem/tree"
	"github.com/olekukonko/tablewriter"
)

// FormatSMapTable renders an analyzed inline view's substitution map as a
// plan-explain style table: one row per output column with its slot, its
// underlying expression and whether the expression carries an outer-join
// NULL guard.
func FormatSMapTable(w io.Writer, iv *InlineViewRef) {
	m := iv.ExprSMap()
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"column", "slot", "expression", "guarded"})
	for i := 0; i < m.Len(); i++ {
		src := m.Source(i).(*tree.SlotRef)
		repl := m.Replacement(i)
		guarded := "no"
		if containsTupleIsNull(repl) {
			guarded = "yes"
		}
		t.Append([]string{
			src.Slot.Column,
			strconv.Itoa(int(src.Slot.ID)),
			tree.AsString(repl),
			guarded,
		})
	}
	t.Render()
}
