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

package sqlbase

import "github.com/cockroachdb/errors"

// TupleID uniquely identifies a TupleDescriptor within one analysis.
type TupleID int

// SlotID uniquely identifies a SlotDescriptor within one analysis.
type SlotID int

// TupleDescriptor describes the row shape produced by a single table
// reference: an ordered set of slots plus bookkeeping about whether rows
// for this tuple are physically materialized.
type TupleDescriptor struct {
	ID    TupleID
	Alias string

	// Materialized is set when rows for this tuple are physically produced
	// at execution time, as opposed to the tuple being a purely symbolic
	// naming layer over other materialized tuples.
	Materialized bool

	// BaseTable is set when the tuple describes a scan of a stored table.
	// Slots of base-table tuples are the only legal targets of slot
	// references in a fully analyzed expression tree.
	BaseTable bool

	// Slots are ordered by allocation. Column names are unique within a
	// tuple; duplicate registrations return the existing slot.
	Slots []*SlotDescriptor
}

// SlotDescriptor describes a single column slot within a tuple. Expression
// nodes reference slots by pointer but never own them; all slots are owned
// by the DescriptorCollection that allocated them.
type SlotDescriptor struct {
	ID     SlotID
	Tuple  TupleID
	Column string
}

// SlotByName returns the slot for the given column name, or nil if no such
// slot has been allocated yet.
func (td *TupleDescriptor) SlotByName(name string) *SlotDescriptor {
	for _, s := range td.Slots {
		if s.Column == name {
			return s
		}
	}
	return nil
}

// DescriptorCollection is the arena owning every tuple and slot descriptor
// allocated during the analysis of one statement. It is torn down only when
// the whole statement's analysis completes.
type DescriptorCollection struct {
	tuples   []*TupleDescriptor
	numSlots int
}

// NewTuple allocates a fresh tuple descriptor with the next free ID.
func (c *DescriptorCollection) NewTuple(alias string) *TupleDescriptor {
	td := &TupleDescriptor{ID: TupleID(len(c.tuples)), Alias: alias}
	c.tuples = append(c.tuples, td)
	return td
}

// NewSlot allocates a slot for the given column within td. The caller is
// responsible for checking that no slot with this name exists yet.
func (c *DescriptorCollection) NewSlot(td *TupleDescriptor, column string) *SlotDescriptor {
	sd := &SlotDescriptor{ID: SlotID(c.numSlots), Tuple: td.ID, Column: column}
	c.numSlots++
	td.Slots = append(td.Slots, sd)
	return sd
}

// Tuple returns the descriptor for the given ID.
func (c *DescriptorCollection) Tuple(id TupleID) *TupleDescriptor {
	if int(id) < 0 || int(id) >= len(c.tuples) {
		panic(errors.AssertionFailedf("tuple ID %d out of range [0, %d)", id, len(c.tuples)))
	}
	return c.tuples[id]
}

// NumTuples returns the number of tuples allocated so far.
func (c *DescriptorCollection) NumTuples() int {
	return len(c.tuples)
}
