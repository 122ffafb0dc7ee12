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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescriptorCollection(t *testing.T) {
	var c DescriptorCollection

	t1 := c.NewTuple("a")
	t2 := c.NewTuple("b")
	require.Equal(t, TupleID(0), t1.ID)
	require.Equal(t, TupleID(1), t2.ID)
	require.Equal(t, 2, c.NumTuples())
	require.Same(t, t2, c.Tuple(1))

	// Slot IDs are unique across the whole collection, not per tuple.
	s1 := c.NewSlot(t1, "x")
	s2 := c.NewSlot(t2, "y")
	s3 := c.NewSlot(t1, "z")
	require.Equal(t, SlotID(0), s1.ID)
	require.Equal(t, SlotID(1), s2.ID)
	require.Equal(t, SlotID(2), s3.ID)
	require.Equal(t, t1.ID, s1.Tuple)
	require.Equal(t, t1.ID, s3.Tuple)
	require.Equal(t, []*SlotDescriptor{s1, s3}, t1.Slots)

	require.Same(t, s3, t1.SlotByName("z"))
	require.Nil(t, t1.SlotByName("y"))

	require.Panics(t, func() { c.Tuple(5) })
}
