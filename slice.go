// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package arenalist

import (
	"fmt"
	"iter"
)

// SliceView is a read-oriented window onto a contiguous run of a [Doubly]
// list, from a front index to a back index, inclusive.
//
// A SliceView holds no nodes of its own; it is a pair of bounds resolved
// against the list that produced it. It goes stale exactly when either
// bound's NodeIndex would: if a bounding node is removed, or the list is
// compacted, All yields nothing, Len returns 0 and String returns "[]". The
// view's methods do not report which [NodeIdxError] the bound produced.
//
// SliceView does not support splicing it into another collection: only a
// whole [Doubly] can be spliced (see [Doubly.AppendFront], [Doubly.AppendBack]).
type SliceView[T any] struct {
	list        *Doubly[T]
	front, back NodeIndex
}

// NewSliceView constructs a view over list bounded by front and back,
// inclusive. It does not validate the bounds eagerly; validation happens
// lazily, each time the view is used.
func NewSliceView[T any](list *Doubly[T], front, back NodeIndex) *SliceView[T] {
	return &SliceView[T]{list: list, front: front, back: back}
}

// All returns the sequence of every live value's pointer within the view,
// front to back.
func (v *SliceView[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		frontPos, err := v.list.resolve(v.front)
		if err != nil {
			return
		}
		backPos, err := v.list.resolve(v.back)
		if err != nil {
			return
		}
		pos := frontPos
		for {
			n := v.list.nodes.Get(pos)
			next := n.next
			if !yield(&n.value) {
				return
			}
			if pos == backPos {
				return
			}
			if next.IsNull() {
				return
			}
			pos = next
		}
	}
}

// Len counts the live nodes within the view by walking it. O(n) in the size
// of the view.
func (v *SliceView[T]) Len() int {
	n := 0
	for range v.All() {
		n++
	}
	return n
}

// String implements fmt.Stringer.
func (v *SliceView[T]) String() string {
	out := "["
	first := true
	for val := range v.All() {
		if !first {
			out += " "
		}
		first = false
		out += fmt.Sprint(*val)
	}
	return out + "]"
}
