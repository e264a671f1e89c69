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

	"github.com/arenalist/arenalist/internal/arena"
	"github.com/arenalist/arenalist/internal/dbg"
	"github.com/arenalist/arenalist/internal/debug"
	"github.com/arenalist/arenalist/internal/stats"
)

// snode is one element of a Singly list: a value plus its successor. There
// is no predecessor link, which is what makes the list singly linked.
type snode[T any] struct {
	value T
	next  arena.Pos
}

// Singly is a singly linked list addressed by generational [NodeIndex]
// values, backed by a pinned, growable arena.
//
// Because a node cannot name its own predecessor, any operation that needs
// one (removing an arbitrary node, popping from the back, moving a node
// near another) must scan from the front to find it, and so runs in O(n)
// rather than O(1); operations that only ever touch a node's successor
// (pushing, inserting after, forward iteration) remain O(1). Singly does
// not expose PopBack, MoveToFront/MoveToBack, or any predecessor-relative
// move, since those have no way to be O(1) here; use [Doubly] if you need
// them.
//
// The zero Singly is not ready to use; construct one with [NewSingly].
type Singly[T any] struct {
	id          collectionID
	mem         uint64
	nodes       arena.Arena[snode[T]]
	front, back arena.Pos
	policy      ReclaimPolicy

	reclaims  int
	holeRatio stats.Mean
}

// NewSingly constructs an empty singly linked list.
func NewSingly[T any](opts ...Option) *Singly[T] {
	c := newConfig(opts)
	s := &Singly[T]{id: newCollectionID(), policy: c.policy}
	if c.initialCapacity > 0 {
		s.nodes.Reserve(c.initialCapacity)
	}
	return s
}

// Len returns the number of live nodes.
func (s *Singly[T]) Len() int { return s.nodes.Len() }

// IsEmpty reports whether the list has no live nodes.
func (s *Singly[T]) IsEmpty() bool { return s.nodes.Len() == 0 }

// ReclaimPolicy returns the collection's current reclaim policy.
func (s *Singly[T]) ReclaimPolicy() ReclaimPolicy { return s.policy }

// SetReclaimPolicy changes the collection's reclaim policy.
func (s *Singly[T]) SetReclaimPolicy(p ReclaimPolicy) { s.policy = p }

// Utilization reports the collection's current arena occupancy.
func (s *Singly[T]) Utilization() Utilization {
	return Utilization{Live: s.nodes.Len(), Holes: s.nodes.Holes()}
}

// Stats summarizes the collection's lifetime compaction behavior.
func (s *Singly[T]) Stats() Stats {
	return Stats{
		Utilization:            s.Utilization(),
		Reclaims:               s.reclaims,
		MeanHoleRatioAtReclaim: s.holeRatio.Get(),
	}
}

func (s *Singly[T]) index(pos arena.Pos) NodeIndex {
	return NodeIndex{coll: s.id, pos: pos, gen: s.mem}
}

func (s *Singly[T]) resolve(idx NodeIndex) (arena.Pos, error) {
	if err := idxErr(s.id, s.mem, &s.nodes, idx); err != nil {
		return arena.Null, err
	}
	return idx.pos, nil
}

// Front returns the index of the first node, or false if the list is empty.
func (s *Singly[T]) Front() (NodeIndex, bool) {
	if s.front.IsNull() {
		return NodeIndex{}, false
	}
	return s.index(s.front), true
}

// Back returns the index of the last node, or false if the list is empty.
//
// Unlike Doubly, Singly tracks Back only as a cursor for O(1) PushBack; it
// cannot be used to reach the predecessor of the last node.
func (s *Singly[T]) Back() (NodeIndex, bool) {
	if s.back.IsNull() {
		return NodeIndex{}, false
	}
	return s.index(s.back), true
}

// Get returns a pointer to the value named by idx.
func (s *Singly[T]) Get(idx NodeIndex) (*T, error) {
	pos, err := s.resolve(idx)
	if err != nil {
		return nil, err
	}
	return &s.nodes.Get(pos).value, nil
}

// GetMut is identical to Get; see [Doubly.GetMut] for why both exist.
func (s *Singly[T]) GetMut(idx NodeIndex) (*T, error) { return s.Get(idx) }

// MustGet returns a pointer to the value named by idx, panicking if idx does
// not resolve.
func (s *Singly[T]) MustGet(idx NodeIndex) *T {
	v, err := s.Get(idx)
	if err != nil {
		panic(fmt.Sprintf("arenalist: MustGet(%s): %v", idx, err))
	}
	return v
}

// PushFront inserts value at the front of the list in O(1) and returns its
// index.
func (s *Singly[T]) PushFront(value T) NodeIndex {
	pos := s.nodes.Alloc(snode[T]{value: value, next: s.front})
	if s.front.IsNull() {
		s.back = pos
	}
	s.front = pos
	return s.index(pos)
}

// PushBack inserts value at the back of the list in O(1) and returns its
// index.
func (s *Singly[T]) PushBack(value T) NodeIndex {
	pos := s.nodes.Alloc(snode[T]{value: value})
	if s.back.IsNull() {
		s.front = pos
	} else {
		s.nodes.Get(s.back).next = pos
	}
	s.back = pos
	return s.index(pos)
}

// PopFront removes and returns the first node's value, or false if the list
// is empty. O(1).
func (s *Singly[T]) PopFront() (T, bool) {
	if s.front.IsNull() {
		var zero T
		return zero, false
	}
	pos := s.front
	n := s.nodes.Get(pos)
	value := n.value
	s.front = n.next
	if s.front.IsNull() {
		s.back = arena.Null
	}
	s.nodes.Free(pos)
	s.maybeReclaim()
	return value, true
}

// predecessorOf scans from the front to find the node whose next field is
// pos, or arena.Null if pos is the front (no predecessor) or not found.
func (s *Singly[T]) predecessorOf(pos arena.Pos) arena.Pos {
	if pos == s.front {
		return arena.Null
	}
	for p := s.front; !p.IsNull(); {
		n := s.nodes.Get(p)
		if n.next == pos {
			return p
		}
		p = n.next
	}
	return arena.Null
}

// Remove removes the node named by idx and returns its value. O(n), because
// a singly linked list must scan from the front to find the removed node's
// predecessor, unless idx names the front itself.
func (s *Singly[T]) Remove(idx NodeIndex) (T, error) {
	pos, err := s.resolve(idx)
	if err != nil {
		var zero T
		return zero, err
	}
	n := s.nodes.Get(pos)
	value := n.value
	next := n.next

	var prev arena.Pos
	if pos != s.front {
		prev = s.predecessorOf(pos)
		debug.Assert(!prev.IsNull(), "Remove(%v): predecessor not found", idx)
	}

	if pos == s.front {
		s.front = next
	} else {
		s.nodes.Get(prev).next = next
	}
	if pos == s.back {
		s.back = prev
	}
	s.nodes.Free(pos)
	s.maybeReclaim()
	return value, nil
}

// InsertNextTo inserts value immediately after the node named by idx and
// returns the new node's index. O(1).
func (s *Singly[T]) InsertNextTo(idx NodeIndex, value T) (NodeIndex, error) {
	at, err := s.resolve(idx)
	if err != nil {
		return NodeIndex{}, err
	}
	next := s.nodes.Get(at).next
	pos := s.nodes.Alloc(snode[T]{value: value, next: next})
	s.nodes.Get(at).next = pos
	if next.IsNull() {
		s.back = pos
	}
	return s.index(pos), nil
}

// AppendFront splices other onto the front of s and empties other, in time
// proportional to the number of fragments and free slots in other's arena;
// other's live nodes are not visited.
func (s *Singly[T]) AppendFront(other *Singly[T]) {
	if other.front.IsNull() {
		return
	}
	otherFront, otherBack := other.front, other.back
	s.nodes.Absorb(&other.nodes)
	other.front, other.back = arena.Null, arena.Null

	if s.front.IsNull() {
		s.front, s.back = otherFront, otherBack
		return
	}
	s.nodes.Get(otherBack).next = s.front
	s.front = otherFront
}

// AppendBack splices other onto the back of s and empties other, in time
// proportional to the number of fragments and free slots in other's arena;
// other's live nodes are not visited.
func (s *Singly[T]) AppendBack(other *Singly[T]) {
	if other.front.IsNull() {
		return
	}
	otherFront, otherBack := other.front, other.back
	s.nodes.Absorb(&other.nodes)
	other.front, other.back = arena.Null, arena.Null

	if s.back.IsNull() {
		s.front, s.back = otherFront, otherBack
		return
	}
	s.nodes.Get(s.back).next = otherFront
	s.back = otherBack
}

// Indices returns the sequence of every live node's index, front to back.
func (s *Singly[T]) Indices() iter.Seq[NodeIndex] {
	return func(yield func(NodeIndex) bool) {
		for pos := s.front; !pos.IsNull(); pos = s.nodes.Get(pos).next {
			if !yield(s.index(pos)) {
				return
			}
		}
	}
}

// All returns the sequence of every live value's pointer, front to back.
func (s *Singly[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for pos := s.front; !pos.IsNull(); {
			n := s.nodes.Get(pos)
			next := n.next
			if !yield(&n.value) {
				return
			}
			pos = next
		}
	}
}

// AllFrom returns the sequence of every live value's pointer from idx to the
// back, inclusive.
func (s *Singly[T]) AllFrom(idx NodeIndex) iter.Seq[*T] {
	return func(yield func(*T) bool) {
		pos, err := s.resolve(idx)
		if err != nil {
			return
		}
		for !pos.IsNull() {
			n := s.nodes.Get(pos)
			next := n.next
			if !yield(&n.value) {
				return
			}
			pos = next
		}
	}
}

// Ring returns the sequence of every live value's pointer starting at pivot
// and wrapping around to the front, visiting each live node exactly once.
func (s *Singly[T]) Ring(pivot NodeIndex) iter.Seq[*T] {
	return func(yield func(*T) bool) {
		start, err := s.resolve(pivot)
		if err != nil {
			return
		}
		pos := start
		for first := true; first || pos != start; first = false {
			n := s.nodes.Get(pos)
			next := n.next
			if !yield(&n.value) {
				return
			}
			if next.IsNull() {
				next = s.front
			}
			pos = next
		}
	}
}

// Drain removes and returns every value, front to back, emptying the list as
// it is exhausted.
func (s *Singly[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			value, ok := s.PopFront()
			if !ok {
				return
			}
			if !yield(value) {
				return
			}
		}
	}
}

func (s *Singly[T]) maybeReclaim() {
	if s.policy.shouldReclaim(s.nodes.Len(), s.nodes.Holes()) {
		s.ReclaimClosedNodes()
	}
}

// ReclaimClosedNodes compacts the arena, packing every live node into the
// smallest possible prefix of storage and discarding all holes. It runs in
// O(n) and invalidates every NodeIndex issued before it returns.
func (s *Singly[T]) ReclaimClosedNodes() {
	n := s.nodes.Len()
	s.holeRatio.Record(s.Utilization().Ratio())
	s.reclaims++

	if n == 0 {
		s.nodes.Truncate(0)
		s.mem++
		return
	}

	remap := make(map[arena.Pos]arena.Pos, n)
	i, j := 0, s.nodes.Cap()-1
	for i < n {
		pi := s.nodes.PosAt(i)
		if !s.nodes.IsHole(pi) {
			i++
			continue
		}
		for s.nodes.IsHole(s.nodes.PosAt(j)) {
			j--
		}
		pj := s.nodes.PosAt(j)
		s.nodes.Relocate(pj, pi)
		remap[pj] = pi
		i++
		j--
	}
	s.nodes.Truncate(n)

	remapPos := func(p arena.Pos) arena.Pos {
		if p.IsNull() {
			return p
		}
		if np, ok := remap[p]; ok {
			return np
		}
		return p
	}
	for idx := 0; idx < n; idx++ {
		p := s.nodes.PosAt(idx)
		node := s.nodes.Get(p)
		node.next = remapPos(node.next)
	}
	s.front = remapPos(s.front)
	s.back = remapPos(s.back)
	s.mem++

	debug.Assert(s.nodes.Holes() == 0, "ReclaimClosedNodes left %d holes", s.nodes.Holes())
}

// String implements fmt.Stringer by rendering the list's values, front to
// back.
func (s *Singly[T]) String() string {
	out := "["
	first := true
	for v := range s.All() {
		if !first {
			out += " "
		}
		first = false
		out += fmt.Sprint(*v)
	}
	return out + "]"
}

// Format implements fmt.Formatter, rendering a %+v form that includes arena
// utilization alongside the element list.
func (s *Singly[T]) Format(st fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprintf(st, "%%!%c(arenalist.Singly)", verb)
		return
	}
	if !st.Flag('+') {
		fmt.Fprint(st, s.String())
		return
	}
	u := s.Utilization()
	dbg.Dict("Singly", "len", u.Live, "holes", u.Holes, "values", dbg.Fprintf("%v", s.String())).Format(st, verb)
}
