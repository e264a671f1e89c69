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

// dnode is one element of a Doubly list: a value plus its neighbors.
type dnode[T any] struct {
	value      T
	prev, next arena.Pos
}

// Doubly is a doubly linked list addressed by generational [NodeIndex]
// values, backed by a pinned, growable arena.
//
// Every mutating operation that does not require relocating existing nodes
// (push, pop, insert, remove, move) runs in O(1). Splicing runs in time
// proportional to the donor's fragments and free slots (see
// [Doubly.AppendFront]). The only O(n) operation is compaction, triggered automatically by the collection's
// [ReclaimPolicy] or explicitly via [Doubly.ReclaimClosedNodes].
//
// The zero Doubly is not ready to use; construct one with [NewDoubly].
type Doubly[T any] struct {
	id          collectionID
	mem         uint64
	nodes       arena.Arena[dnode[T]]
	front, back arena.Pos
	policy      ReclaimPolicy

	reclaims  int
	holeRatio stats.Mean
}

// NewDoubly constructs an empty doubly linked list.
func NewDoubly[T any](opts ...Option) *Doubly[T] {
	c := newConfig(opts)
	d := &Doubly[T]{id: newCollectionID(), policy: c.policy}
	if c.initialCapacity > 0 {
		d.nodes.Reserve(c.initialCapacity)
	}
	return d
}

// Len returns the number of live nodes.
func (d *Doubly[T]) Len() int { return d.nodes.Len() }

// IsEmpty reports whether the list has no live nodes.
func (d *Doubly[T]) IsEmpty() bool { return d.nodes.Len() == 0 }

// ReclaimPolicy returns the collection's current reclaim policy.
func (d *Doubly[T]) ReclaimPolicy() ReclaimPolicy { return d.policy }

// SetReclaimPolicy changes the collection's reclaim policy. Switching to
// [Never] stops automatic compaction; switching to a [Threshold] policy
// takes effect starting with the next pop or removal (it does not itself
// trigger compaction).
func (d *Doubly[T]) SetReclaimPolicy(p ReclaimPolicy) { d.policy = p }

// Utilization reports the collection's current arena occupancy.
func (d *Doubly[T]) Utilization() Utilization {
	return Utilization{Live: d.nodes.Len(), Holes: d.nodes.Holes()}
}

// Stats summarizes the collection's lifetime compaction behavior.
func (d *Doubly[T]) Stats() Stats {
	return Stats{
		Utilization:            d.Utilization(),
		Reclaims:               d.reclaims,
		MeanHoleRatioAtReclaim: d.holeRatio.Get(),
	}
}

func (d *Doubly[T]) index(pos arena.Pos) NodeIndex {
	return NodeIndex{coll: d.id, pos: pos, gen: d.mem}
}

func (d *Doubly[T]) resolve(idx NodeIndex) (arena.Pos, error) {
	if err := idxErr(d.id, d.mem, &d.nodes, idx); err != nil {
		return arena.Null, err
	}
	return idx.pos, nil
}

// Front returns the index of the first node, or false if the list is empty.
func (d *Doubly[T]) Front() (NodeIndex, bool) {
	if d.front.IsNull() {
		return NodeIndex{}, false
	}
	return d.index(d.front), true
}

// Back returns the index of the last node, or false if the list is empty.
func (d *Doubly[T]) Back() (NodeIndex, bool) {
	if d.back.IsNull() {
		return NodeIndex{}, false
	}
	return d.index(d.back), true
}

// Get returns a pointer to the value named by idx.
func (d *Doubly[T]) Get(idx NodeIndex) (*T, error) {
	pos, err := d.resolve(idx)
	if err != nil {
		return nil, err
	}
	return &d.nodes.Get(pos).value, nil
}

// GetMut returns a pointer to the value named by idx, for in-place mutation.
//
// Go has no separate immutable-borrow type, so GetMut is identical to Get;
// it exists for parity with callers migrating from APIs that distinguish
// the two.
func (d *Doubly[T]) GetMut(idx NodeIndex) (*T, error) { return d.Get(idx) }

// MustGet returns a pointer to the value named by idx, panicking if idx does
// not resolve.
func (d *Doubly[T]) MustGet(idx NodeIndex) *T {
	v, err := d.Get(idx)
	if err != nil {
		panic(fmt.Sprintf("arenalist: MustGet(%s): %v", idx, err))
	}
	return v
}

// PushFront inserts value at the front of the list in O(1) and returns its
// index.
func (d *Doubly[T]) PushFront(value T) NodeIndex {
	pos := d.nodes.Alloc(dnode[T]{value: value, next: d.front})
	if d.front.IsNull() {
		d.back = pos
	} else {
		d.nodes.Get(d.front).prev = pos
	}
	d.front = pos
	return d.index(pos)
}

// PushBack inserts value at the back of the list in O(1) and returns its
// index.
func (d *Doubly[T]) PushBack(value T) NodeIndex {
	pos := d.nodes.Alloc(dnode[T]{value: value, prev: d.back})
	if d.back.IsNull() {
		d.front = pos
	} else {
		d.nodes.Get(d.back).next = pos
	}
	d.back = pos
	return d.index(pos)
}

// unlink detaches the node at pos from the list without freeing it.
func (d *Doubly[T]) unlink(pos arena.Pos) {
	n := d.nodes.Get(pos)
	if n.prev.IsNull() {
		d.front = n.next
	} else {
		d.nodes.Get(n.prev).next = n.next
	}
	if n.next.IsNull() {
		d.back = n.prev
	} else {
		d.nodes.Get(n.next).prev = n.prev
	}
	n.prev, n.next = arena.Null, arena.Null
}

// PopFront removes and returns the first node's value, or false if the list
// is empty. O(1).
func (d *Doubly[T]) PopFront() (T, bool) {
	if d.front.IsNull() {
		var zero T
		return zero, false
	}
	pos := d.front
	value := d.nodes.Get(pos).value
	d.unlink(pos)
	d.nodes.Free(pos)
	d.maybeReclaim()
	return value, true
}

// PopBack removes and returns the last node's value, or false if the list is
// empty. O(1).
func (d *Doubly[T]) PopBack() (T, bool) {
	if d.back.IsNull() {
		var zero T
		return zero, false
	}
	pos := d.back
	value := d.nodes.Get(pos).value
	d.unlink(pos)
	d.nodes.Free(pos)
	d.maybeReclaim()
	return value, true
}

// Remove removes the node named by idx and returns its value. O(1).
func (d *Doubly[T]) Remove(idx NodeIndex) (T, error) {
	pos, err := d.resolve(idx)
	if err != nil {
		var zero T
		return zero, err
	}
	value := d.nodes.Get(pos).value
	d.unlink(pos)
	d.nodes.Free(pos)
	d.maybeReclaim()
	return value, nil
}

// InsertPrevTo inserts value immediately before the node named by idx and
// returns the new node's index. O(1).
func (d *Doubly[T]) InsertPrevTo(idx NodeIndex, value T) (NodeIndex, error) {
	at, err := d.resolve(idx)
	if err != nil {
		return NodeIndex{}, err
	}
	prev := d.nodes.Get(at).prev
	pos := d.nodes.Alloc(dnode[T]{value: value, prev: prev, next: at})
	d.nodes.Get(at).prev = pos
	if prev.IsNull() {
		d.front = pos
	} else {
		d.nodes.Get(prev).next = pos
	}
	return d.index(pos), nil
}

// InsertNextTo inserts value immediately after the node named by idx and
// returns the new node's index. O(1).
func (d *Doubly[T]) InsertNextTo(idx NodeIndex, value T) (NodeIndex, error) {
	at, err := d.resolve(idx)
	if err != nil {
		return NodeIndex{}, err
	}
	next := d.nodes.Get(at).next
	pos := d.nodes.Alloc(dnode[T]{value: value, prev: at, next: next})
	d.nodes.Get(at).next = pos
	if next.IsNull() {
		d.back = pos
	} else {
		d.nodes.Get(next).prev = pos
	}
	return d.index(pos), nil
}

// MoveToFront relocates the node named by idx to the front of the list.
// O(1). idx remains valid and continues to name the same node.
func (d *Doubly[T]) MoveToFront(idx NodeIndex) error {
	pos, err := d.resolve(idx)
	if err != nil {
		return err
	}
	if pos == d.front {
		return nil
	}
	d.unlink(pos)
	n := d.nodes.Get(pos)
	n.next = d.front
	if d.front.IsNull() {
		d.back = pos
	} else {
		d.nodes.Get(d.front).prev = pos
	}
	d.front = pos
	return nil
}

// MoveToBack relocates the node named by idx to the back of the list. O(1).
func (d *Doubly[T]) MoveToBack(idx NodeIndex) error {
	pos, err := d.resolve(idx)
	if err != nil {
		return err
	}
	if pos == d.back {
		return nil
	}
	d.unlink(pos)
	n := d.nodes.Get(pos)
	n.prev = d.back
	if d.back.IsNull() {
		d.front = pos
	} else {
		d.nodes.Get(d.back).next = pos
	}
	d.back = pos
	return nil
}

// MoveNextTo relocates the node named by idx so that it immediately follows
// the node named by target. O(1).
func (d *Doubly[T]) MoveNextTo(idx, target NodeIndex) error {
	pos, err := d.resolve(idx)
	if err != nil {
		return err
	}
	at, err := d.resolve(target)
	if err != nil {
		return err
	}
	if pos == at {
		return fmt.Errorf("arenalist: MoveNextTo: idx and target name the same node")
	}
	if d.nodes.Get(at).next == pos {
		return nil
	}
	d.unlink(pos)
	n := d.nodes.Get(pos)
	next := d.nodes.Get(at).next
	n.prev, n.next = at, next
	d.nodes.Get(at).next = pos
	if next.IsNull() {
		d.back = pos
	} else {
		d.nodes.Get(next).prev = pos
	}
	return nil
}

// MovePrevTo relocates the node named by idx so that it immediately precedes
// the node named by target. O(1).
func (d *Doubly[T]) MovePrevTo(idx, target NodeIndex) error {
	pos, err := d.resolve(idx)
	if err != nil {
		return err
	}
	at, err := d.resolve(target)
	if err != nil {
		return err
	}
	if pos == at {
		return fmt.Errorf("arenalist: MovePrevTo: idx and target name the same node")
	}
	if d.nodes.Get(at).prev == pos {
		return nil
	}
	d.unlink(pos)
	n := d.nodes.Get(pos)
	prev := d.nodes.Get(at).prev
	n.prev, n.next = prev, at
	d.nodes.Get(at).prev = pos
	if prev.IsNull() {
		d.front = pos
	} else {
		d.nodes.Get(prev).next = pos
	}
	return nil
}

// AppendFront splices other onto the front of d and empties other, in time
// proportional to the number of fragments and free slots in other's arena;
// other's live nodes are not visited.
//
// Every NodeIndex previously issued by other stops resolving against either
// list: other's collection id never matches d's, so idxErr reports
// ErrOutOfBounds rather than silently resolving to the wrong list.
func (d *Doubly[T]) AppendFront(other *Doubly[T]) {
	if other.front.IsNull() {
		return
	}
	otherFront, otherBack := other.front, other.back
	d.nodes.Absorb(&other.nodes)
	other.front, other.back = arena.Null, arena.Null

	if d.front.IsNull() {
		d.front, d.back = otherFront, otherBack
		return
	}
	d.nodes.Get(d.front).prev = otherBack
	d.nodes.Get(otherBack).next = d.front
	d.front = otherFront
}

// AppendBack splices other onto the back of d and empties other, in time
// proportional to the number of fragments and free slots in other's arena;
// other's live nodes are not visited.
func (d *Doubly[T]) AppendBack(other *Doubly[T]) {
	if other.front.IsNull() {
		return
	}
	otherFront, otherBack := other.front, other.back
	d.nodes.Absorb(&other.nodes)
	other.front, other.back = arena.Null, arena.Null

	if d.back.IsNull() {
		d.front, d.back = otherFront, otherBack
		return
	}
	d.nodes.Get(d.back).next = otherFront
	d.nodes.Get(otherFront).prev = d.back
	d.back = otherBack
}

// Indices returns the sequence of every live node's index, front to back.
func (d *Doubly[T]) Indices() iter.Seq[NodeIndex] {
	return func(yield func(NodeIndex) bool) {
		for pos := d.front; !pos.IsNull(); pos = d.nodes.Get(pos).next {
			if !yield(d.index(pos)) {
				return
			}
		}
	}
}

// All returns the sequence of every live value's pointer, front to back.
func (d *Doubly[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for pos := d.front; !pos.IsNull(); {
			n := d.nodes.Get(pos)
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
func (d *Doubly[T]) AllFrom(idx NodeIndex) iter.Seq[*T] {
	return func(yield func(*T) bool) {
		pos, err := d.resolve(idx)
		if err != nil {
			return
		}
		for !pos.IsNull() {
			n := d.nodes.Get(pos)
			next := n.next
			if !yield(&n.value) {
				return
			}
			pos = next
		}
	}
}

// AllBackwardFrom returns the sequence of every live value's pointer from
// idx to the front, inclusive.
func (d *Doubly[T]) AllBackwardFrom(idx NodeIndex) iter.Seq[*T] {
	return func(yield func(*T) bool) {
		pos, err := d.resolve(idx)
		if err != nil {
			return
		}
		for !pos.IsNull() {
			n := d.nodes.Get(pos)
			prev := n.prev
			if !yield(&n.value) {
				return
			}
			pos = prev
		}
	}
}

// Ring returns the sequence of every live value's pointer starting at pivot
// and wrapping around to the front, visiting each live node exactly once.
func (d *Doubly[T]) Ring(pivot NodeIndex) iter.Seq[*T] {
	return func(yield func(*T) bool) {
		start, err := d.resolve(pivot)
		if err != nil {
			return
		}
		pos := start
		for first := true; first || pos != start; first = false {
			n := d.nodes.Get(pos)
			next := n.next
			if !yield(&n.value) {
				return
			}
			if next.IsNull() {
				next = d.front
			}
			pos = next
		}
	}
}

// Drain removes and returns every value, front to back, emptying the list as
// it is exhausted. Stopping early (e.g. via a break in a range loop) leaves
// the undrained remainder in place.
func (d *Doubly[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			value, ok := d.PopFront()
			if !ok {
				return
			}
			if !yield(value) {
				return
			}
		}
	}
}

// maybeReclaim compacts the arena if the collection's policy calls for it
// given the current utilization.
func (d *Doubly[T]) maybeReclaim() {
	if d.policy.shouldReclaim(d.nodes.Len(), d.nodes.Holes()) {
		d.ReclaimClosedNodes()
	}
}

// ReclaimClosedNodes compacts the arena, packing every live node into the
// smallest possible prefix of storage and discarding all holes. It runs in
// O(n) and invalidates every NodeIndex issued before it returns, by bumping
// the collection's memory-state generation.
func (d *Doubly[T]) ReclaimClosedNodes() {
	n := d.nodes.Len()
	d.holeRatio.Record(d.Utilization().Ratio())
	d.reclaims++

	if n == 0 {
		d.nodes.Truncate(0)
		d.mem++
		return
	}

	remap := make(map[arena.Pos]arena.Pos, n)
	i, j := 0, d.nodes.Cap()-1
	for i < n {
		pi := d.nodes.PosAt(i)
		if !d.nodes.IsHole(pi) {
			i++
			continue
		}
		for d.nodes.IsHole(d.nodes.PosAt(j)) {
			j--
		}
		pj := d.nodes.PosAt(j)
		d.nodes.Relocate(pj, pi)
		remap[pj] = pi
		i++
		j--
	}
	d.nodes.Truncate(n)

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
		p := d.nodes.PosAt(idx)
		node := d.nodes.Get(p)
		node.prev = remapPos(node.prev)
		node.next = remapPos(node.next)
	}
	d.front = remapPos(d.front)
	d.back = remapPos(d.back)
	d.mem++

	debug.Assert(d.nodes.Holes() == 0, "ReclaimClosedNodes left %d holes", d.nodes.Holes())
}

// String implements fmt.Stringer by rendering the list's values, front to
// back.
func (d *Doubly[T]) String() string {
	s := "["
	first := true
	for v := range d.All() {
		if !first {
			s += " "
		}
		first = false
		s += fmt.Sprint(*v)
	}
	return s + "]"
}

// Format implements fmt.Formatter, rendering a %+v form that includes arena
// utilization alongside the element list.
func (d *Doubly[T]) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprintf(s, "%%!%c(arenalist.Doubly)", verb)
		return
	}
	if !s.Flag('+') {
		fmt.Fprint(s, d.String())
		return
	}
	u := d.Utilization()
	dbg.Dict("Doubly", "len", u.Live, "holes", u.Holes, "values", dbg.Fprintf("%v", d.String())).Format(s, verb)
}
