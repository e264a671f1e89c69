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

// Package arena provides a pinned, growable slot store.
//
// # Design
//
// Unlike a plain growable slice, an [Arena] never moves a slot that has
// already been handed out by [Arena.Alloc]: growth happens by appending a
// whole new fixed-capacity fragment, never by reallocating an existing one.
// This lets callers address slots by a stable [Pos] and use that position as
// a link field inside the slot payload itself, without tombstoning or
// indirection through a side table.
//
// A Pos does not encode a flat offset into one contiguous buffer. It names a
// fragment (by a process-wide serial number assigned when the fragment is
// created) and an offset within it. This is what lets [Arena.Absorb] splice
// one arena's fragments into another's without visiting its live elements
// (it does walk the absorbed arena's free list): a transplanted fragment keeps
// its serial number, so every link field already stored in its slots
// continues to resolve correctly without being rewritten.
//
// The only operation that moves a slot's payload is [Arena.Relocate], which
// is explicit and caller-driven (used by compaction), never an implicit side
// effect of growth.
package arena

import (
	"fmt"
	"sync/atomic"

	"github.com/arenalist/arenalist/internal/dbg"
)

// Pos names a slot within an Arena. It is stable across growth, across
// Absorb, and is only ever invalidated by Relocate (and by the Truncate
// that follows a compaction).
//
// The zero Pos is Null and never refers to a real slot.
type Pos struct {
	serial uint32
	offset uint32
}

// Null is the sentinel Pos that never refers to a real slot.
var Null = Pos{}

// IsNull reports whether p is the Null sentinel.
func (p Pos) IsNull() bool { return p.serial == 0 }

// minFragment is the size of the first fragment allocated by an Arena.
const minFragment = 8

var fragmentSerial atomic.Uint32

func nextFragmentSerial() uint32 {
	return fragmentSerial.Add(1)
}

// slot is one cell of the arena: it either holds a live value of type S, or
// it is a hole linked into the free list.
type slot[S any] struct {
	live     bool
	holeNext Pos // valid only when !live
	value    S   // zero when !live
}

type fragment[S any] struct {
	serial uint32
	slots  []slot[S]
}

// Arena is a pinned, growable store of slots of type S.
//
// S is the slot payload type (for example, a node carrying a pair of Pos
// link fields alongside a user value). The Arena itself has no opinion
// about what S contains; it only manages allocation, freeing, relocation,
// and iteration of slots.
//
// The zero Arena is empty and ready to use.
type Arena[S any] struct {
	frags []fragment[S]

	live, holes int
	freeHead    Pos
}

// Len returns the number of live slots.
func (a *Arena[S]) Len() int { return a.live }

// Holes returns the number of freed slots awaiting reuse.
func (a *Arena[S]) Holes() int { return a.holes }

// Cap returns the total number of slots allocated so far, live or hole.
func (a *Arena[S]) Cap() int {
	total := 0
	for _, f := range a.frags {
		total += len(f.slots)
	}
	return total
}

// Alloc stores value in a free slot, preferring a recycled hole over
// growing the arena, and returns its position.
//
// Previously returned positions remain valid and addressable: Alloc never
// moves a slot that is already live.
func (a *Arena[S]) Alloc(value S) Pos {
	if a.freeHead.IsNull() {
		a.grow()
	}

	pos := a.freeHead
	s := a.mustAt(pos)
	a.freeHead = s.holeNext
	*s = slot[S]{live: true, value: value}
	a.holes--
	a.live++
	dbg.Log(nil, "arena.alloc", "%v", pos)
	return pos
}

// grow appends one new fragment and links its slots into the free list.
//
// The new fragment's size doubles the arena's total capacity so far (with a
// floor of minFragment), mirroring ordinary amortized-growth slices, except
// that growth never disturbs slots that already exist.
func (a *Arena[S]) grow() {
	size := max(minFragment, a.Cap())
	serial := nextFragmentSerial()

	slots := make([]slot[S], size)
	head := a.freeHead
	for i := size - 1; i >= 0; i-- {
		slots[i] = slot[S]{holeNext: head}
		head = Pos{serial: serial, offset: uint32(i)}
	}

	a.frags = append(a.frags, fragment[S]{serial: serial, slots: slots})
	a.freeHead = head
	a.holes += size
	dbg.Log(nil, "arena.grow", "+%d slots, frag #%d", size, serial)
}

// Reserve grows the arena, if necessary, so that it can hold at least n
// slots without a further fragment allocation. It is purely an optimization
// hint: callers may always Alloc past n, triggering ordinary growth.
func (a *Arena[S]) Reserve(n int) {
	for a.Cap() < n {
		a.grow()
	}
}

// Free destroys the value at pos and returns the slot to the free list.
//
// Free panics if pos does not refer to a live slot; callers are expected to
// have already validated pos (typically via a generation check) before
// calling Free.
func (a *Arena[S]) Free(pos Pos) {
	s := a.mustAt(pos)
	if !s.live {
		panic(fmt.Sprintf("arenalist: internal error: Free(%v) on a non-live slot", pos))
	}

	var zero S
	*s = slot[S]{live: false, holeNext: a.freeHead, value: zero}
	a.freeHead = pos
	a.live--
	a.holes++
	dbg.Log(nil, "arena.free", "%v", pos)
}

// Get returns a pointer to the live value at pos.
//
// Get panics if pos is out of range or refers to a hole; callers are
// expected to validate pos through the collection's own index machinery
// before reaching here.
func (a *Arena[S]) Get(pos Pos) *S {
	s := a.mustAt(pos)
	if !s.live {
		panic(fmt.Sprintf("arenalist: internal error: Get(%v) on a non-live slot", pos))
	}
	return &s.value
}

// InBounds reports whether pos names a slot that is currently allocated
// (live or hole) in this arena.
func (a *Arena[S]) InBounds(pos Pos) bool {
	_, ok := a.at(pos)
	return ok
}

// IsHole reports whether pos names an allocated slot that is currently a
// hole. pos must be InBounds.
func (a *Arena[S]) IsHole(pos Pos) bool {
	return !a.mustAt(pos).live
}

// Relocate moves the live value at from into the hole at to, including its
// link fields, and turns from into a (free-list-detached) hole.
//
// Relocate does not touch the free list; it exists exclusively to support
// compaction, which discards the free list entirely once it is done (via
// Truncate) rather than keeping it consistent slot by slot.
func (a *Arena[S]) Relocate(from, to Pos) {
	src, dst := a.mustAt(from), a.mustAt(to)
	if !src.live {
		panic(fmt.Sprintf("arenalist: internal error: Relocate(%v, ...): source not live", from))
	}
	if dst.live {
		panic(fmt.Sprintf("arenalist: internal error: Relocate(..., %v): target not a hole", to))
	}

	dst.live = true
	dst.value = src.value
	var zero S
	src.live = false
	src.value = zero
	dbg.Log(nil, "arena.relocate", "%v -> %v", from, to)
}

// IterLive calls yield once for every live slot, in storage order (fragment
// creation order, then slot offset within a fragment), stopping early if
// yield returns false.
//
// Storage order is unrelated to any list's logical front-to-back order; it
// is simply the order slots occupy in memory, which is what compaction packs
// against.
func (a *Arena[S]) IterLive(yield func(Pos) bool) {
	for fi := range a.frags {
		f := &a.frags[fi]
		for i := range f.slots {
			if f.slots[i].live {
				if !yield(Pos{serial: f.serial, offset: uint32(i)}) {
					return
				}
			}
		}
	}
}

// PosAt returns the position of the i-th slot in storage order (see
// IterLive), whether or not it is currently live. It is used by compaction
// to compute relocation targets.
func (a *Arena[S]) PosAt(i int) Pos {
	for fi := range a.frags {
		f := &a.frags[fi]
		if i < len(f.slots) {
			return Pos{serial: f.serial, offset: uint32(i)}
		}
		i -= len(f.slots)
	}
	panic(fmt.Sprintf("arenalist: internal error: PosAt(%d) out of range", i))
}

// Truncate discards every slot in storage order past the first n, and
// clears the free list. It is used by compaction after live slots have been
// packed into the first n positions in storage order.
func (a *Arena[S]) Truncate(n int) {
	remaining := n
	for fi := range a.frags {
		f := &a.frags[fi]
		if remaining <= len(f.slots) {
			f.slots = f.slots[:remaining]
			if remaining == 0 {
				a.frags = a.frags[:fi]
			} else {
				a.frags = a.frags[:fi+1]
			}
			a.holes = 0
			a.freeHead = Null
			return
		}
		remaining -= len(f.slots)
	}
	a.holes = 0
	a.freeHead = Null
}

// Absorb appends other's fragments onto a and resets other to empty.
//
// This is O(number of fragments in other + number of free slots in other),
// not O(number of live elements in other): the free list of other is walked
// once to find its tail, but a fragment's Pos values are keyed by the
// fragment's own serial number, which travels with it, so nothing inside the
// live transplanted slots needs to be rewritten.
func (a *Arena[S]) Absorb(other *Arena[S]) {
	if len(other.frags) == 0 {
		return
	}

	a.frags = append(a.frags, other.frags...)
	a.live += other.live
	a.holes += other.holes

	if !other.freeHead.IsNull() {
		tail := other.freeHead
		for {
			s := other.mustAt(tail)
			if s.holeNext.IsNull() {
				break
			}
			tail = s.holeNext
		}
		other.mustAt(tail).holeNext = a.freeHead
		a.freeHead = other.freeHead
	}

	*other = Arena[S]{freeHead: Null}
}

func (a *Arena[S]) at(pos Pos) (*slot[S], bool) {
	if pos.IsNull() {
		return nil, false
	}
	for fi := range a.frags {
		f := &a.frags[fi]
		if f.serial == pos.serial {
			if int(pos.offset) < len(f.slots) {
				return &f.slots[pos.offset], true
			}
			return nil, false
		}
	}
	return nil, false
}

func (a *Arena[S]) mustAt(pos Pos) *slot[S] {
	s, ok := a.at(pos)
	if !ok {
		panic(fmt.Sprintf("arenalist: internal error: Pos(%v) out of range", pos))
	}
	return s
}
