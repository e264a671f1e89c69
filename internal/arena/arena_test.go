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

package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalist/arenalist/internal/arena"
)

func TestAllocFree(t *testing.T) {
	t.Parallel()

	var a arena.Arena[string]
	assert.Equal(t, 0, a.Len())

	p1 := a.Alloc("a")
	p2 := a.Alloc("b")
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, "a", *a.Get(p1))
	assert.Equal(t, "b", *a.Get(p2))

	a.Free(p1)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, a.Holes())
	assert.True(t, a.IsHole(p1))

	p3 := a.Alloc("c")
	assert.Equal(t, p1, p3, "Alloc should recycle the most recently freed hole")
	assert.Equal(t, "c", *a.Get(p3))
}

func TestGrowDoesNotMovePins(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	var positions []arena.Pos
	for i := range 64 {
		positions = append(positions, a.Alloc(i))
	}
	for i, p := range positions {
		require.Equal(t, i, *a.Get(p), "growth must not move a live slot")
	}
}

func TestInBoundsAndNull(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	assert.False(t, a.InBounds(arena.Null))
	assert.True(t, arena.Null.IsNull())

	p := a.Alloc(1)
	assert.True(t, a.InBounds(p))
	assert.False(t, p.IsNull())
}

func TestRelocateAndTruncate(t *testing.T) {
	t.Parallel()

	var a arena.Arena[string]
	p1 := a.Alloc("a")
	p2 := a.Alloc("b")
	p3 := a.Alloc("c")
	a.Free(p2)

	a.Relocate(p3, p2)
	assert.Equal(t, "c", *a.Get(p2))
	assert.True(t, a.IsHole(p3))

	a.Truncate(2)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 0, a.Holes())
	assert.Equal(t, "a", *a.Get(p1))
	assert.Equal(t, "c", *a.Get(p2))
}

func TestIterLiveStorageOrder(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	var positions []arena.Pos
	for i := range 20 {
		positions = append(positions, a.Alloc(i))
	}
	a.Free(positions[5])
	a.Free(positions[10])

	var seen []int
	for p := range a.IterLive {
		seen = append(seen, *a.Get(p))
	}
	assert.Len(t, seen, 18)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 6, 7, 8, 9, 11, 12, 13, 14, 15, 16, 17, 18, 19}, seen)
	assert.NotContains(t, seen, 5)
	assert.NotContains(t, seen, 10)
}

func TestAbsorbPreservesPositions(t *testing.T) {
	t.Parallel()

	var a, b arena.Arena[string]
	pa := a.Alloc("from-a")
	pb := b.Alloc("from-b")

	a.Absorb(&b)

	assert.Equal(t, "from-a", *a.Get(pa))
	assert.Equal(t, "from-b", *a.Get(pb), "a position from an absorbed fragment must keep resolving after Absorb")
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.Cap(), "other must be reset to empty after being absorbed")
}

func TestAbsorbMergesFreeLists(t *testing.T) {
	t.Parallel()

	var a, b arena.Arena[int]
	a.Alloc(1)
	b.Alloc(2)
	b.Free(b.Alloc(3))

	beforeHoles := a.Holes() + b.Holes()
	a.Absorb(&b)
	assert.Equal(t, beforeHoles, a.Holes())

	p := a.Alloc(99)
	assert.Equal(t, 99, *a.Get(p))
}

func TestReserve(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	a.Reserve(100)
	assert.GreaterOrEqual(t, a.Cap(), 100)

	capBefore := a.Cap()
	for range 100 {
		a.Alloc(0)
	}
	assert.Equal(t, capBefore, a.Cap(), "Alloc within a reserved capacity should not grow further")
}
