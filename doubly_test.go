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

package arenalist_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalist/arenalist"
)

func newDoubly[T any]() *arenalist.Doubly[T] {
	return arenalist.NewDoubly[T](arenalist.WithReclaimPolicy(arenalist.Never))
}

func collectDoubly[T any](l *arenalist.Doubly[T]) []T {
	var out []T
	for v := range l.All() {
		out = append(out, *v)
	}
	return out
}

func TestDoublyPushAndOrder(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	l.PushBack(2)
	l.PushFront(1)
	l.PushBack(3)
	l.PushFront(0)

	assert.Equal(t, []int{0, 1, 2, 3}, collectDoubly(l))
	assert.Equal(t, 4, l.Len())
}

func TestDoublyPopFrontAndBack(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	for i := range 5 {
		l.PushBack(i)
	}

	front, ok := l.PopFront()
	require.True(t, ok)
	assert.Equal(t, 0, front)

	back, ok := l.PopBack()
	require.True(t, ok)
	assert.Equal(t, 4, back)

	assert.Equal(t, []int{1, 2, 3}, collectDoubly(l))
}

func TestDoublyPopEmpty(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	_, ok := l.PopFront()
	assert.False(t, ok)
	_, ok = l.PopBack()
	assert.False(t, ok)
}

func TestDoublyGetAndMustGet(t *testing.T) {
	t.Parallel()

	l := newDoubly[string]()
	idx := l.PushBack("hello")

	v, err := l.Get(idx)
	require.NoError(t, err)
	assert.Equal(t, "hello", *v)

	*l.MustGet(idx) = "world"
	v, _ = l.Get(idx)
	assert.Equal(t, "world", *v)
}

func TestDoublyRemoveMiddle(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	var idx []arenalist.NodeIndex
	for i := range 5 {
		idx = append(idx, l.PushBack(i))
	}

	v, err := l.Remove(idx[2])
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, []int{0, 1, 3, 4}, collectDoubly(l))

	front, _ := l.Front()
	back, _ := l.Back()
	assert.Equal(t, idx[0], front)
	assert.Equal(t, idx[4], back)
}

func TestDoublyRemoveDraining(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	var idx []arenalist.NodeIndex
	for i := range 3 {
		idx = append(idx, l.PushBack(i))
	}
	for _, ix := range idx {
		_, err := l.Remove(ix)
		require.NoError(t, err)
	}
	assert.True(t, l.IsEmpty())
	_, ok := l.Front()
	assert.False(t, ok)
	_, ok = l.Back()
	assert.False(t, ok)
}

func TestDoublyInsertPrevAndNextTo(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	mid := l.PushBack(2)

	_, err := l.InsertPrevTo(mid, 1)
	require.NoError(t, err)
	_, err = l.InsertNextTo(mid, 3)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, collectDoubly(l))

	front, _ := l.Front()
	back, _ := l.Back()
	assert.Equal(t, 1, *l.MustGet(front))
	assert.Equal(t, 3, *l.MustGet(back))
}

func TestDoublyMoveToFrontAndBack(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	var idx []arenalist.NodeIndex
	for i := range 4 {
		idx = append(idx, l.PushBack(i))
	}

	require.NoError(t, l.MoveToFront(idx[2]))
	assert.Equal(t, []int{2, 0, 1, 3}, collectDoubly(l))

	require.NoError(t, l.MoveToBack(idx[0]))
	assert.Equal(t, []int{2, 1, 3, 0}, collectDoubly(l))

	front, _ := l.Front()
	back, _ := l.Back()
	assert.Equal(t, idx[2], front)
	assert.Equal(t, idx[0], back)
}

func TestDoublyMoveNextAndPrevTo(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	var idx []arenalist.NodeIndex
	for i := range 4 {
		idx = append(idx, l.PushBack(i))
	}
	// 0 1 2 3

	require.NoError(t, l.MoveNextTo(idx[0], idx[3]))
	assert.Equal(t, []int{1, 2, 3, 0}, collectDoubly(l))

	require.NoError(t, l.MovePrevTo(idx[3], idx[1]))
	assert.Equal(t, []int{3, 1, 2, 0}, collectDoubly(l))
}

func TestDoublyMoveSelfIsRejected(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	a := l.PushBack(1)
	l.PushBack(2)

	assert.Error(t, l.MoveNextTo(a, a))
	assert.Error(t, l.MovePrevTo(a, a))
}

func TestDoublyAppendFrontAndBack(t *testing.T) {
	t.Parallel()

	a := newDoubly[int]()
	a.PushBack(1)
	a.PushBack(2)

	b := newDoubly[int]()
	b.PushBack(3)
	b.PushBack(4)

	a.AppendBack(b)
	assert.Equal(t, []int{1, 2, 3, 4}, collectDoubly(a))
	assert.True(t, b.IsEmpty(), "b must be consumed by AppendBack")

	c := newDoubly[int]()
	c.PushBack(0)
	a.AppendFront(c)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, collectDoubly(a))
}

func TestDoublyAppendConsumedIndicesAreOutOfBounds(t *testing.T) {
	t.Parallel()

	a := newDoubly[int]()
	a.PushBack(1)

	b := newDoubly[int]()
	bIdx := b.PushBack(2)

	a.AppendBack(b)

	_, err := a.Get(bIdx)
	assert.ErrorIs(t, err, arenalist.ErrOutOfBounds)
	_, err = b.Get(bIdx)
	assert.ErrorIs(t, err, arenalist.ErrOutOfBounds, "b's own old indices must not resolve once it has been emptied by a splice")
}

func TestDoublyAppendToEmptySelf(t *testing.T) {
	t.Parallel()

	a := newDoubly[int]()
	b := newDoubly[int]()
	b.PushBack(1)
	b.PushBack(2)

	a.AppendFront(b)
	assert.Equal(t, []int{1, 2}, collectDoubly(a))
}

func TestDoublyAppendEmptyOther(t *testing.T) {
	t.Parallel()

	a := newDoubly[int]()
	a.PushBack(1)
	b := newDoubly[int]()

	a.AppendBack(b)
	assert.Equal(t, []int{1}, collectDoubly(a))
}

func TestDoublyIterBackwardFrom(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	var idx []arenalist.NodeIndex
	for i := range 5 {
		idx = append(idx, l.PushBack(i))
	}

	var got []int
	for v := range l.AllBackwardFrom(idx[3]) {
		got = append(got, *v)
	}
	assert.Equal(t, []int{3, 2, 1, 0}, got)
}

func TestDoublyRing(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	var idx []arenalist.NodeIndex
	for i := range 5 {
		idx = append(idx, l.PushBack(i))
	}

	var got []int
	for v := range l.Ring(idx[2]) {
		got = append(got, *v)
	}
	assert.Equal(t, []int{2, 3, 4, 0, 1}, got)
	assert.Len(t, got, l.Len(), "ring traversal must visit each live node exactly once")
}

func TestDoublyDrain(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	for i := range 5 {
		l.PushBack(i)
	}

	var drained []int
	for v := range l.Drain() {
		drained = append(drained, v)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, drained)
	assert.True(t, l.IsEmpty())
}

func TestDoublyDrainPartial(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	for i := range 5 {
		l.PushBack(i)
	}

	var drained []int
	for v := range l.Drain() {
		drained = append(drained, v)
		if v == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, drained)
	assert.Equal(t, []int{2, 3, 4}, collectDoubly(l), "stopping a Drain early must leave the rest of the list intact")
}

func TestDoublyIndices(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	var want []arenalist.NodeIndex
	for i := range 4 {
		want = append(want, l.PushBack(i))
	}

	var got []arenalist.NodeIndex
	for idx := range l.Indices() {
		got = append(got, idx)
	}
	assert.True(t, slices.Equal(want, got))
}

func TestDoublyReclaimClosedNodesInvalidatesGenerationWide(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	var idx []arenalist.NodeIndex
	for i := range 6 {
		idx = append(idx, l.PushBack(i))
	}
	l.Remove(idx[1])
	l.Remove(idx[3])

	before := l.Stats()
	l.ReclaimClosedNodes()
	after := l.Stats()

	assert.Equal(t, 0, after.Utilization.Holes)
	assert.Equal(t, before.Reclaims+1, after.Reclaims)
	assert.Equal(t, []int{0, 2, 4, 5}, collectDoubly(l))

	for _, ix := range idx {
		_, err := l.Get(ix)
		assert.ErrorIs(t, err, arenalist.ErrReorganizedCollection)
	}
}

func TestDoublyStringAndFormat(t *testing.T) {
	t.Parallel()

	l := newDoubly[int]()
	l.PushBack(1)
	l.PushBack(2)

	assert.Equal(t, "[1 2]", l.String())
	assert.Equal(t, "[1 2]", fmt.Sprintf("%v", l))
	assert.Contains(t, fmt.Sprintf("%+v", l), "len")
}
