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

	"github.com/google/uuid"

	"github.com/arenalist/arenalist/internal/arena"
)

// collectionID identifies a single Doubly or Singly value for the lifetime
// of the process. It is assigned once, at construction, and never changes;
// in particular it survives compaction, unlike the memory-state generation.
type collectionID uuid.UUID

func newCollectionID() collectionID {
	return collectionID(uuid.New())
}

// NodeIndex is a capability naming a single node of a specific collection.
// It is only meaningful when passed back to the collection that produced it;
// passing it to any other collection, or to the same collection after that
// node has been removed or the collection has been compacted, resolves to a
// [NodeIdxError] rather than to an unrelated node.
//
// NodeIndex is a plain comparable value: it can be stored in a map, compared
// with ==, and copied freely. Its zero value never resolves against any
// collection.
type NodeIndex struct {
	coll collectionID
	pos  arena.Pos
	gen  uint64
}

// String renders idx for diagnostics. The format is unspecified and may
// change between versions.
func (idx NodeIndex) String() string {
	return fmt.Sprintf("NodeIndex{%s@%d}", uuid.UUID(idx.coll), idx.gen)
}

// idxErr resolves idx against a collection identified by id, currently at
// memory-state generation mem, backed by a. It implements the resolution
// order every mutating and read operation in this package relies on:
// collection identity first, then generation, then arena bounds, then
// liveness.
func idxErr[S any](id collectionID, mem uint64, a *arena.Arena[S], idx NodeIndex) error {
	if idx.coll != id {
		return ErrOutOfBounds
	}
	if idx.gen != mem {
		return ErrReorganizedCollection
	}
	if !a.InBounds(idx.pos) {
		return ErrOutOfBounds
	}
	if a.IsHole(idx.pos) {
		return ErrRemovedNode
	}
	return nil
}
