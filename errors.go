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

// idxErrKind discriminates the reasons a NodeIndex can fail to resolve.
type idxErrKind uint8

const (
	errOutOfBounds idxErrKind = iota
	errRemovedNode
	errReorganizedCollection
)

var idxErrText = [...]string{
	errOutOfBounds:           "node index does not belong to this collection",
	errRemovedNode:           "node has been removed from its collection",
	errReorganizedCollection: "collection has been reorganized; node index is stale",
}

// NodeIdxError reports that a [NodeIndex] could not be resolved against the
// collection it was passed to.
type NodeIdxError struct {
	kind idxErrKind
}

// Error implements error.
func (e *NodeIdxError) Error() string {
	return "arenalist: " + idxErrText[e.kind]
}

var (
	// ErrOutOfBounds is returned when a NodeIndex names a position that was
	// never valid for the collection it is passed to, either because it came
	// from a different collection or because the position itself is out of
	// range.
	ErrOutOfBounds = &NodeIdxError{errOutOfBounds}

	// ErrRemovedNode is returned when a NodeIndex names a node that has since
	// been removed. The slot the index points to may have already been
	// reused by an unrelated, newer node; ErrRemovedNode takes priority over
	// that possibility because the index's memory-state generation is
	// checked first.
	ErrRemovedNode = &NodeIdxError{errRemovedNode}

	// ErrReorganizedCollection is returned when a NodeIndex was issued before
	// the collection's last compaction. Compaction renumbers live nodes, so
	// every index issued before it is stale, even if the node it named is
	// still logically present under a different position.
	ErrReorganizedCollection = &NodeIdxError{errReorganizedCollection}
)
