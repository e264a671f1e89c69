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

// Package arenalist provides generational, index-addressable linked lists
// (singly and doubly linked) backed by a pinned, growable node arena.
//
// # Design
//
// A list never hands out a raw slot position. Instead, every operation that
// creates a node returns a [NodeIndex]: a capability that binds the node's
// position to the collection it came from and to the collection's current
// memory-state generation. Removing a node invalidates only that node's
// index; compacting the arena (to reclaim holes left by removals) bumps the
// generation and invalidates every outstanding index at once. Both failure
// modes are reported by [NodeIdxError], never by a panic or silent
// misresolution to an unrelated node that has since reused the same slot.
//
// [Doubly] and [Singly] share this machinery but differ in which operations
// they expose: only the doubly variant can address a node's predecessor in
// O(1), so pop-from-back, move-near, and backward iteration are only
// available there.
//
// This package does not support concurrent mutation, persistence, ordered
// lookup, or a stable wire format; see the package-level non-goals recorded
// in the project's design notes.
package arenalist
