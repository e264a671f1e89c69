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

// ReclaimMode selects whether a collection compacts its arena automatically.
type ReclaimMode uint8

const (
	// AutoReclaim compacts the arena whenever the hole ratio crosses the
	// policy's threshold.
	AutoReclaim ReclaimMode = iota
	// NeverReclaim never compacts implicitly; holes only go away when
	// ReclaimClosedNodes is called explicitly.
	NeverReclaim
)

// DefaultThreshold is the exponent D used when a collection is constructed
// without an explicit reclaim policy.
const DefaultThreshold uint = 2

// ReclaimPolicy controls when a collection compacts its underlying arena to
// reclaim the slots left behind by removed nodes. Compaction is never
// required for correctness; it only affects memory usage and invalidates
// every outstanding NodeIndex by bumping the collection's memory-state
// generation.
//
// A policy is a plain value, not a type parameter: it can be read with the
// collection's ReclaimPolicy method and changed at any time with SetReclaimPolicy, on a live
// collection, without rebuilding it.
type ReclaimPolicy struct {
	mode ReclaimMode
	d    uint
}

// Threshold returns a policy that auto-compacts once holes outnumber
// (live+holes)/2^d, i.e. once more than a 1-in-2^d fraction of slots are
// holes. Larger d reclaims more eagerly; d=0 never compacts implicitly,
// since holes can never outnumber all slots.
func Threshold(d uint) ReclaimPolicy {
	return ReclaimPolicy{mode: AutoReclaim, d: d}
}

// Never is a policy that leaves compaction entirely to explicit calls to
// ReclaimClosedNodes.
var Never = ReclaimPolicy{mode: NeverReclaim}

// Mode reports whether p auto-reclaims.
func (p ReclaimPolicy) Mode() ReclaimMode { return p.mode }

// shouldReclaim reports whether a collection with live live nodes and holes
// holes should compact under p.
func (p ReclaimPolicy) shouldReclaim(live, holes int) bool {
	if p.mode != AutoReclaim || holes == 0 {
		return false
	}
	return uint64(holes)<<p.d > uint64(live+holes)
}
