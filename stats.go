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

// Utilization describes the occupancy of a collection's underlying arena at
// a point in time.
type Utilization struct {
	Live  int // nodes currently reachable from the collection
	Holes int // freed slots not yet reclaimed
}

// Ratio returns the fraction of allocated slots that are holes, in [0, 1].
// An empty, never-grown collection reports a ratio of 0.
func (u Utilization) Ratio() float64 {
	total := u.Live + u.Holes
	if total == 0 {
		return 0
	}
	return float64(u.Holes) / float64(total)
}

// Stats summarizes a collection's lifetime compaction behavior.
type Stats struct {
	Utilization Utilization

	// Reclaims is the number of times the collection has been compacted,
	// whether triggered automatically by its reclaim policy or explicitly
	// via ReclaimClosedNodes.
	Reclaims int

	// MeanHoleRatioAtReclaim is the average of Utilization.Ratio() sampled
	// immediately before each compaction. It is 0 if no compaction has
	// happened yet.
	MeanHoleRatioAtReclaim float64
}
