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

// config holds the construction-time settings shared by NewDoubly and
// NewSingly.
type config struct {
	policy          ReclaimPolicy
	initialCapacity int
}

func newConfig(opts []Option) config {
	c := config{policy: Threshold(DefaultThreshold)}
	for _, opt := range opts {
		opt.apply(&c)
	}
	return c
}

// Option configures a collection at construction time.
type Option struct {
	apply func(*config)
}

// WithReclaimPolicy sets the collection's initial reclaim policy. The policy
// can still be changed later with SetReclaimPolicy.
func WithReclaimPolicy(p ReclaimPolicy) Option {
	return Option{func(c *config) { c.policy = p }}
}

// WithInitialCapacity pre-allocates room for at least n nodes before the
// first push, avoiding the arena's early doubling growth steps.
func WithInitialCapacity(n int) Option {
	return Option{func(c *config) { c.initialCapacity = n }}
}
