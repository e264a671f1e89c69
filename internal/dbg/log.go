// Copyright 2025 Buf Technologies, Inc.
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

package dbg

import (
	"fmt"
	"os"
	"strings"
)

// Verbose enables Log's output. It is off by default; flip it during
// development to watch arena and list internals on stderr.
var Verbose = false

// Log prints a lazily-formatted line to stderr when Verbose is set.
//
// Unlike internal/debug, this is always compiled in: internal/arena calls
// it from hot paths and cannot be gated behind a build tag the importer of
// this module doesn't control.
func Log(context []any, operation, format string, args ...any) {
	if !Verbose {
		return
	}

	buf := new(strings.Builder)
	if len(context) >= 1 {
		fmt.Fprintf(buf, context[0].(string), context[1:]...) //nolint:errcheck
		buf.WriteString(" ")
	}
	fmt.Fprintf(buf, "%s: ", operation)
	fmt.Fprintf(buf, format, args...)
	buf.WriteString("\n")

	_, _ = os.Stderr.WriteString(buf.String())
}
