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

//go:build debug

// Package debug includes debugging helpers that only exist in binaries
// built with `-tags debug`.
package debug

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/timandy/routine"
)

// Enabled is true if the binary was built with the debug tag, which enables
// internal assertions and verbose logging.
const Enabled = true

var (
	debugPattern *regexp.Regexp
)

func init() {
	flag.Func("arenalist.filter", "regexp to filter debug logs by", func(s string) (err error) {
		debugPattern, err = regexp.Compile(s)
		return err
	})
}

// Log prints debugging information to stderr, tagged with the calling
// goroutine's id.
//
// context is an optional (format, args...) pair printed before operation;
// it is useful for identifying a group of related log lines, such as the
// list a given arena operation belongs to.
func Log(context []any, operation string, format string, args ...any) {
	skip := 1
again:
	pc, file, line, _ := runtime.Caller(skip)

	fn := runtime.FuncForPC(pc)
	name := fn.Name()
	name = name[strings.LastIndex(name, ".")+1:]
	if strings.HasPrefix(name, "log") || strings.Contains(name, "Log") {
		skip++
		goto again
	}

	pkg := fn.Name()
	pkg = strings.TrimPrefix(pkg, "github.com/arenalist/arenalist/")
	if idx := strings.Index(pkg, "."); idx >= 0 {
		pkg = pkg[:idx]
	}

	file = filepath.Base(file)

	buf := new(strings.Builder)
	fmt.Fprintf(buf, "%s/%s:%d [g%04d", pkg, file, line, routine.Goid()) //nolint:errcheck
	if len(context) >= 1 {
		fmt.Fprintf(buf, ", "+context[0].(string), context[1:]...) //nolint:errcheck
	}
	fmt.Fprintf(buf, "] %s: ", operation) //nolint:errcheck
	fmt.Fprintf(buf, format, args...)     //nolint:errcheck

	if debugPattern != nil && !debugPattern.MatchString(buf.String()) {
		return
	}

	buf.WriteByte('\n')
	_, _ = os.Stderr.WriteString(buf.String())
}

// Assert panics if cond is false. Only present in debug builds; release
// builds compile Assert out entirely (see debug_off.go), so callers must not
// rely on its argument expressions for side effects.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("arenalist: internal assertion failed: "+format, args...))
	}
}

// Value is a value of any type that only exists when the debug tag is
// enabled. When disabled, it is replaced with an empty struct, so embedding
// it in a hot-path type costs nothing in release builds.
type Value[T any] struct {
	x T
}

// Get returns a pointer to this value. Outside debug builds it returns nil
// instead (see debug_off.go).
func (v *Value[T]) Get() *T { return &v.x }
