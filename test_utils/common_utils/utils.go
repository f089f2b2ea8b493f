/*
 * Bindval - Tagged union values for language bindings
 *
 * Copyright The Bindval Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package common_utils

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/k0kubun/pp/v3"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"

	"github.com/bindval/bindval/errors"
)

var printer = func() *pp.PrettyPrinter {
	printer := pp.New()
	printer.SetColoringEnabled(false)
	return printer
}()

// AssertEqualWithDiff asserts that two objects are equal.
//
// If the objects are not equal, this function prints a human-readable diff.
func AssertEqualWithDiff(t *testing.T, expected, actual any) {
	t.Helper()

	diff := pretty.Diff(expected, actual)

	if len(diff) != 0 {
		s := strings.Builder{}

		for i, d := range diff {
			if i == 0 {
				s.WriteString("diff    : ")
			} else {
				s.WriteString("          ")
			}

			s.WriteString(d)
			s.WriteString("\n")
		}

		t.Errorf(
			"Not equal: \n"+
				"expected: %s\n"+
				"actual  : %s\n\n"+
				"%s",
			printer.Sprint(expected),
			printer.Sprint(actual),
			s.String(),
		)
	}
}

// RequireUserError is a wrapper around require.Error which also ensures
// that the error is a user error, is not an internal error,
// and that its message can be successfully produced
func RequireUserError(t *testing.T, err error) {
	t.Helper()

	require.Error(t, err)

	_ = err.Error()

	require.True(t, errors.IsUserError(err), "not a user error: %s", err)
	require.False(t, errors.IsInternalError(err), "internal error: %s", err)
}

// RequireUnreachable asserts that f panics with an UnreachableError.
func RequireUnreachable(t *testing.T, f func()) {
	t.Helper()

	var recovered any
	func() {
		defer func() {
			recovered = recover()
		}()
		f()
	}()

	require.NotNil(t, recovered, "expected panic")

	err, ok := recovered.(error)
	require.True(t, ok, "panic is not an error: %v", recovered)
	require.True(t, errors.IsInternalError(err), "not an internal error: %s", err)
	require.IsType(t, &errors.UnreachableError{}, err)
}

// ReleaseRecorder records the pointers passed to its Release method,
// which can be used as a releaser of pointer values.
type ReleaseRecorder struct {
	Released []unsafe.Pointer
}

func (r *ReleaseRecorder) Release(pointer unsafe.Pointer) {
	r.Released = append(r.Released, pointer)
}

// Count returns how often the given pointer was released.
func (r *ReleaseRecorder) Count(pointer unsafe.Pointer) int {
	count := 0
	for _, released := range r.Released {
		if released == pointer {
			count++
		}
	}
	return count
}
