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

package bindval

import (
	"fmt"

	"github.com/bindval/bindval/common"
	"github.com/bindval/bindval/errors"
)

// TypeMismatchError is returned when a value is accessed as a kind
// other than its own.
type TypeMismatchError struct {
	Expected Kind
	Actual   Kind
}

var _ errors.UserError = TypeMismatchError{}

func (TypeMismatchError) IsUserError() {}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"type mismatch: expected %s, got %s",
		e.Expected,
		e.Actual,
	)
}

// AllocationError is returned when the storage for a text value
// could not be obtained from the memory gauge.
type AllocationError struct {
	Usage common.MemoryUsage
	Err   error
}

var _ errors.UserError = AllocationError{}

func (AllocationError) IsUserError() {}

func (e AllocationError) Unwrap() error {
	return e.Err
}

func (e AllocationError) Error() string {
	return fmt.Sprintf(
		"cannot allocate %d bytes of %s: %s",
		e.Usage.Amount,
		e.Usage.Kind,
		e.Err.Error(),
	)
}

type Operation string

const (
	OperationCopy Operation = "copy"
)

// UnsupportedOperationError is returned when an operation
// is not supported for the kind of a value, e.g. copying a pointer value.
type UnsupportedOperationError struct {
	Operation Operation
	Kind      Kind
}

var _ errors.UserError = UnsupportedOperationError{}

func (UnsupportedOperationError) IsUserError() {}

func (e UnsupportedOperationError) Error() string {
	return fmt.Sprintf(
		"unsupported operation: cannot %s %s value",
		e.Operation,
		e.Kind,
	)
}
