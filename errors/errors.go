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

// Package errors classifies the failures of bindval values.
//
// A UserError is caused by the caller and can be handled.
// An InternalError is a bug in bindval: it is raised as a panic
// and must be propagated, never recovered.
// An ExternalError carries a panic raised by code bindval calls,
// such as a releaser.
package errors

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/xerrors"
)

type InternalError interface {
	error
	IsInternalError()
}

type UserError interface {
	error
	IsUserError()
}

// ExternalError

type ExternalError struct {
	Recovered any
}

func NewExternalError(recovered any) ExternalError {
	return ExternalError{
		Recovered: recovered,
	}
}

func (e ExternalError) Error() string {
	return fmt.Sprint(e.Recovered)
}

// UnreachableError is raised when a value reaches a state
// no operation can produce, e.g. an unknown kind.
type UnreachableError struct {
	Stack []byte
}

var _ InternalError = UnreachableError{}

func NewUnreachableError() *UnreachableError {
	return &UnreachableError{
		Stack: debug.Stack(),
	}
}

func (e UnreachableError) IsInternalError() {}

func (e UnreachableError) Error() string {
	return fmt.Sprintf("unreachable\n%s", e.Stack)
}

// MemoryError wraps the refusal of a memory gauge.
type MemoryError struct {
	Err error
}

var _ UserError = MemoryError{}

func (e MemoryError) IsUserError() {}

func (e MemoryError) Unwrap() error {
	return e.Err
}

func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: %s", e.Err.Error())
}

// IsInternalError reports whether err, or an error it wraps, is an InternalError.
func IsInternalError(err error) bool {
	return find(err, func(err error) bool {
		_, ok := err.(InternalError)
		return ok
	}) != nil
}

// IsUserError reports whether err, or an error it wraps, is a UserError.
func IsUserError(err error) bool {
	return find(err, func(err error) bool {
		_, ok := err.(UserError)
		return ok
	}) != nil
}

// GetExternalError returns the first ExternalError in the chain of err.
func GetExternalError(err error) (ExternalError, bool) {
	found := find(err, func(err error) bool {
		_, ok := err.(ExternalError)
		return ok
	})
	if found == nil {
		return ExternalError{}, false
	}
	return found.(ExternalError), true
}

// find walks the wrap chain of err and returns the first error
// matching the predicate, or nil.
func find(err error, match func(error) bool) error {
	for err != nil {
		if match(err) {
			return err
		}
		wrapper, ok := err.(xerrors.Wrapper)
		if !ok {
			return nil
		}
		err = wrapper.Unwrap()
	}
	return nil
}
