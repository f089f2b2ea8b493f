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
	"github.com/bindval/bindval/common"
	"github.com/bindval/bindval/errors"
)

// Copy returns an independent copy of the value.
//
// Text is deep-copied into fresh storage metered against the gauge.
// Pointer values cannot be copied and fail with an UnsupportedOperationError.
// The receiver is never modified.
func (v *Value) Copy(gauge common.MemoryGauge) (*Value, error) {
	switch v.kind {
	case KindNumber:
		return NewNumber(v.number), nil

	case KindText:
		return NewText(gauge, *v.text)

	case KindPointer:
		return nil, UnsupportedOperationError{
			Operation: OperationCopy,
			Kind:      v.kind,
		}

	default:
		panic(errors.NewUnreachableError())
	}
}

// CopyFrom replaces the content of the value with a copy of src.
//
// The copy is fully constructed before the current content is released,
// so if copying fails, the value is left unmodified.
func (v *Value) CopyFrom(gauge common.MemoryGauge, src *Value) error {
	if v == src {
		return nil
	}

	replacement, err := src.Copy(gauge)
	if err != nil {
		return err
	}

	v.MoveFrom(replacement)
	return nil
}

// Move transfers the content of the value into a new value.
// The receiver is disengaged: whatever its former kind,
// its Kind becomes KindNumber with the number 0,
// and destroying it releases nothing.
func (v *Value) Move() *Value {
	moved := &Value{}
	moved.take(v)
	return moved
}

// MoveFrom releases the current content of the value,
// then takes over the content of src, which is disengaged
// to the number 0 as by Move.
func (v *Value) MoveFrom(src *Value) {
	if v == src {
		return
	}

	v.cleanup()
	v.take(src)
}

// Destroy releases the content of the value:
// text storage is dropped, and an owned pointer is passed to its releaser.
// Afterwards the value is the number 0, so destroying it again is a no-op.
func (v *Value) Destroy() {
	v.cleanup()
}

// take moves the payload of src into v, which must be in the default state,
// and disengages src.
func (v *Value) take(src *Value) {
	switch src.kind {
	case KindNumber:
		v.number = src.number

	case KindText:
		v.text = src.text

	case KindPointer:
		v.pointer = src.pointer
		v.release = src.release

	default:
		panic(errors.NewUnreachableError())
	}
	v.kind = src.kind

	src.reset()
}

// cleanup releases the owned resource, if any,
// and resets the value to the default state.
//
// The value is reset before the releaser is called,
// so a panicking releaser leaves a valid value and is never called twice.
func (v *Value) cleanup() {
	switch v.kind {
	case KindNumber, KindText:
		v.reset()

	case KindPointer:
		pointer, release := v.pointer, v.release
		v.reset()
		if release != nil {
			release(pointer)
		}

	default:
		panic(errors.NewUnreachableError())
	}
}

func (v *Value) reset() {
	v.kind = KindNumber
	v.number = 0
	v.text = nil
	v.pointer = nil
	v.release = nil
}
