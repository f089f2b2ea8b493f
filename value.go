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

// Package bindval provides Value, a tagged union of a number, an owned text,
// or an opaque pointer with an optional releaser, for use as a binding value
// between Go and foreign code.
//
// A Value owns its payload. It is handled through a pointer and must not be
// copied with Go assignment: use Copy / CopyFrom for deep copies and
// Move / MoveFrom for ownership transfers. Destroy releases the payload.
//
// Values are not safe for concurrent mutation. Concurrent reads of a Value
// which is not being mutated are safe.
package bindval

import (
	"strings"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/unicode/norm"

	"github.com/bindval/bindval/common"
	"github.com/bindval/bindval/errors"
	"github.com/bindval/bindval/format"
)

// Releaser releases the referent of a pointer value.
// It is invoked at most once, with exactly the stored pointer,
// when the owning value's content is discarded.
type Releaser func(pointer unsafe.Pointer)

// TextSource is the set of types a text value can be constructed from,
// including named string, byte slice and rune slice types.
type TextSource interface {
	~string | ~[]byte | ~[]rune
}

// noCopy makes `go vet` report values which are copied after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Value
//
// Only the payload fields of the active kind are ever set.
// The zero Value is the number 0.
type Value struct {
	_       noCopy
	kind    Kind
	number  float64
	text    *string
	pointer unsafe.Pointer
	release Releaser
}

// Number

func NewNumber(number float64) *Value {
	return &Value{
		kind:   KindNumber,
		number: number,
	}
}

// Text

// NewUnmeteredText returns a text value owning a fresh copy of the source.
func NewUnmeteredText[T TextSource](source T) *Value {
	text := ownedText(source)
	return &Value{
		kind: KindText,
		text: &text,
	}
}

// NewText returns a text value owning a fresh copy of the source.
// The storage is metered against the gauge before it is allocated.
func NewText[T TextSource](gauge common.MemoryGauge, source T) (*Value, error) {
	usage := common.NewTextMemoryUsage(textLength(source))
	err := common.UseMemory(gauge, usage)
	if err != nil {
		return nil, AllocationError{
			Usage: usage,
			Err:   err,
		}
	}

	return NewUnmeteredText(source), nil
}

// NewTextFunc meters the given usage and only then runs the constructor,
// so expensive constructions can be refused before they happen.
func NewTextFunc(
	gauge common.MemoryGauge,
	usage common.MemoryUsage,
	constructor func() string,
) (*Value, error) {
	err := common.UseMemory(gauge, usage)
	if err != nil {
		return nil, AllocationError{
			Usage: usage,
			Err:   err,
		}
	}

	return NewUnmeteredText(constructor()), nil
}

// NewNormalizedText returns a text value owning the NFC normalization of s.
func NewNormalizedText(gauge common.MemoryGauge, s string) (*Value, error) {
	// normalization may need a working buffer as large as the input
	usage := common.NewRawTextMemoryUsage(len(s))
	err := common.UseMemory(gauge, usage)
	if err != nil {
		return nil, AllocationError{
			Usage: usage,
			Err:   err,
		}
	}

	return NewText(gauge, norm.NFC.String(s))
}

func ownedText[T TextSource](source T) string {
	switch source := any(source).(type) {
	case []byte:
		return string(source)
	case []rune:
		return string(source)
	}

	// converting a string kind may share its storage
	return strings.Clone(string(source))
}

// textLength returns the length in bytes of the text the source converts to.
func textLength[T TextSource](source T) int {
	switch source := any(source).(type) {
	case string:
		return len(source)
	case []byte:
		return len(source)
	case []rune:
		length := 0
		for _, r := range source {
			n := utf8.RuneLen(r)
			if n < 0 {
				// invalid runes convert to utf8.RuneError
				n = utf8.RuneLen(utf8.RuneError)
			}
			length += n
		}
		return length
	}

	return len(string(source))
}

// Pointer

// NewPointer returns a value carrying the pointer.
// If release is non-nil, the value owns the referent
// and calls release when its content is discarded.
// If release is nil, the value only carries the pointer.
func NewPointer(pointer unsafe.Pointer, release Releaser) *Value {
	return &Value{
		kind:    KindPointer,
		pointer: pointer,
		release: release,
	}
}

// Kind returns the kind of the value. It never fails.
func (v *Value) Kind() Kind {
	return v.kind
}

func (v *Value) AsNumber() (float64, error) {
	if v.kind != KindNumber {
		return 0, TypeMismatchError{
			Expected: KindNumber,
			Actual:   v.kind,
		}
	}
	return v.number, nil
}

// AsText returns the text of the value.
// The result is a view of the owned text and must not be assumed
// to be valid after the value is mutated or destroyed.
func (v *Value) AsText() (string, error) {
	if v.kind != KindText {
		return "", TypeMismatchError{
			Expected: KindText,
			Actual:   v.kind,
		}
	}
	return *v.text, nil
}

// AsPointer returns the stored pointer.
// The caller does not gain ownership of the referent,
// and must not use the pointer after the value is destroyed.
func (v *Value) AsPointer() (unsafe.Pointer, error) {
	if v.kind != KindPointer {
		return nil, TypeMismatchError{
			Expected: KindPointer,
			Actual:   v.kind,
		}
	}
	return v.pointer, nil
}

// OwnsPointer reports whether the value is a pointer value with a releaser.
func (v *Value) OwnsPointer() bool {
	return v.kind == KindPointer && v.release != nil
}

func (v *Value) String() string {
	switch v.kind {
	case KindNumber:
		return format.Number(v.number)
	case KindText:
		return format.Text(*v.text)
	case KindPointer:
		return format.Pointer(uintptr(v.pointer))
	default:
		panic(errors.NewUnreachableError())
	}
}
