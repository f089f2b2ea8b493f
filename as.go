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
	"unsafe"

	"github.com/bindval/bindval/errors"
)

// Payload is the set of Go types stored by the kinds of a Value.
type Payload interface {
	float64 | string | unsafe.Pointer
}

// As returns the payload of the value, selected by the result type:
//
//	As[float64](v)        // same as v.AsNumber()
//	As[string](v)         // same as v.AsText()
//	As[unsafe.Pointer](v) // same as v.AsPointer()
//
// Other instantiations do not compile.
func As[T Payload](v *Value) (result T, err error) {
	switch p := any(&result).(type) {
	case *float64:
		*p, err = v.AsNumber()
	case *string:
		*p, err = v.AsText()
	case *unsafe.Pointer:
		*p, err = v.AsPointer()
	default:
		panic(errors.NewUnreachableError())
	}
	return
}

// KindOf returns the kind of values storing the given payload type.
func KindOf[T Payload]() Kind {
	var zero T
	switch any(zero).(type) {
	case float64:
		return KindNumber
	case string:
		return KindText
	case unsafe.Pointer:
		return KindPointer
	default:
		panic(errors.NewUnreachableError())
	}
}
