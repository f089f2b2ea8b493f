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

package common

import (
	"github.com/bindval/bindval/errors"
)

type MemoryUsage struct {
	Kind   MemoryKind
	Amount uint64
}

// MemoryGauge decides whether an allocation may take place.
// Returning an error refuses the allocation.
type MemoryGauge interface {
	MeterMemory(usage MemoryUsage) error
}

// UseMemory meters the given usage against the gauge.
// A nil gauge accepts every usage.
func UseMemory(gauge MemoryGauge, usage MemoryUsage) error {
	if gauge == nil {
		return nil
	}

	err := gauge.MeterMemory(usage)
	if err != nil {
		return errors.MemoryError{Err: err}
	}
	return nil
}

func NewConstantMemoryUsage(kind MemoryKind) MemoryUsage {
	return MemoryUsage{
		Kind:   kind,
		Amount: 1,
	}
}

func NewTextMemoryUsage(length int) MemoryUsage {
	return MemoryUsage{
		Kind:   MemoryKindTextValue,
		Amount: uint64(length) + 1, // +1 to account for empty strings
	}
}

func NewRawTextMemoryUsage(length int) MemoryUsage {
	return MemoryUsage{
		Kind:   MemoryKindRawText,
		Amount: uint64(length) + 1, // +1 to account for empty strings
	}
}
