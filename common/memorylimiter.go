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
	"fmt"
	"sync"

	"github.com/bindval/bindval/errors"
)

// MemoryLimitExceededError is returned by a MemoryLimiter
// when a usage would push the total above its limit.
type MemoryLimitExceededError struct {
	Usage MemoryUsage
	Limit uint64
	Used  uint64
}

var _ errors.UserError = MemoryLimitExceededError{}

func (MemoryLimitExceededError) IsUserError() {}

func (e MemoryLimitExceededError) Error() string {
	return fmt.Sprintf(
		"memory limit exceeded: %d bytes of %s requested, %d of %d in use",
		e.Usage.Amount,
		e.Usage.Kind,
		e.Used,
		e.Limit,
	)
}

// MemoryLimiter is a MemoryGauge which accumulates usages
// and refuses any usage that would exceed the limit.
// A zero limit means no limit.
//
// Usages are never returned to the limiter:
// it bounds the total amount allocated, not the amount live.
type MemoryLimiter struct {
	mu     sync.Mutex
	limit  uint64
	used   uint64
	byKind map[MemoryKind]uint64
}

var _ MemoryGauge = &MemoryLimiter{}

func NewMemoryLimiter(limit uint64) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		byKind: make(map[MemoryKind]uint64),
	}
}

func (l *MemoryLimiter) MeterMemory(usage MemoryUsage) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limit > 0 && usage.Amount > l.limit-l.used {
		return MemoryLimitExceededError{
			Usage: usage,
			Limit: l.limit,
			Used:  l.used,
		}
	}

	l.used += usage.Amount
	l.byKind[usage.Kind] += usage.Amount
	return nil
}

func (l *MemoryLimiter) Limit() uint64 {
	return l.limit
}

func (l *MemoryLimiter) Used() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.used
}

func (l *MemoryLimiter) UsedByKind(kind MemoryKind) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.byKind[kind]
}
