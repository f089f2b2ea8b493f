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

package bindval_test

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
	"unsafe"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/bindval/bindval"
	"github.com/bindval/bindval/common"
	. "github.com/bindval/bindval/test_utils/common_utils"
)

func requireTypeMismatch(t *testing.T, err error, expected, actual Kind) {
	t.Helper()

	RequireUserError(t, err)

	var mismatch TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t,
		TypeMismatchError{
			Expected: expected,
			Actual:   actual,
		},
		mismatch,
	)
}

func TestDefaultValue(t *testing.T) {
	t.Parallel()

	var value Value

	assert.Equal(t, KindNumber, value.Kind())

	number, err := value.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 0.0, number)

	_, err = value.AsText()
	requireTypeMismatch(t, err, KindText, KindNumber)

	_, err = value.AsPointer()
	requireTypeMismatch(t, err, KindPointer, KindNumber)
}

func TestNumberValue(t *testing.T) {
	t.Parallel()

	properties := gopter.NewProperties(nil)

	properties.Property("number round-trips, other accessors fail", prop.ForAll(
		func(n float64) bool {
			value := NewNumber(n)
			defer value.Destroy()

			actual, err := value.AsNumber()
			if err != nil || math.Float64bits(actual) != math.Float64bits(n) {
				return false
			}

			_, textErr := value.AsText()
			_, pointerErr := value.AsPointer()

			return value.Kind() == KindNumber &&
				textErr == (TypeMismatchError{Expected: KindText, Actual: KindNumber}) &&
				pointerErr == (TypeMismatchError{Expected: KindPointer, Actual: KindNumber})
		},
		gen.Float64(),
	))

	properties.TestingRun(t)

	for _, n := range []float64{
		0,
		math.Copysign(0, -1),
		1,
		-1,
		math.MaxFloat64,
		math.SmallestNonzeroFloat64,
		math.Inf(1),
		math.Inf(-1),
	} {
		actual, err := NewNumber(n).AsNumber()
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(n), math.Float64bits(actual))
	}

	t.Run("NaN", func(t *testing.T) {
		t.Parallel()

		actual, err := NewNumber(math.NaN()).AsNumber()
		require.NoError(t, err)
		assert.True(t, math.IsNaN(actual))
	})
}

func TestTextValue(t *testing.T) {
	t.Parallel()

	t.Run("round-trip", func(t *testing.T) {
		t.Parallel()

		properties := gopter.NewProperties(nil)

		properties.Property("text round-trips, other accessors fail", prop.ForAll(
			func(s string) bool {
				value, err := NewText(nil, s)
				if err != nil {
					return false
				}
				defer value.Destroy()

				actual, err := value.AsText()
				if err != nil || actual != s {
					return false
				}

				_, numberErr := value.AsNumber()
				_, pointerErr := value.AsPointer()

				return value.Kind() == KindText &&
					numberErr == (TypeMismatchError{Expected: KindNumber, Actual: KindText}) &&
					pointerErr == (TypeMismatchError{Expected: KindPointer, Actual: KindText})
			},
			gen.AnyString(),
		))

		properties.TestingRun(t)
	})

	t.Run("literal", func(t *testing.T) {
		t.Parallel()

		const literal = "test"

		value := NewUnmeteredText(literal)

		text, err := value.AsText()
		require.NoError(t, err)
		assert.Equal(t, literal, text)

		// the value owns its own storage
		assert.NotSame(t, unsafe.StringData(literal), unsafe.StringData(text))
	})

	t.Run("owned string", func(t *testing.T) {
		t.Parallel()

		owned := strings.Repeat("test2", 2)

		value, err := NewText(nil, owned)
		require.NoError(t, err)

		text, err := value.AsText()
		require.NoError(t, err)
		assert.Equal(t, "test2test2", text)
		assert.NotSame(t, unsafe.StringData(owned), unsafe.StringData(text))
	})

	t.Run("byte slice", func(t *testing.T) {
		t.Parallel()

		source := []byte("test3")

		value, err := NewText(nil, source)
		require.NoError(t, err)

		// mutating the source must not affect the value
		source[0] = 'b'

		text, err := value.AsText()
		require.NoError(t, err)
		assert.Equal(t, "test3", text)
	})

	t.Run("byte slice view", func(t *testing.T) {
		t.Parallel()

		source := []byte("xx-view-xx")

		value, err := NewText(nil, source[3:7])
		require.NoError(t, err)

		text, err := value.AsText()
		require.NoError(t, err)
		assert.Equal(t, "view", text)
	})

	t.Run("rune slice", func(t *testing.T) {
		t.Parallel()

		value, err := NewText(nil, []rune("héllo \U0001f496"))
		require.NoError(t, err)

		text, err := value.AsText()
		require.NoError(t, err)
		assert.Equal(t, "héllo \U0001f496", text)
	})

	t.Run("invalid rune", func(t *testing.T) {
		t.Parallel()

		limiter := common.NewMemoryLimiter(0)

		value, err := NewText(limiter, []rune{'a', -1})
		require.NoError(t, err)

		text, err := value.AsText()
		require.NoError(t, err)
		assert.Equal(t, "a\uFFFD", text)

		assert.Equal(t,
			common.NewTextMemoryUsage(len(text)).Amount,
			limiter.Used(),
		)
	})

	t.Run("named types", func(t *testing.T) {
		t.Parallel()

		type identifier string
		type utf8Bytes []byte
		type codePoints []rune

		limiter := common.NewMemoryLimiter(0)

		owned := identifier(strings.Repeat("id", 2))
		named, err := NewText(limiter, owned)
		require.NoError(t, err)
		requireText(t, "idid", named)

		text, err := named.AsText()
		require.NoError(t, err)
		assert.NotSame(t, unsafe.StringData(string(owned)), unsafe.StringData(text))

		source := utf8Bytes("bytes")
		fromBytes, err := NewText(limiter, source)
		require.NoError(t, err)
		source[0] = 'B'
		requireText(t, "bytes", fromBytes)

		fromRunes, err := NewText(limiter, codePoints("r\u00e9"))
		require.NoError(t, err)
		requireText(t, "r\u00e9", fromRunes)

		// metered by the byte length of the resulting text
		assert.Equal(t,
			common.NewTextMemoryUsage(4).Amount+
				common.NewTextMemoryUsage(5).Amount+
				common.NewTextMemoryUsage(3).Amount,
			limiter.Used(),
		)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		value := NewUnmeteredText("")

		assert.Equal(t, KindText, value.Kind())

		text, err := value.AsText()
		require.NoError(t, err)
		assert.Equal(t, "", text)
	})

	t.Run("metered", func(t *testing.T) {
		t.Parallel()

		limiter := common.NewMemoryLimiter(0)

		_, err := NewText(limiter, "hello")
		require.NoError(t, err)

		assert.Equal(t, uint64(6), limiter.UsedByKind(common.MemoryKindTextValue))
	})

	t.Run("allocation failure", func(t *testing.T) {
		t.Parallel()

		limiter := common.NewMemoryLimiter(4)

		value, err := NewText(limiter, "hello")
		RequireUserError(t, err)
		assert.Nil(t, value)

		var allocationErr AllocationError
		require.ErrorAs(t, err, &allocationErr)
		assert.Equal(t, common.NewTextMemoryUsage(5), allocationErr.Usage)

		var limitErr common.MemoryLimitExceededError
		require.ErrorAs(t, err, &limitErr)

		assert.Equal(t, uint64(0), limiter.Used())
	})
}

func TestNewTextFunc(t *testing.T) {
	t.Parallel()

	t.Run("constructed", func(t *testing.T) {
		t.Parallel()

		limiter := common.NewMemoryLimiter(0)

		value, err := NewTextFunc(
			limiter,
			common.NewTextMemoryUsage(3),
			func() string {
				return strings.Repeat("a", 3)
			},
		)
		require.NoError(t, err)

		text, err := value.AsText()
		require.NoError(t, err)
		assert.Equal(t, "aaa", text)
		assert.Equal(t, uint64(4), limiter.Used())
	})

	t.Run("refused before construction", func(t *testing.T) {
		t.Parallel()

		limiter := common.NewMemoryLimiter(10)

		called := false

		value, err := NewTextFunc(
			limiter,
			common.NewTextMemoryUsage(1<<30),
			func() string {
				called = true
				return strings.Repeat("a", 1<<30)
			},
		)
		RequireUserError(t, err)
		require.ErrorAs(t, err, &AllocationError{})
		assert.Nil(t, value)
		assert.False(t, called)
	})
}

func TestNewNormalizedText(t *testing.T) {
	t.Parallel()

	t.Run("composed", func(t *testing.T) {
		t.Parallel()

		// e followed by a combining acute accent
		value, err := NewNormalizedText(nil, "cafe\u0301")
		require.NoError(t, err)

		text, err := value.AsText()
		require.NoError(t, err)
		assert.Equal(t, "caf\u00e9", text)
		assert.Equal(t, 4, utf8.RuneCountInString(text))
	})

	t.Run("metered", func(t *testing.T) {
		t.Parallel()

		limiter := common.NewMemoryLimiter(0)

		_, err := NewNormalizedText(limiter, "abc")
		require.NoError(t, err)

		assert.Equal(t, uint64(4), limiter.UsedByKind(common.MemoryKindRawText))
		assert.Equal(t, uint64(4), limiter.UsedByKind(common.MemoryKindTextValue))
	})

	t.Run("allocation failure", func(t *testing.T) {
		t.Parallel()

		_, err := NewNormalizedText(common.NewMemoryLimiter(2), "abc")
		RequireUserError(t, err)
		require.ErrorAs(t, err, &AllocationError{})
	})
}

func TestPointerValue(t *testing.T) {
	t.Parallel()

	t.Run("owned", func(t *testing.T) {
		t.Parallel()

		buf := make([]byte, 128)
		pointer := unsafe.Pointer(&buf[0])

		recorder := &ReleaseRecorder{}
		value := NewPointer(pointer, recorder.Release)

		assert.Equal(t, KindPointer, value.Kind())
		assert.True(t, value.OwnsPointer())

		actual, err := value.AsPointer()
		require.NoError(t, err)
		assert.Equal(t, pointer, actual)

		_, err = value.AsNumber()
		requireTypeMismatch(t, err, KindNumber, KindPointer)

		_, err = value.AsText()
		requireTypeMismatch(t, err, KindText, KindPointer)

		// reading never releases
		assert.Empty(t, recorder.Released)

		value.Destroy()

		assert.Equal(t, []unsafe.Pointer{pointer}, recorder.Released)
		assert.Equal(t, KindNumber, value.Kind())
		assert.False(t, value.OwnsPointer())
	})

	t.Run("not owned", func(t *testing.T) {
		t.Parallel()

		buf := make([]byte, 16)
		pointer := unsafe.Pointer(&buf[0])

		value := NewPointer(pointer, nil)
		assert.False(t, value.OwnsPointer())

		actual, err := value.AsPointer()
		require.NoError(t, err)
		assert.Equal(t, pointer, actual)

		// nothing to call
		value.Destroy()
		assert.Equal(t, KindNumber, value.Kind())
	})

	t.Run("nil pointer, nil releaser", func(t *testing.T) {
		t.Parallel()

		value := NewPointer(nil, nil)

		assert.Equal(t, KindPointer, value.Kind())

		actual, err := value.AsPointer()
		require.NoError(t, err)
		assert.Nil(t, actual)

		value.Destroy()
	})

	t.Run("nil pointer, releaser", func(t *testing.T) {
		t.Parallel()

		recorder := &ReleaseRecorder{}
		value := NewPointer(nil, recorder.Release)

		value.Destroy()

		assert.Equal(t, []unsafe.Pointer{nil}, recorder.Released)
	})
}

func TestKindDeterminesAccessor(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 8)

	values := map[string]func() *Value{
		"default": func() *Value {
			return &Value{}
		},
		"number": func() *Value {
			return NewNumber(10)
		},
		"text": func() *Value {
			return NewUnmeteredText("test")
		},
		"pointer": func() *Value {
			return NewPointer(unsafe.Pointer(&buf[0]), nil)
		},
		"nil pointer": func() *Value {
			return NewPointer(nil, nil)
		},
	}

	for name, newValue := range values {
		newValue := newValue

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			value := newValue()
			defer value.Destroy()

			_, numberErr := value.AsNumber()
			_, textErr := value.AsText()
			_, pointerErr := value.AsPointer()

			errs := map[Kind]error{
				KindNumber:  numberErr,
				KindText:    textErr,
				KindPointer: pointerErr,
			}

			for kind, err := range errs {
				if kind == value.Kind() {
					assert.NoError(t, err, kind.String())
				} else {
					requireTypeMismatch(t, err, kind, value.Kind())
				}
			}
		})
	}
}

func TestValueString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", (&Value{}).String())
	assert.Equal(t, "10", NewNumber(10).String())
	assert.Equal(t, "-1.5", NewNumber(-1.5).String())
	assert.Equal(t, `"hello\n"`, NewUnmeteredText("hello\n").String())
	assert.Equal(t, "Pointer(nil)", NewPointer(nil, nil).String())

	buf := make([]byte, 8)
	pointer := NewPointer(unsafe.Pointer(&buf[0]), nil)
	assert.True(t, strings.HasPrefix(pointer.String(), "Pointer(0x"))
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Number", KindNumber.String())
	assert.Equal(t, "Text", KindText.String())
	assert.Equal(t, "Pointer", KindPointer.String())
	assert.Equal(t, "Kind(3)", Kind(3).String())
}
