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

package main

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/lthibault/log"
	"github.com/urfave/cli/v2"

	"github.com/bindval/bindval"
	"github.com/bindval/bindval/common"
	"github.com/bindval/bindval/errors"
	"github.com/bindval/bindval/internal/logutil"
)

func smokeCommand() *cli.Command {
	return &cli.Command{
		Name:   "smoke",
		Usage:  "construct, read, copy, move and destroy values of every kind",
		Action: smoke,
	}
}

func smoke(c *cli.Context) error {
	h := &harness{
		gauge:   newGauge(c),
		log:     logutil.New(c).WithField("cmd", "smoke"),
		out:     c.App.Writer,
		printer: newPrinter(c),
	}

	err := h.run()
	if err != nil {
		return h.fail(err)
	}

	_, _ = fmt.Fprintln(h.out, h.formatSuccess("smoke test passed"))
	return nil
}

func newGauge(c *cli.Context) common.MemoryGauge {
	limit := c.Uint64("memory-limit")
	if limit == 0 {
		return nil
	}
	return common.NewMemoryLimiter(limit)
}

type harness struct {
	printer
	gauge    common.MemoryGauge
	log      log.Logger
	out      io.Writer
	released map[unsafe.Pointer]int
}

// fail reports the error of a failed run.
// Panics recovered from a step are reported as such.
func (h *harness) fail(err error) error {
	message := err.Error()
	if external, ok := errors.GetExternalError(err); ok {
		h.log.
			WithField("recovered", external.Recovered).
			Error("smoke step panicked")
		message = "panic in " + message
	}

	_, _ = fmt.Fprintln(h.out, h.formatError(message))
	return cli.Exit("smoke test failed", 1)
}

func (h *harness) printValue(value *bindval.Value) {
	_, _ = fmt.Fprintf(h.out, "value = %s\n", h.formatValue(value))
}

// release is the releaser of the buffers allocated by the harness.
func (h *harness) release(pointer unsafe.Pointer) {
	h.released[pointer]++
	h.log.WithField("pointer", uintptr(pointer)).Debug("released buffer")
}

// step runs f, turning a panic other than an internal error into an error.
func (h *harness) step(name string, f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if internalErr, ok := r.(errors.InternalError); ok {
				panic(internalErr)
			}
			err = errors.NewExternalError(r)
		}
		if err != nil {
			err = fmt.Errorf("%s: %w", name, err)
		}
	}()

	h.log.WithField("step", name).Debug("running")

	return f()
}

// checkAccessor asserts that As[T] succeeds if and only if
// T is the payload type of the value's kind.
func checkAccessor[T bindval.Payload](h *harness, value *bindval.Value) error {
	kind := bindval.KindOf[T]()

	_, err := bindval.As[T](value)
	switch {
	case err == nil && kind != value.Kind():
		return fmt.Errorf("%s accessor succeeded on %s value", kind, value.Kind())

	case err != nil && kind == value.Kind():
		return fmt.Errorf("%s accessor failed on %s value: %w", kind, value.Kind(), err)

	case err != nil:
		h.log.
			WithField("kind", value.Kind()).
			WithField("accessor", kind).
			Debug(err)
		return nil

	default:
		h.printValue(value)
		return nil
	}
}

func checkValue(h *harness, value *bindval.Value) error {
	err := checkAccessor[float64](h, value)
	if err != nil {
		return err
	}
	err = checkAccessor[string](h, value)
	if err != nil {
		return err
	}
	return checkAccessor[unsafe.Pointer](h, value)
}

// expectKind prints the value after asserting its kind.
func (h *harness) expectKind(value *bindval.Value, kind bindval.Kind) error {
	if value.Kind() != kind {
		return fmt.Errorf("expected %s value, got %s", kind, value.Kind())
	}
	h.printValue(value)
	return nil
}

func (h *harness) run() error {
	h.released = map[unsafe.Pointer]int{}

	// numbers

	number := bindval.NewNumber(10)
	defer number.Destroy()

	// texts

	test3 := "test3"

	var text1, text2, text3 *bindval.Value
	err := h.step("construct texts", func() (err error) {
		text1, err = bindval.NewText(h.gauge, "test")
		if err != nil {
			return err
		}
		text2, err = bindval.NewText(h.gauge, []byte("test2"))
		if err != nil {
			return err
		}
		text3, err = bindval.NewText(h.gauge, []rune(test3))
		return err
	})
	if err != nil {
		return err
	}
	defer text1.Destroy()
	defer text2.Destroy()
	defer text3.Destroy()

	// pointers

	buffer := make([]byte, 128)
	bufferPointer := unsafe.Pointer(&buffer[0])

	pointer1 := bindval.NewPointer(bufferPointer, h.release)
	defer pointer1.Destroy()

	pointer2 := bindval.NewPointer(nil, nil)
	defer pointer2.Destroy()

	for _, value := range []*bindval.Value{
		number,
		text1,
		text2,
		text3,
		pointer1,
		pointer2,
	} {
		err := h.step("check "+value.Kind().String(), func() error {
			return checkValue(h, value)
		})
		if err != nil {
			return err
		}
	}

	steps := []struct {
		name string
		f    func() error
	}{
		{
			name: "copy text into text",
			f: func() error {
				err := text1.CopyFrom(h.gauge, text2)
				if err != nil {
					return err
				}
				return h.expectKind(text1, bindval.KindText)
			},
		},
		{
			name: "copy text into number",
			f: func() error {
				err := number.CopyFrom(h.gauge, text1)
				if err != nil {
					return err
				}
				return h.expectKind(number, bindval.KindText)
			},
		},
		{
			name: "move default into text",
			f: func() error {
				number.MoveFrom(&bindval.Value{})
				return h.expectKind(number, bindval.KindNumber)
			},
		},
		{
			name: "move pointer into number",
			f: func() error {
				number.MoveFrom(bindval.NewPointer(nil, nil))
				return h.expectKind(number, bindval.KindPointer)
			},
		},
		{
			name: "copy number into pointer",
			f: func() error {
				err := number.CopyFrom(h.gauge, bindval.NewNumber(123))
				if err != nil {
					return err
				}
				return h.expectKind(number, bindval.KindNumber)
			},
		},
		{
			name: "move number",
			f: func() error {
				moved := number.Move()
				defer moved.Destroy()
				return h.expectKind(moved, bindval.KindNumber)
			},
		},
		{
			name: "move owned pointer",
			f: func() error {
				moved := pointer1.Move()

				pointer1.Destroy()
				if h.released[bufferPointer] != 0 {
					return fmt.Errorf("moved-from pointer value released its buffer")
				}

				err := h.expectKind(moved, bindval.KindPointer)
				if err != nil {
					return err
				}

				// copying a pointer must fail, and must leave it usable
				_, err = moved.Copy(h.gauge)
				if _, ok := err.(bindval.UnsupportedOperationError); !ok {
					return fmt.Errorf("copy of pointer value did not fail as unsupported: %v", err)
				}
				h.log.WithError(err).Info("pointer copy refused, as it must be")

				err = h.expectKind(moved, bindval.KindPointer)
				if err != nil {
					return err
				}

				moved.Destroy()
				if count := h.released[bufferPointer]; count != 1 {
					return fmt.Errorf("buffer released %d times, expected once", count)
				}
				return nil
			},
		},
		{
			name: "move text",
			f: func() error {
				moved := text2.Move()
				defer moved.Destroy()
				return h.expectKind(moved, bindval.KindText)
			},
		},
	}

	for _, step := range steps {
		err := h.step(step.name, step.f)
		if err != nil {
			return err
		}
	}

	if limiter, ok := h.gauge.(*common.MemoryLimiter); ok {
		h.log.
			WithField("used", limiter.Used()).
			WithField("limit", limiter.Limit()).
			Info("memory usage")
	}

	return nil
}
