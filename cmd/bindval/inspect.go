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

	"github.com/urfave/cli/v2"

	"github.com/bindval/bindval"
	"github.com/bindval/bindval/internal/logutil"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "show the kind, rendering and accessors of a value",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "number",
				Usage: "inspect the number `n`",
			},
			&cli.StringFlag{
				Name:  "text",
				Usage: "inspect the text `s`",
			},
			&cli.BoolFlag{
				Name:  "normalize",
				Usage: "normalize the text to NFC",
			},
			&cli.BoolFlag{
				Name:  "pointer",
				Usage: "inspect a non-owning pointer to a scratch buffer",
			},
		},
		Action: inspect,
	}
}

func inspect(c *cli.Context) error {
	logger := logutil.New(c).WithField("cmd", "inspect")
	p := newPrinter(c)

	value, err := newInspectedValue(c)
	if err != nil {
		logger.WithError(err).Error("failed to construct value")
		return cli.Exit(p.formatError(err.Error()), 1)
	}
	defer value.Destroy()

	out := c.App.Writer

	_, _ = fmt.Fprintf(out, "kind:    %s\n", p.formatKind(value.Kind()))
	_, _ = fmt.Fprintf(out, "value:   %s\n", p.formatValue(value))

	_, numberErr := value.AsNumber()
	_, textErr := value.AsText()
	_, pointerErr := value.AsPointer()

	printAccessor(out, p, "number", numberErr)
	printAccessor(out, p, "text", textErr)
	printAccessor(out, p, "pointer", pointerErr)

	return nil
}

func printAccessor(out io.Writer, p printer, name string, err error) {
	result := p.formatSuccess("ok")
	if err != nil {
		result = p.formatError(err.Error())
	}
	_, _ = fmt.Fprintf(out, "%-8s %s\n", name+":", result)
}

func newInspectedValue(c *cli.Context) (*bindval.Value, error) {
	set := 0
	for _, name := range []string{"number", "text", "pointer"} {
		if c.IsSet(name) {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("at most one of --number, --text and --pointer may be given")
	}

	gauge := newGauge(c)

	switch {
	case c.IsSet("number"):
		return bindval.NewNumber(c.Float64("number")), nil

	case c.IsSet("text"):
		if c.Bool("normalize") {
			return bindval.NewNormalizedText(gauge, c.String("text"))
		}
		return bindval.NewText(gauge, c.String("text"))

	case c.IsSet("pointer"):
		buffer := make([]byte, 64)
		return bindval.NewPointer(unsafe.Pointer(&buffer[0]), nil), nil

	default:
		return &bindval.Value{}, nil
	}
}
