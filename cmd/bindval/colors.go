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
	"github.com/logrusorgru/aurora/v4"
	"github.com/urfave/cli/v2"

	"github.com/bindval/bindval"
	"github.com/bindval/bindval/format"
)

type printer struct {
	colors  bool
	preview int
}

func newPrinter(c *cli.Context) printer {
	return printer{
		colors:  c.Bool("color"),
		preview: c.Int("preview"),
	}
}

func (p printer) colorize(str string, color aurora.Color) string {
	if !p.colors {
		return str
	}
	return aurora.Colorize(str, color).String()
}

// formatValue renders the value, shortening text to the preview length.
func (p printer) formatValue(value *bindval.Value) string {
	var str string
	if text, err := value.AsText(); err == nil {
		str = format.TextPreview(text, p.preview)
	} else {
		str = value.String()
	}
	return p.colorize(str, aurora.YellowFg|aurora.BrightFg)
}

func (p printer) formatKind(kind bindval.Kind) string {
	return p.colorize(kind.String(), aurora.CyanFg)
}

func (p printer) formatError(message string) string {
	return p.colorize(message, aurora.RedFg|aurora.BrightFg|aurora.BoldFm)
}

func (p printer) formatSuccess(message string) string {
	return p.colorize(message, aurora.GreenFg|aurora.BrightFg)
}
