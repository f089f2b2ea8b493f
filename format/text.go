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

package format

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

const Ellipsis = "…"

// Text returns the quoted and escaped representation of the given text.
// Runes outside of printable ASCII are written as \u{hex}.
func Text(s string) string {
	var builder strings.Builder
	builder.Grow(len(s) + 2)

	builder.WriteByte('"')
	for _, r := range s {
		switch r {
		case 0:
			builder.WriteString(`\0`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		case '\\':
			builder.WriteString(`\\`)
		case '"':
			builder.WriteString(`\"`)
		default:
			if r >= 0x20 && r < 0x7f {
				builder.WriteRune(r)
			} else {
				_, _ = fmt.Fprintf(&builder, `\u{%x}`, r)
			}
		}
	}
	builder.WriteByte('"')

	return builder.String()
}

// TruncateText shortens the text to at most maxGraphemes grapheme clusters,
// appending an ellipsis if anything was cut off.
// A non-positive maximum leaves the text unchanged.
func TruncateText(s string, maxGraphemes int) string {
	prefix, truncated := truncate(s, maxGraphemes)
	if truncated {
		return prefix + Ellipsis
	}
	return prefix
}

// TextPreview returns the quoted text, shortened to at most maxGraphemes
// grapheme clusters. The ellipsis marking a cut is placed after the
// closing quote, so it cannot be mistaken for content.
func TextPreview(s string, maxGraphemes int) string {
	prefix, truncated := truncate(s, maxGraphemes)
	if truncated {
		return Text(prefix) + Ellipsis
	}
	return Text(prefix)
}

func truncate(s string, maxGraphemes int) (string, bool) {
	if maxGraphemes <= 0 || len(s) <= maxGraphemes {
		return s, false
	}

	graphemes := uniseg.NewGraphemes(s)
	count := 0
	for graphemes.Next() {
		if count == maxGraphemes {
			from, _ := graphemes.Positions()
			return s[:from], true
		}
		count++
	}

	return s, false
}
