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
	"os"

	"github.com/lthibault/log"
	"github.com/urfave/cli/v2"

	"github.com/bindval/bindval"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		// Logging
		&cli.StringFlag{
			Name:    "logfmt",
			Aliases: []string{"f"},
			Usage:   "`format` logs as text, json or none",
			Value:   "text",
			EnvVars: []string{"BINDVAL_LOGFMT"},
		},
		&cli.StringFlag{
			Name:    "loglvl",
			Usage:   "set logging `level` to trace, debug, info, warn, error or fatal",
			Value:   "info",
			EnvVars: []string{"BINDVAL_LOGLVL"},
		},
		// Output
		&cli.BoolFlag{
			Name:    "color",
			Usage:   "colorize values and errors",
			Value:   true,
			EnvVars: []string{"BINDVAL_COLOR"},
		},
		&cli.IntFlag{
			Name:        "preview",
			Usage:       "show at most `n` grapheme clusters of text values",
			EnvVars:     []string{"BINDVAL_PREVIEW"},
			DefaultText: "unlimited",
		},
		// Metering
		&cli.Uint64Flag{
			Name:        "memory-limit",
			Usage:       "refuse text allocations beyond `bytes` in total",
			EnvVars:     []string{"BINDVAL_MEMORY_LIMIT"},
			DefaultText: "unlimited",
		},
	}
}

func main() {
	run(newApp())
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "bindval",
		Usage:     "exercise tagged union binding values",
		UsageText: "bindval [global options] command [command options] [arguments...]",
		Version:   bindval.Version,
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			smokeCommand(),
			inspectCommand(),
		},
	}
}

func run(app *cli.App) {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
