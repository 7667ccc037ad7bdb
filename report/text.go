// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/checkreach/analyzer"
)

var (
	colorPreamble = color.New(color.Bold, color.FgHiRed).SprintFunc()
	colorTarget   = color.New(color.Bold).SprintFunc()
)

// TextReporter writes each witnessing chain to W as a single line.
// With Color set, the preamble and the black-listed function name are
// highlighted; fatih/color disables the escape codes globally when the
// process is not writing to a terminal.
type TextReporter struct {
	W     io.Writer
	Color bool
}

// Report implements analyzer.Reporter.
func (r TextReporter) Report(chain []string) {
	if !r.Color {
		fmt.Fprintf(r.W, "%s %s\n", analyzer.ChainPreamble, strings.Join(chain, " "))
		return
	}
	names := strings.Join(chain[:len(chain)-1], " ")
	target := chain[len(chain)-1]
	if names != "" {
		names += " "
	}
	fmt.Fprintf(r.W, "%s %s%s\n", colorPreamble(analyzer.ChainPreamble), names, colorTarget(target))
}
