// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package report renders reachability findings for people and tools.
package report

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/google/checkreach/analyzer"
)

// Finding is one reported violation: the entry point whose exploration
// reached a black-listed function, and the witnessing call chain from
// that entry point to it.
type Finding struct {
	Entry string   `json:"entry"`
	Chain []string `json:"chain"`
}

// String returns the single-line diagnostic form of the finding.
func (f Finding) String() string {
	return analyzer.ChainPreamble + " " + strings.Join(f.Chain, " ")
}

// FromResults flattens per-entry results into findings, preserving the
// result order and each entry's chain discovery order.
func FromResults(results []analyzer.EntryResult) []Finding {
	var findings []Finding
	for _, r := range results {
		for _, chain := range r.Chains {
			findings = append(findings, Finding{Entry: r.Entry, Chain: chain})
		}
	}
	return findings
}

// WriteJSON writes findings to w as an indented JSON array.  An empty
// set of findings is written as an empty array rather than null.
func WriteJSON(w io.Writer, findings []Finding) error {
	if findings == nil {
		findings = []Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}
