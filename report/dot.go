// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteDOT writes the union of the findings' chains to w as a Graphviz
// digraph.  Entry points are drawn as double octagons and black-listed
// functions as filled boxes; an edge appears once no matter how many
// chains share it.  Output is deterministic: nodes and edges are sorted.
func WriteDOT(w io.Writer, findings []Finding) error {
	entries := make(map[string]bool)
	targets := make(map[string]bool)
	type edge struct{ from, to string }
	edges := make(map[edge]bool)
	for _, f := range findings {
		if len(f.Chain) == 0 {
			continue
		}
		entries[f.Chain[0]] = true
		targets[f.Chain[len(f.Chain)-1]] = true
		for i := 1; i < len(f.Chain); i++ {
			edges[edge{f.Chain[i-1], f.Chain[i]}] = true
		}
	}

	var b strings.Builder
	b.WriteString("digraph checkreach {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, fontsize=10];\n")
	for _, name := range sortedNames(entries) {
		fmt.Fprintf(&b, "  %q [shape=doubleoctagon];\n", name)
	}
	for _, name := range sortedNames(targets) {
		fmt.Fprintf(&b, "  %q [style=filled, fillcolor=salmon];\n", name)
	}
	sorted := make([]edge, 0, len(edges))
	for e := range edges {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].from != sorted[j].from {
			return sorted[i].from < sorted[j].from
		}
		return sorted[i].to < sorted[j].to
	})
	for _, e := range sorted {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.from, e.to)
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
