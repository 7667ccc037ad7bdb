// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package ssagraph

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/checkreach/analyzer"
	"github.com/google/checkreach/symbols"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/go/analysis/analysistest"
	"golang.org/x/tools/go/packages"
)

var filemap = map[string]string{
	"testlib/irq.go": `package testlib

// HandleIRQ is an entry point: it reaches acquire through helper, and
// reaches preempt, which exploration must not look inside.
func HandleIRQ() {
	helper()
	preempt()
}

func helper() {
	acquire()
}

func preempt() {
	acquire()
}

func acquire() {}

// CleanEntry reaches nothing of interest.
func CleanEntry() {
	logLine("ok")
}

func logLine(string) {}

// Indirect only calls through a function value.
func Indirect(f func()) {
	f()
}

// Generic calls an instantiation of clamp.
func Generic() int {
	return clamp(3, 1, 2)
}

func clamp[T int | int64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// External calls a function declared without a Go body.
func External() {
	external()
}

func external()

// Loop recurses through itself and peer.
func Loop() {
	peer()
}

func peer() {
	Loop()
}
`,
	"testlib/stub.s": "// external is provided elsewhere.\n",
}

// setup loads the test packages, builds SSA form, and returns a Graph
// indexed with the symbols resolver.
func setup(filemap map[string]string, pkg ...string) (*Graph, error) {
	dir, cleanup, err := analysistest.WriteFiles(filemap)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return nil, fmt.Errorf("analysistest.WriteFiles: %w", err)
	}
	env := []string{"GOPATH=" + dir, "GO111MODULE=off", "GOPROXY=off"}
	cfg := &packages.Config{
		Mode: PackagesLoadModeNeeded,
		Dir:  dir,
		Env:  append(os.Environ(), env...),
	}
	pkgs, err := packages.Load(cfg, pkg...)
	if err != nil {
		return nil, fmt.Errorf("packages.Load: %w", err)
	}
	if n := packages.PrintErrors(pkgs); n > 0 {
		return nil, fmt.Errorf("packages.Load: %d errors", n)
	}
	return New(BuildProgram(pkgs), symbols.Resolver{}), nil
}

// check runs a fresh exploration from entry and returns the verdict and
// reported chains.
func check(g *Graph, sinks, blacklist []string, entry string) (bool, [][]string) {
	classifier := testClassifier{sinks: sinks, blacklist: blacklist}
	collector := &collectReporter{}
	e := analyzer.NewExplorer(g, &analyzer.Config{
		Classifier: classifier,
		Resolver:   symbols.Resolver{},
		Reporter:   collector,
	})
	return e.Explore(entry), collector.chains
}

type testClassifier struct {
	sinks     []string
	blacklist []string
}

func (c testClassifier) FunctionCategory(name string) analyzer.Category {
	for _, s := range c.sinks {
		if s == name {
			return analyzer.Sink
		}
	}
	for _, s := range c.blacklist {
		if s == name {
			return analyzer.Blacklisted
		}
	}
	return analyzer.Unspecified
}

type collectReporter struct {
	chains [][]string
}

func (r *collectReporter) Report(chain []string) {
	r.chains = append(r.chains, chain)
}

func TestExploreRealProgram(t *testing.T) {
	g, err := setup(filemap, "testlib")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	for _, tc := range []struct {
		name       string
		sinks      []string
		blacklist  []string
		entry      string
		wantOK     bool
		wantChains [][]string
	}{
		{
			name:      "chain through helper with sink pruned",
			sinks:     []string{"testlib.preempt"},
			blacklist: []string{"testlib.acquire"},
			entry:     "testlib.HandleIRQ",
			wantOK:    false,
			wantChains: [][]string{
				{"testlib.HandleIRQ", "testlib.helper", "testlib.acquire"},
			},
		},
		{
			name:      "clean entry",
			sinks:     []string{"testlib.preempt"},
			blacklist: []string{"testlib.acquire"},
			entry:     "testlib.CleanEntry",
			wantOK:    true,
		},
		{
			name:      "missing entry",
			blacklist: []string{"testlib.acquire"},
			entry:     "testlib.NoSuchFunction",
			wantOK:    true,
		},
		{
			name:      "indirect call is skipped",
			blacklist: []string{"testlib.acquire"},
			entry:     "testlib.Indirect",
			wantOK:    true,
		},
		{
			name:      "instantiated generic matches origin name",
			blacklist: []string{"testlib.clamp"},
			entry:     "testlib.Generic",
			wantOK:    false,
			wantChains: [][]string{
				{"testlib.Generic", "testlib.clamp"},
			},
		},
		{
			name:      "bodiless declaration is reachable by name",
			blacklist: []string{"testlib.external"},
			entry:     "testlib.External",
			wantOK:    false,
			wantChains: [][]string{
				{"testlib.External", "testlib.external"},
			},
		},
		{
			name:      "bodiless declaration contributes no edges",
			blacklist: []string{"testlib.acquire"},
			entry:     "testlib.External",
			wantOK:    true,
		},
		{
			name:      "mutual recursion terminates",
			blacklist: []string{"testlib.acquire"},
			entry:     "testlib.Loop",
			wantOK:    true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ok, chains := check(g, tc.sinks, tc.blacklist, tc.entry)
			if ok != tc.wantOK {
				t.Errorf("Explore(%q): got %v, want %v", tc.entry, ok, tc.wantOK)
			}
			if diff := cmp.Diff(tc.wantChains, chains); diff != "" {
				t.Errorf("Explore(%q): chain diff (-want +got):\n%s", tc.entry, diff)
			}
		})
	}
}

func TestLookupFunction(t *testing.T) {
	g, err := setup(filemap, "testlib")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	fn := g.LookupFunction("testlib.HandleIRQ")
	if fn == nil {
		t.Fatalf("LookupFunction(%q): got nil", "testlib.HandleIRQ")
	}
	if got := fn.Symbol(); got != "testlib.HandleIRQ" {
		t.Errorf("Symbol: got %q, want %q", got, "testlib.HandleIRQ")
	}
	if !fn.HasBody() {
		t.Errorf("HasBody(%q): got false, want true", "testlib.HandleIRQ")
	}
	if g.LookupFunction("testlib.NoSuchFunction") != nil {
		t.Errorf("LookupFunction(%q): got non-nil", "testlib.NoSuchFunction")
	}

	// Handles are stable: the same function is always the same value.
	if again := g.LookupFunction("testlib.HandleIRQ"); again != fn {
		t.Errorf("LookupFunction(%q): handle not stable", "testlib.HandleIRQ")
	}
}

func TestBodilessFunction(t *testing.T) {
	g, err := setup(filemap, "testlib")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	fn := g.LookupFunction("testlib.external")
	if fn == nil {
		t.Fatalf("LookupFunction(%q): got nil", "testlib.external")
	}
	if fn.HasBody() {
		t.Errorf("HasBody(%q): got true, want false", "testlib.external")
	}
}
