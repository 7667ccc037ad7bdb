// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package analyzer implements the call-graph exploration at the heart of
// checkreach: a cycle-safe depth-first search from entry functions that
// stops at sink functions and reports every call chain reaching a
// black-listed function.
package analyzer

import (
	"io"
	"slices"
	"strings"
)

// Category classifies a function's display name under the configured
// policy.
type Category int

const (
	// Unspecified means the policy says nothing about the function, so
	// its callees are explored.
	Unspecified Category = iota
	// Sink means exploration stops at the function and nothing is
	// reported.
	Sink
	// Blacklisted means reaching the function from an entry point is a
	// violation.
	Blacklisted
)

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case Sink:
		return "sink"
	case Blacklisted:
		return "blacklisted"
	default:
		return "unspecified"
	}
}

// Classifier is an interface for types that map function display names
// to policy categories.
type Classifier interface {
	// FunctionCategory returns the Category for the given function
	// display name.  Examples of display names include "mutex_acquire",
	// "sync.OnceFunc", and "(*sync.Mutex).Lock".
	FunctionCategory(name string) Category
}

// Graph supplies the parts of a program that the Explorer walks: a
// function lookup by display name, and per-function control-flow graphs.
//
// Implementations must return stable handles: exposing the same
// underlying function or block twice must yield the same comparable
// interface value, because handles key the Explorer's visited sets.
// Implementations must be safe for concurrent readers.
type Graph interface {
	// LookupFunction returns the function with the given display name,
	// or nil if the program has no such function.
	LookupFunction(name string) Function
}

// Function is a handle for one function in the analyzed program.
// Identity is the handle, not the name: two distinct functions may share
// a display name.
type Function interface {
	// Symbol returns the function's raw symbol name.
	Symbol() string
	// HasBody reports whether a definition of the function is available.
	// A declaration without a body contributes no calls.
	HasBody() bool
	// EntryBlock returns the first basic block of the function's body.
	// It must be called only when HasBody returns true.
	EntryBlock() Block
}

// Block is a handle for one basic block of a function body.
type Block interface {
	// CallSites returns the block's call instructions in program order.
	CallSites() []CallSite
	// Successors returns the blocks this block's terminator can branch
	// to, in the order the program representation records them.  A block
	// with no successors ends its branch of the traversal.
	Successors() []Block
}

// CallSite is one call instruction inside a basic block.
type CallSite interface {
	// ResolvedTarget returns the statically known callee, or nil when
	// the call is indirect and no target can be resolved.
	ResolvedTarget() Function
}

// Resolver maps a function to the display name used for policy matching
// and reporting.
type Resolver interface {
	// DisplayName returns the human-readable name for fn, falling back
	// to fn.Symbol() when no richer name is available.
	DisplayName(fn Function) string
}

// Reporter receives one witnessing call chain per detected violation.
type Reporter interface {
	// Report is called with the chain of display names leading from the
	// entry point to the black-listed function.  The slice is a copy
	// that the reporter may retain.
	Report(chain []string)
}

// Config holds the collaborators for an Explorer.
type Config struct {
	// Classifier decides which display names are sinks and which are
	// black-listed.  It must not be nil.
	Classifier Classifier
	// Resolver produces display names for functions.  If nil, functions
	// are matched by their raw symbol names.
	Resolver Resolver
	// Reporter receives witnessing call chains.  If nil, violations are
	// still folded into the verdict but no chains are emitted.
	Reporter Reporter
}

// Explorer performs one policy check over one program graph.  Visited
// state accumulates across calls to Explore and is never shared between
// Explorer instances, so independent runs use independent Explorers.
// CheckEntries arranges this for multi-entry runs.
type Explorer struct {
	graph      Graph
	classifier Classifier
	resolver   Resolver
	reporter   Reporter

	visitedFunctions map[Function]bool
	visitedBlocks    map[Block]bool
	chain            []string
}

// NewExplorer returns an Explorer over graph with empty visited state.
func NewExplorer(graph Graph, config *Config) *Explorer {
	e := &Explorer{
		graph:            graph,
		classifier:       config.Classifier,
		resolver:         config.Resolver,
		reporter:         config.Reporter,
		visitedFunctions: make(map[Function]bool),
		visitedBlocks:    make(map[Block]bool),
	}
	if e.resolver == nil {
		e.resolver = symbolResolver{}
	}
	if e.reporter == nil {
		e.reporter = discardReporter{}
	}
	return e
}

// Explore reports whether the subgraph reachable from the entry point
// with the given display name is free of black-listed functions.  It
// returns false if at least one black-listed function was reached, and
// true otherwise; true means absence of violations, not absence of
// calls.  An unknown entry name is a vacuous success: the enforcement
// context is not present in this program image, which is not an error.
func (e *Explorer) Explore(entryName string) bool {
	fn := e.graph.LookupFunction(entryName)
	if fn == nil {
		return true
	}
	return e.exploreFunction(fn)
}

// exploreFunction explores every call reachable from fn's body.  It
// returns false if a black-listed function was reached.
func (e *Explorer) exploreFunction(fn Function) bool {
	if e.visitedFunctions[fn] {
		// The verdict for fn was decided by its first exploration; trust
		// it without re-entering the body or re-reporting anything found
		// inside.
		return true
	}
	name := e.resolver.DisplayName(fn)
	category := e.classifier.FunctionCategory(name)
	if category == Sink {
		// A sink ends this branch without joining the chain.  Sinks are
		// not memoized: reaching one means "stop here", not "fn is known
		// safe", so each encounter re-checks the name.
		return true
	}
	e.chain = append(e.chain, name)
	if category == Blacklisted {
		e.reporter.Report(slices.Clone(e.chain))
		e.chain = e.chain[:len(e.chain)-1]
		return false
	}
	e.visitedFunctions[fn] = true
	ok := true
	if fn.HasBody() {
		ok = e.exploreBlock(fn.EntryBlock())
	}
	e.chain = e.chain[:len(e.chain)-1]
	return ok
}

// exploreBlock explores the call sites of one basic block and then its
// control-flow successors, depth first.  A violation anywhere makes the
// result false, but exploration of the remaining sites and successors
// continues.
func (e *Explorer) exploreBlock(b Block) bool {
	if e.visitedBlocks[b] {
		return true
	}
	e.visitedBlocks[b] = true
	ok := true
	for _, site := range b.CallSites() {
		target := site.ResolvedTarget()
		if target == nil {
			// Indirect call; there is no statically known edge to follow.
			continue
		}
		if !e.exploreFunction(target) {
			ok = false
		}
	}
	for _, succ := range b.Successors() {
		if !e.exploreBlock(succ) {
			ok = false
		}
	}
	return ok
}

// ChainPreamble is the fixed prefix of every line emitted by
// LineReporter.
const ChainPreamble = "Reached a black-listed function via the following call chain:"

// LineReporter writes each witnessing chain to W as a single line: the
// fixed preamble followed by the chain's display names, space separated.
type LineReporter struct {
	W io.Writer
}

// Report implements Reporter.
func (r LineReporter) Report(chain []string) {
	var b strings.Builder
	b.WriteString(ChainPreamble)
	for _, name := range chain {
		b.WriteByte(' ')
		b.WriteString(name)
	}
	b.WriteByte('\n')
	io.WriteString(r.W, b.String())
}

type symbolResolver struct{}

func (symbolResolver) DisplayName(fn Function) string { return fn.Symbol() }

type discardReporter struct{}

func (discardReporter) Report([]string) {}
