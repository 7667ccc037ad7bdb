// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package ssagraph supplies a program graph for the analyzer, backed by
// the SSA form of a set of Go packages.
package ssagraph

import (
	"sort"

	"github.com/google/checkreach/analyzer"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// BuildProgram builds SSA form for pkgs and returns every function in
// the program: exported and unexported functions and methods, anonymous
// functions, instantiations of generics, and synthetic wrappers.
func BuildProgram(pkgs []*packages.Package) map[*ssa.Function]bool {
	prog, _ := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
	prog.Build()
	return ssautil.AllFunctions(prog)
}

// Graph adapts an SSA program to the analyzer's graph interfaces.
// Every handle is interned during New, so the same function or block is
// always represented by the same value; the Graph is immutable
// afterwards and safe for the concurrent explorers that CheckEntries
// starts.
type Graph struct {
	byName map[string]*function
}

// New returns a Graph over the given functions.  Each function is
// indexed under the display name the resolver gives it; if two
// functions resolve to the same display name, the one with the lexically
// smaller symbol is indexed.  A nil resolver indexes raw symbol names.
func New(fns map[*ssa.Function]bool, resolver analyzer.Resolver) *Graph {
	byFn := make(map[*ssa.Function]*function, len(fns))
	intern := func(fn *ssa.Function) *function {
		h := byFn[fn]
		if h == nil {
			h = &function{symbol: fn.String()}
			byFn[fn] = h
		}
		return h
	}
	ordered := make([]*ssa.Function, 0, len(fns))
	for fn := range fns {
		ordered = append(ordered, fn)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].String() < ordered[j].String()
	})
	for _, fn := range ordered {
		h := intern(fn)
		if len(fn.Blocks) == 0 {
			continue
		}
		blocks := make(map[*ssa.BasicBlock]*block, len(fn.Blocks))
		for _, b := range fn.Blocks {
			blocks[b] = &block{}
		}
		for _, b := range fn.Blocks {
			hb := blocks[b]
			for _, instr := range b.Instrs {
				site, ok := instr.(ssa.CallInstruction)
				if !ok {
					continue
				}
				var target *function
				if callee := site.Common().StaticCallee(); callee != nil {
					target = intern(callee)
				}
				hb.sites = append(hb.sites, callSite{target: target})
			}
			for _, succ := range b.Succs {
				hb.succs = append(hb.succs, blocks[succ])
			}
		}
		h.entry = blocks[fn.Blocks[0]]
	}

	handles := make([]*function, 0, len(byFn))
	for _, h := range byFn {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool {
		return handles[i].symbol < handles[j].symbol
	})
	g := &Graph{byName: make(map[string]*function, len(handles))}
	for _, h := range handles {
		name := h.symbol
		if resolver != nil {
			name = resolver.DisplayName(h)
		}
		if _, ok := g.byName[name]; !ok {
			g.byName[name] = h
		}
	}
	return g
}

// LookupFunction implements analyzer.Graph.
func (g *Graph) LookupFunction(name string) analyzer.Function {
	if h := g.byName[name]; h != nil {
		return h
	}
	return nil
}

type function struct {
	symbol string
	entry  *block
}

// Symbol implements analyzer.Function.
func (f *function) Symbol() string { return f.symbol }

// HasBody implements analyzer.Function.
func (f *function) HasBody() bool { return f.entry != nil }

// EntryBlock implements analyzer.Function.
func (f *function) EntryBlock() analyzer.Block { return f.entry }

type block struct {
	sites []analyzer.CallSite
	succs []analyzer.Block
}

// CallSites implements analyzer.Block.
func (b *block) CallSites() []analyzer.CallSite { return b.sites }

// Successors implements analyzer.Block.
func (b *block) Successors() []analyzer.Block { return b.succs }

type callSite struct {
	target *function
}

// ResolvedTarget implements analyzer.CallSite.
func (c callSite) ResolvedTarget() analyzer.Function {
	if c.target == nil {
		return nil
	}
	return c.target
}
