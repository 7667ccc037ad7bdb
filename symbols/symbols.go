// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package symbols resolves raw function symbols to the display names
// used for policy matching and reporting.
package symbols

import (
	"strings"

	"github.com/google/checkreach/analyzer"
	"github.com/ianlancetaylor/demangle"
)

// Resolver implements analyzer.Resolver.  Two transforms are applied in
// order: instantiation arguments are stripped, so "pkg.F[int]" matches
// a policy entry written "pkg.F", and C++-mangled names that reach the
// symbol table through cgo or assembly stubs are demangled.  A name
// needing neither transform passes through unchanged.
type Resolver struct{}

// DisplayName implements analyzer.Resolver.
func (Resolver) DisplayName(fn analyzer.Function) string {
	return Canonical(fn.Symbol())
}

// Canonical returns the display name for one raw symbol name.
func Canonical(symbol string) string {
	return demangle.Filter(stripTypeParams(symbol))
}

// stripTypeParams removes bracketed instantiation arguments from a
// symbol name: "pkg.Map[string, int]" becomes "pkg.Map", and
// "(*pkg.Set[int]).Add" becomes "(*pkg.Set).Add".  Brackets nest for
// composite type arguments.
func stripTypeParams(name string) string {
	if !strings.ContainsRune(name, '[') {
		return name
	}
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			} else {
				b.WriteRune(r)
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
