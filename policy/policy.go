// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package policy defines the function name sets that configure a
// reachability check.
package policy

import (
	"fmt"
	"os"
	"slices"

	"github.com/google/checkreach/analyzer"
	"gopkg.in/yaml.v2"
)

// Policy holds three disjoint sets of function display names: the entry
// points exploration starts from, the sinks where it stops quietly, and
// the black-listed names it must not reach.  Policy implements
// analyzer.Classifier.
type Policy struct {
	entryPoints []string
	sinks       map[string]bool
	blacklist   map[string]bool
}

// New validates the three name sets and returns a Policy.  Names must
// not repeat within a set or appear in more than one set.
func New(entryPoints, sinkNames, blacklistNames []string) (*Policy, error) {
	seen := make(map[string]string)
	add := func(set string, names []string) error {
		for _, name := range names {
			if prev, ok := seen[name]; ok {
				if prev == set {
					return fmt.Errorf("duplicate name %q in %s", name, set)
				}
				return fmt.Errorf("name %q appears in both %s and %s", name, prev, set)
			}
			seen[name] = set
		}
		return nil
	}
	if err := add("entry_points", entryPoints); err != nil {
		return nil, err
	}
	if err := add("sinks", sinkNames); err != nil {
		return nil, err
	}
	if err := add("blacklist", blacklistNames); err != nil {
		return nil, err
	}
	p := &Policy{
		entryPoints: slices.Clone(entryPoints),
		sinks:       make(map[string]bool),
		blacklist:   make(map[string]bool),
	}
	for _, name := range sinkNames {
		p.sinks[name] = true
	}
	for _, name := range blacklistNames {
		p.blacklist[name] = true
	}
	return p, nil
}

// file is the on-disk YAML form of a Policy.
type file struct {
	EntryPoints []string `yaml:"entry_points"`
	Sinks       []string `yaml:"sinks"`
	Blacklist   []string `yaml:"blacklist"`
}

// Parse reads a Policy from YAML text.  Unknown fields are errors, as
// are the name collisions New rejects.
func Parse(data []byte) (*Policy, error) {
	var f file
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parsing policy: %w", err)
	}
	return New(f.EntryPoints, f.Sinks, f.Blacklist)
}

// FromFile reads a Policy from the YAML file at path.
func FromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy: %w", err)
	}
	return Parse(data)
}

// EntryPoints returns the configured entry point names in the order
// they were given.
func (p *Policy) EntryPoints() []string {
	return slices.Clone(p.entryPoints)
}

// FunctionCategory implements analyzer.Classifier.
func (p *Policy) FunctionCategory(name string) analyzer.Category {
	switch {
	case p.sinks[name]:
		return analyzer.Sink
	case p.blacklist[name]:
		return analyzer.Blacklisted
	}
	return analyzer.Unspecified
}
