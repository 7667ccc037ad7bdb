// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package analyzer

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EntryResult is the outcome of exploring from one entry point.
type EntryResult struct {
	// Entry is the display name the exploration started from.
	Entry string
	// OK is false if a black-listed function was reachable from Entry.
	OK bool
	// Chains holds the witnessing chains reported during the
	// exploration, in discovery order.
	Chains [][]string
}

// CheckEntries explores from each entry point with its own Explorer, so
// no visited state is shared between entries and each result is
// identical to what a standalone run would produce.  The explorations
// run concurrently; results are returned in the order of entries.
//
// If config.Reporter is non-nil it receives every chain after all
// exploration has finished, grouped by entry in entries order, so the
// emitted output is deterministic regardless of scheduling.
func CheckEntries(graph Graph, config *Config, entries []string) []EntryResult {
	results := make([]EntryResult, len(entries))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			collector := &chainCollector{}
			cfg := *config
			cfg.Reporter = collector
			ok := NewExplorer(graph, &cfg).Explore(entry)
			results[i] = EntryResult{Entry: entry, OK: ok, Chains: collector.chains}
			return nil
		})
	}
	_ = g.Wait()
	if config.Reporter != nil {
		for _, r := range results {
			for _, chain := range r.Chains {
				config.Reporter.Report(chain)
			}
		}
	}
	return results
}

type chainCollector struct {
	chains [][]string
}

func (c *chainCollector) Report(chain []string) {
	c.chains = append(c.chains, chain)
}
