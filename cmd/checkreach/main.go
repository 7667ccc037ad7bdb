// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// checkreach reports whether any call path in a Go program leads from a
// configured entry point to a black-listed function, stopping at
// configured sinks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/checkreach/analyzer"
	"github.com/google/checkreach/policy"
	"github.com/google/checkreach/report"
	"github.com/google/checkreach/ssagraph"
	"github.com/google/checkreach/symbols"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	"golang.org/x/tools/go/packages"
)

// common is the set of flags shared by all analysis commands.
type common struct {
	policyFile string
	entries    string
	sinks      string
	deny       string
	buildTags  string
	goos       string
	goarch     string
	verbose    bool
}

func (c *common) setFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.policyFile, "policy", "", "YAML policy file with entry_points, sinks, and blacklist")
	fs.StringVar(&c.entries, "entry", "", "comma-separated entry point names (alternative to -policy)")
	fs.StringVar(&c.sinks, "sink", "", "comma-separated sink names (alternative to -policy)")
	fs.StringVar(&c.deny, "deny", "", "comma-separated black-listed names (alternative to -policy)")
	fs.StringVar(&c.buildTags, "tags", "", "comma-separated build tags to use when loading packages")
	fs.StringVar(&c.goos, "goos", "", "GOOS value to use when loading packages")
	fs.StringVar(&c.goarch, "goarch", "", "GOARCH value to use when loading packages")
	fs.BoolVar(&c.verbose, "v", false, "enable debug logging")
}

// loadPolicy builds the policy from the -policy file or from the inline
// name flags.
func (c *common) loadPolicy() (*policy.Policy, error) {
	if c.policyFile != "" {
		if c.entries != "" || c.sinks != "" || c.deny != "" {
			return nil, fmt.Errorf("-policy cannot be combined with -entry, -sink, or -deny")
		}
		return policy.FromFile(c.policyFile)
	}
	return policy.New(splitNames(c.entries), splitNames(c.sinks), splitNames(c.deny))
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// run loads the packages matching patterns, builds the program graph,
// and explores from every configured entry point.
func (c *common) run(patterns []string) ([]analyzer.EntryResult, error) {
	if c.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	pol, err := c.loadPolicy()
	if err != nil {
		return nil, err
	}
	entryPoints := pol.EntryPoints()
	if len(entryPoints) == 0 {
		return nil, fmt.Errorf("policy has no entry points")
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	start := time.Now()
	pkgs, err := ssagraph.LoadPackages(patterns, ssagraph.LoadConfig{
		BuildTags: c.buildTags,
		GOOS:      c.goos,
		GOARCH:    c.goarch,
	})
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if n := packages.PrintErrors(pkgs); n > 0 {
		return nil, fmt.Errorf("packages contained %d errors", n)
	}
	logrus.Debugf("loaded %d packages in %v", len(pkgs), time.Since(start))

	start = time.Now()
	fns := ssagraph.BuildProgram(pkgs)
	graph := ssagraph.New(fns, symbols.Resolver{})
	logrus.Debugf("built SSA form for %d functions in %v", len(fns), time.Since(start))

	start = time.Now()
	results := analyzer.CheckEntries(graph, &analyzer.Config{
		Classifier: pol,
		Resolver:   symbols.Resolver{},
	}, entryPoints)
	logrus.Debugf("explored %d entry points in %v", len(entryPoints), time.Since(start))
	return results, nil
}

func anyFailed(results []analyzer.EntryResult) bool {
	for _, r := range results {
		if !r.OK {
			return true
		}
	}
	return false
}

// failure prints the given failure message and returns a usage-error
// exit status.  Exit status 1 is reserved for detected violations.
func failure(fmtStr string, v ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, fmtStr+"\n", v...)
	return subcommands.ExitUsageError
}

// checkCmd implements subcommands.Command for the "check" command.
type checkCmd struct {
	common
	noColor bool
}

// Name implements subcommands.Command.Name.
func (*checkCmd) Name() string {
	return "check"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*checkCmd) Synopsis() string {
	return "Check that no entry point reaches a black-listed function."
}

// Usage implements subcommands.Command.Usage.
func (*checkCmd) Usage() string {
	return `check [packages]

	Loads the named packages (./... by default), explores the call
	graph from each entry point in the policy, and prints one line
	per witnessing call chain that reaches a black-listed function.
	The exit status is 1 if any chain was found.

`
}

// SetFlags implements subcommands.Command.SetFlags.
func (c *checkCmd) SetFlags(fs *flag.FlagSet) {
	c.setFlags(fs)
	fs.BoolVar(&c.noColor, "nocolor", false, "disable colored output")
}

// Execute implements subcommands.Command.Execute.
func (c *checkCmd) Execute(ctx context.Context, fs *flag.FlagSet, args ...any) subcommands.ExitStatus {
	results, err := c.run(fs.Args())
	if err != nil {
		return failure("%v", err)
	}
	reporter := report.TextReporter{W: os.Stdout, Color: !c.noColor}
	for _, f := range report.FromResults(results) {
		reporter.Report(f.Chain)
	}
	if anyFailed(results) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// jsonCmd implements subcommands.Command for the "json" command.
type jsonCmd struct {
	common
}

// Name implements subcommands.Command.Name.
func (*jsonCmd) Name() string {
	return "json"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*jsonCmd) Synopsis() string {
	return "Run the check and print the findings as JSON."
}

// Usage implements subcommands.Command.Usage.
func (*jsonCmd) Usage() string {
	return `json [packages]

	Runs the same analysis as check and writes the findings to
	stdout as a JSON array of {entry, chain} objects.

`
}

// SetFlags implements subcommands.Command.SetFlags.
func (c *jsonCmd) SetFlags(fs *flag.FlagSet) {
	c.setFlags(fs)
}

// Execute implements subcommands.Command.Execute.
func (c *jsonCmd) Execute(ctx context.Context, fs *flag.FlagSet, args ...any) subcommands.ExitStatus {
	results, err := c.run(fs.Args())
	if err != nil {
		return failure("%v", err)
	}
	if err := report.WriteJSON(os.Stdout, report.FromResults(results)); err != nil {
		return failure("writing findings: %v", err)
	}
	if anyFailed(results) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// dotCmd implements subcommands.Command for the "dot" command.
type dotCmd struct {
	common
}

// Name implements subcommands.Command.Name.
func (*dotCmd) Name() string {
	return "dot"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*dotCmd) Synopsis() string {
	return "Run the check and print the violating chains as a Graphviz graph."
}

// Usage implements subcommands.Command.Usage.
func (*dotCmd) Usage() string {
	return `dot [packages]

	Runs the same analysis as check and writes the union of the
	witnessing call chains to stdout as a Graphviz digraph.

`
}

// SetFlags implements subcommands.Command.SetFlags.
func (c *dotCmd) SetFlags(fs *flag.FlagSet) {
	c.setFlags(fs)
}

// Execute implements subcommands.Command.Execute.
func (c *dotCmd) Execute(ctx context.Context, fs *flag.FlagSet, args ...any) subcommands.ExitStatus {
	results, err := c.run(fs.Args())
	if err != nil {
		return failure("%v", err)
	}
	if err := report.WriteDOT(os.Stdout, report.FromResults(results)); err != nil {
		return failure("writing graph: %v", err)
	}
	if anyFailed(results) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func main() {
	subcommands.Register(&checkCmd{}, "")
	subcommands.Register(&jsonCmd{}, "")
	subcommands.Register(&dotCmd{}, "")
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	flag.CommandLine.Parse(os.Args[1:])
	os.Exit(int(subcommands.Execute(context.Background())))
}
