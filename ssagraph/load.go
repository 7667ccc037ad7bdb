// Copyright 2026 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package ssagraph

import (
	"os"

	"golang.org/x/tools/go/packages"
)

// LoadConfig specifies the build tags, GOOS value, and GOARCH value to use
// when loading packages.  These will be used to determine when a file's build
// constraint is satisfied.  See
// https://pkg.go.dev/cmd/go#hdr-Build_constraints for more information.
type LoadConfig struct {
	BuildTags string
	GOOS      string
	GOARCH    string
}

// PackagesLoadModeNeeded is a packages.LoadMode that has all the bits set for
// the information this package uses to build SSA form for the analyzed
// program.  Users should load packages using this LoadMode (or a superset.)
const PackagesLoadModeNeeded packages.LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedTypesSizes

// LoadPackages loads the packages matching the given patterns and their
// transitive dependencies.
func LoadPackages(patterns []string, lcfg LoadConfig) ([]*packages.Package, error) {
	cfg := &packages.Config{Mode: PackagesLoadModeNeeded}
	if lcfg.BuildTags != "" {
		cfg.BuildFlags = []string{"-tags=" + lcfg.BuildTags}
	}
	if lcfg.GOOS != "" || lcfg.GOARCH != "" {
		env := append([]string(nil), os.Environ()...)
		if lcfg.GOOS != "" {
			env = append(env, "GOOS="+lcfg.GOOS)
		}
		if lcfg.GOARCH != "" {
			env = append(env, "GOARCH="+lcfg.GOARCH)
		}
		cfg.Env = env
	}
	return packages.Load(cfg, patterns...)
}
