/*
Copyright 2025 The AlaudaDevops Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package brew lists outdated Homebrew packages
package brew

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command"
)

// Package is one line of `brew outdated --verbose`,
// e.g. "node (20.10.0) < 21.5.0"
type Package struct {
	Name      string `json:"name"`
	Installed string `json:"installed,omitempty"`
	Latest    string `json:"latest,omitempty"`
	// Line is the raw output line
	Line string `json:"line"`
}

// Outdated runs `brew outdated --verbose` and returns the first limit
// non-empty lines. An error means brew is not installed or failed.
func Outdated(ctx context.Context, runner command.Runner, limit int) ([]string, error) {
	out, err := runner.Run(ctx, "brew", "outdated", "--verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to list outdated Homebrew packages: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if limit > 0 && len(lines) >= limit {
			break
		}
	}
	return lines, nil
}

// ParseLine splits a verbose outdated line into its parts.
// Lines that do not follow the "name (installed) < latest" layout keep only Name.
func ParseLine(line string) Package {
	pkg := Package{Line: line}

	name, rest, ok := strings.Cut(line, " (")
	pkg.Name = strings.TrimSpace(name)
	if !ok {
		return pkg
	}

	installed, latest, ok := strings.Cut(rest, ") < ")
	if !ok {
		return pkg
	}
	pkg.Installed = strings.TrimSpace(installed)
	pkg.Latest = strings.TrimSpace(latest)
	return pkg
}
