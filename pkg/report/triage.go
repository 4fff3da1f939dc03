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

// Package report renders command results for the terminal and as JSON
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/triage"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
)

const (
	// FormatText is the human readable layout
	FormatText = "text"
	// FormatJSON is the machine readable layout
	FormatJSON = "json"

	ruleWidth = 60
)

// Rule is the horizontal separator between report sections
var Rule = strings.Repeat("─", ruleWidth)

// TriageOptions controls the text layout of a triage report
type TriageOptions struct {
	// AutoMergingPreview is how many auto-merging pull requests are listed
	AutoMergingPreview int
}

// WriteTriageHeader writes the title line and the opening rule
func WriteTriageHeader(w io.Writer, repo string) error {
	_, err := fmt.Fprintf(w, "\n📦 Dependabot Triage: %s\n\n%s\n", repo, Rule)
	return err
}

// WriteTriage writes the classified pull requests.
// Empty buckets are omitted; an empty result prints a single line.
func WriteTriage(w io.Writer, result triage.Result, opts TriageOptions) error {
	if result.Total() == 0 {
		_, err := fmt.Fprint(w, "✅ No Dependabot PRs pending\n\n")
		return err
	}

	var b strings.Builder
	if len(result.Majors) > 0 {
		b.WriteString("\n🔴 Major Updates (manual review required):\n")
		writeWithURL(&b, result.Majors)
	}

	if len(result.Failing) > 0 {
		b.WriteString("\n🟡 Failing CI (fix required):\n")
		writeWithURL(&b, result.Failing)
	}

	if n := len(result.AutoMerging); n > 0 {
		preview := opts.AutoMergingPreview
		if preview <= 0 || preview > n {
			preview = n
		}
		fmt.Fprintf(&b, "\n🟢 Auto-merging (%d PRs):\n", n)
		for _, pr := range result.AutoMerging[:preview] {
			fmt.Fprintf(&b, "   %s\n", pr)
		}
		if n > preview {
			fmt.Fprintf(&b, "   ... and %d more\n", n-preview)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", Rule)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeWithURL(b *strings.Builder, prs []types.PullRequest) {
	for _, pr := range prs {
		fmt.Fprintf(b, "   %s\n", pr)
		fmt.Fprintf(b, "   └─ %s\n", pr.URL)
	}
}

// WriteBrew writes the Homebrew section.
// A non-nil err means brew could not be run.
func WriteBrew(w io.Writer, lines []string, err error) error {
	var b strings.Builder
	b.WriteString("\n🍺 Homebrew Outdated (notify only):\n")
	switch {
	case err != nil:
		b.WriteString("   (brew not available or error)\n")
	case len(lines) == 0:
		b.WriteString("   All Homebrew packages up to date\n")
	default:
		for _, line := range lines {
			fmt.Fprintf(&b, "   %s\n", line)
		}
	}
	b.WriteString("\n")

	_, werr := io.WriteString(w, b.String())
	return werr
}
