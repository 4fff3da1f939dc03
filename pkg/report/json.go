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

package report

import (
	"encoding/json"
	"io"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/brew"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/triage"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/version"
)

// TriageReport is the JSON document written by `triage --output json`
type TriageReport struct {
	Repo        string       `json:"repo"`
	Total       int          `json:"total"`
	Majors      []Entry      `json:"majors"`
	Failing     []Entry      `json:"failing"`
	AutoMerging []Entry      `json:"autoMerging"`
	Brew        *BrewSection `json:"brew,omitempty"`
}

// Entry is a pull request with its parsed version bump
type Entry struct {
	types.PullRequest `json:",inline"`
	// Bump is "dep from -> to", empty when the title has no version bump
	Bump string `json:"bump,omitempty"`
	// UpdateType is major, minor, patch, downgrade or none
	UpdateType version.UpdateType `json:"updateType,omitempty"`
}

// BrewSection lists outdated Homebrew packages
type BrewSection struct {
	Available bool           `json:"available"`
	Outdated  []brew.Package `json:"outdated"`
}

// NewTriageReport builds the JSON document of a classified result
func NewTriageReport(repo string, result triage.Result) *TriageReport {
	return &TriageReport{
		Repo:        repo,
		Total:       result.Total(),
		Majors:      entries(result.Majors),
		Failing:     entries(result.Failing),
		AutoMerging: entries(result.AutoMerging),
	}
}

// WithBrew attaches the Homebrew section
func (r *TriageReport) WithBrew(lines []string, err error) *TriageReport {
	section := &BrewSection{Available: err == nil, Outdated: []brew.Package{}}
	for _, line := range lines {
		section.Outdated = append(section.Outdated, brew.ParseLine(line))
	}
	r.Brew = section
	return r
}

func entries(prs []types.PullRequest) []Entry {
	out := make([]Entry, 0, len(prs))
	for _, pr := range prs {
		entry := Entry{PullRequest: pr}
		if bump, ok := version.ParseBump(pr.Title); ok {
			entry.Bump = bump.String()
			entry.UpdateType = bump.UpdateType()
		}
		out = append(out, entry)
	}
	return out
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
