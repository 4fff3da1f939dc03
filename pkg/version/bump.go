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

// Package version parses dependency bumps out of PR titles
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// UpdateType describes how far a version bump moves
type UpdateType string

const (
	UpdateMajor     UpdateType = "major"
	UpdateMinor     UpdateType = "minor"
	UpdatePatch     UpdateType = "patch"
	UpdateDowngrade UpdateType = "downgrade"
	UpdateNone      UpdateType = "none"
)

// Triple is a major.minor.patch version exactly as written in a PR title.
// Components keep their literal digits, so "01" and "1" are different.
type Triple struct {
	Major string `json:"major"`
	Minor string `json:"minor"`
	Patch string `json:"patch"`
}

// String returns the dotted form of the triple
func (t Triple) String() string {
	return t.Major + "." + t.Minor + "." + t.Patch
}

// Bump is a dependency version change parsed from a PR title
type Bump struct {
	// Dependency is the word right before "from", empty if the title has none
	Dependency string `json:"dependency,omitempty"`
	From       Triple `json:"from"`
	To         Triple `json:"to"`
}

// String returns a human readable form of the bump
func (b Bump) String() string {
	if b.Dependency == "" {
		return fmt.Sprintf("%s -> %s", b.From, b.To)
	}
	return fmt.Sprintf("%s %s -> %s", b.Dependency, b.From, b.To)
}

// IsMajor reports whether the major components differ.
// The comparison is textual: "4" vs "04" counts as a major change.
func (b Bump) IsMajor() bool {
	return b.From.Major != b.To.Major
}

// UpdateType classifies the bump using semantic version ordering
func (b Bump) UpdateType() UpdateType {
	from, errFrom := semver.NewVersion(b.From.String())
	to, errTo := semver.NewVersion(b.To.String())
	if errFrom != nil || errTo != nil {
		if b.IsMajor() {
			return UpdateMajor
		}
		return UpdateNone
	}

	if to.LessThan(from) {
		return UpdateDowngrade
	}

	switch {
	case to.Major() != from.Major():
		return UpdateMajor
	case to.Minor() != from.Minor():
		return UpdateMinor
	case to.Patch() != from.Patch():
		return UpdatePatch
	default:
		return UpdateNone
	}
}

const (
	fromKeyword = "from "
	toKeyword   = " to "
)

// ParseBump looks for the first "from X.Y.Z to A.B.C" substring in title.
// The boolean result is false when no such substring exists.
func ParseBump(title string) (Bump, bool) {
	offset := 0
	for {
		idx := strings.Index(title[offset:], fromKeyword)
		if idx < 0 {
			return Bump{}, false
		}
		start := offset + idx
		if bump, ok := parseBumpAt(title, start+len(fromKeyword)); ok {
			bump.Dependency = dependencyBefore(title, start)
			return bump, true
		}
		offset = start + 1
	}
}

// parseBumpAt parses "X.Y.Z to A.B.C" starting at pos
func parseBumpAt(s string, pos int) (Bump, bool) {
	from, pos, ok := parseTriple(s, pos)
	if !ok {
		return Bump{}, false
	}
	if !strings.HasPrefix(s[pos:], toKeyword) {
		return Bump{}, false
	}
	to, _, ok := parseTriple(s, pos+len(toKeyword))
	if !ok {
		return Bump{}, false
	}
	return Bump{From: from, To: to}, true
}

func parseTriple(s string, pos int) (Triple, int, bool) {
	var parts [3]string
	for i := range parts {
		if i > 0 {
			if pos >= len(s) || s[pos] != '.' {
				return Triple{}, pos, false
			}
			pos++
		}
		digits, next := scanDigits(s, pos)
		if digits == "" {
			return Triple{}, pos, false
		}
		parts[i] = digits
		pos = next
	}
	return Triple{Major: parts[0], Minor: parts[1], Patch: parts[2]}, pos, true
}

func scanDigits(s string, pos int) (string, int) {
	end := pos
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[pos:end], end
}

// dependencyBefore returns the whitespace separated word that ends right before end
func dependencyBefore(s string, end int) string {
	fields := strings.Fields(s[:end])
	if len(fields) == 0 {
		return ""
	}
	last := fields[len(fields)-1]
	if strings.EqualFold(last, "bump") {
		return ""
	}
	return last
}
