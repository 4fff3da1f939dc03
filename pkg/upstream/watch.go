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

package upstream

import (
	"path"
	"strings"

	goignore "github.com/monochromegane/go-gitignore"
)

// WatchMatcher selects changed files with gitignore style patterns
type WatchMatcher struct {
	matcher goignore.IgnoreMatcher
	empty   bool
}

// NewWatchMatcher compiles patterns. With no patterns every file matches.
func NewWatchMatcher(patterns []string) *WatchMatcher {
	if len(patterns) == 0 {
		return &WatchMatcher{matcher: goignore.DummyIgnoreMatcher(true), empty: true}
	}
	return &WatchMatcher{
		matcher: goignore.NewGitIgnoreFromReader(".", strings.NewReader(strings.Join(patterns, "\n"))),
	}
}

// Match reports whether file, or one of its parent directories, is watched.
// file is slash separated and relative to the checkout, as printed by git.
func (w *WatchMatcher) Match(file string) bool {
	if w.empty {
		return true
	}
	if w.matcher.Match(file, false) {
		return true
	}
	for dir := path.Dir(file); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if w.matcher.Match(dir, true) {
			return true
		}
	}
	return false
}

// Filter returns the watched files in input order
func (w *WatchMatcher) Filter(files []string) []string {
	var watched []string
	for _, file := range files {
		if w.Match(file) {
			watched = append(watched, file)
		}
	}
	return watched
}
