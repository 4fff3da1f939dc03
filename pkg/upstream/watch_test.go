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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchMatcher(t *testing.T) {
	matcher := NewWatchMatcher([]string{"docker/", "Dockerfile", "*.md"})

	tests := map[string]bool{
		"Dockerfile":           true,
		"docker/entrypoint.sh": true,
		"README.md":            true,
		"src/index.ts":         false,
		"package.json":         false,
	}
	for file, want := range tests {
		assert.Equal(t, want, matcher.Match(file), file)
	}
}

func TestWatchMatcher_Filter(t *testing.T) {
	matcher := NewWatchMatcher([]string{"docker/", "Dockerfile"})

	got := matcher.Filter([]string{"src/a.ts", "docker/compose.yml", "Dockerfile", "src/b.ts"})
	assert.Equal(t, []string{"docker/compose.yml", "Dockerfile"}, got)
}

func TestWatchMatcher_NoPatterns(t *testing.T) {
	matcher := NewWatchMatcher(nil)

	assert.True(t, matcher.Match("anything/at/all.go"))
	assert.Equal(t, []string{"a", "b"}, matcher.Filter([]string{"a", "b"}))
}
