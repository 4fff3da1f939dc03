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

package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepository_String(t *testing.T) {
	tests := []struct {
		name string
		repo Repository
		want string
	}{
		{name: "owner and name", repo: Repository{Group: "cli", Repo: "cli"}, want: "cli/cli"},
		{name: "host is omitted", repo: Repository{Host: "ghe.example.com", Group: "platform", Repo: "web"}, want: "platform/web"},
		{name: "gitlab subgroup", repo: Repository{Group: "devops/tools", Repo: "devinfra"}, want: "devops/tools/devinfra"},
		{name: "empty group", repo: Repository{Repo: "devinfra"}, want: "devinfra"},
		{name: "empty", repo: Repository{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.repo.String())
		})
	}
}

func TestParseRepoSlug_RoundTrip(t *testing.T) {
	for _, slug := range []string{"dependabot/fetch-action", "devops/tools/devinfra"} {
		repo, err := ParseRepoSlug(slug)
		if assert.NoError(t, err) {
			assert.Equal(t, slug, repo.String())
		}
	}
}
