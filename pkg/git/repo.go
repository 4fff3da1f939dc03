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

import "strings"

// Repository identifies a repository on a git hosting service
type Repository struct {
	// Host is the hosting service, e.g. github.com; empty for bare slugs
	Host string
	// Group is the owner, or the GitLab group path including subgroups
	Group string
	// Repo is the repository name
	Repo string
}

// String returns the repository in the format "group/repo", as accepted by
// the GitHub and GitLab APIs. The host is not included.
func (r *Repository) String() string {
	return strings.Trim(r.Group+"/"+r.Repo, "/")
}
