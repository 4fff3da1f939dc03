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
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ParseRepoURL extracts the repository name and owner from a Git repository URL.
// It supports various formats including:
// - https://github.com/example/toolbox.git => group: example, repo: toolbox
// - https://gitlab.example.com/group/subgroup/repo.git => group: group/subgroup, repo: repo
// - git@github.com:example/toolbox.git => group: example, repo: toolbox
func ParseRepoURL(repoURL string) (*Repository, error) {
	if host, path, ok := scpLike(repoURL); ok {
		repoURL = "ssh://" + host + "/" + path
	}

	u, err := url.Parse(repoURL)
	if err != nil {
		return nil, err
	}

	repo, err := splitPath(u.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid repository URL %q: %w", repoURL, err)
	}
	repo.Host = u.Host
	return repo, nil
}

// ParseRepoSlug parses an "owner/name" slug as accepted by `gh --repo`.
// A leading host ("github.example.com/owner/name") is kept in Host and
// GitLab subgroups ("group/subgroup/name") are kept in Group.
func ParseRepoSlug(slug string) (*Repository, error) {
	slug = strings.TrimSpace(slug)
	if strings.Contains(slug, "://") || strings.HasPrefix(slug, "git@") {
		return ParseRepoURL(slug)
	}

	segments := strings.Split(strings.Trim(slug, "/"), "/")
	var host string
	if len(segments) >= 3 && strings.Contains(segments[0], ".") {
		host = segments[0]
		segments = segments[1:]
	}
	if len(segments) < 2 {
		return nil, fmt.Errorf("invalid repository %q: expected owner/name", slug)
	}
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("invalid repository %q: empty path segment", slug)
		}
	}

	last := len(segments) - 1
	return &Repository{
		Host:  host,
		Group: strings.Join(segments[:last], "/"),
		Repo:  strings.TrimSuffix(segments[last], ".git"),
	}, nil
}

func splitPath(path string) (*Repository, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 {
		return nil, errors.New("not enough path segments")
	}

	group := strings.Join(segments[:len(segments)-1], "/")
	repo := strings.TrimSuffix(segments[len(segments)-1], ".git")
	return &Repository{Group: group, Repo: repo}, nil
}

// scpLike matches "user@host:path" remotes
func scpLike(remote string) (host, path string, ok bool) {
	if strings.Contains(remote, "://") {
		return "", "", false
	}
	at := strings.Index(remote, "@")
	colon := strings.Index(remote, ":")
	if at < 0 || colon < at {
		return "", "", false
	}
	return remote[at+1 : colon], remote[colon+1:], true
}
