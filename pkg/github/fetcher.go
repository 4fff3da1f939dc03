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

// Package github lists the open pull requests of a dependency update bot.
// Several providers are supported: the gh CLI, the GitHub GraphQL and REST
// APIs, and GitLab merge requests.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/config"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/git"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
)

const (
	// ProviderCLI shells out to `gh pr list`
	ProviderCLI = "gh"
	// ProviderGraphQL queries the GitHub GraphQL API through go-gh
	ProviderGraphQL = "graphql"
	// ProviderREST uses the GitHub REST API
	ProviderREST = "github"
	// ProviderGitLab lists GitLab merge requests
	ProviderGitLab = "gitlab"

	defaultGitHubHost = "github.com"
	defaultGitLabHost = "gitlab.com"
)

// Fetcher lists the open pull requests opened by the configured author
type Fetcher interface {
	// ListPullRequests returns the open pull requests of repo ("owner/name")
	ListPullRequests(ctx context.Context, repo string) ([]types.PullRequest, error)
}

// NewFetcher creates a Fetcher based on the git provider configuration
func NewFetcher(cfg config.TriageConfig, runner command.Runner) (Fetcher, error) {
	switch cfg.Git.Provider {
	case ProviderCLI, "":
		return NewCLIFetcher(runner, cfg.Author, cfg.Limit), nil
	case ProviderGraphQL:
		return NewGraphQLFetcher(cfg.GH.Host, cfg.Git.Token, cfg.Author, cfg.Limit)
	case ProviderREST:
		return NewRESTFetcher(cfg.Git.BaseURL, cfg.Git.Token, cfg.Author, cfg.Limit)
	case ProviderGitLab:
		return NewGitLabFetcher(cfg.Git.BaseURL, cfg.Git.Token, cfg.Author, cfg.Limit)
	default:
		return nil, fmt.Errorf("unsupported platform type: %s", cfg.Git.Provider)
	}
}

// sameAuthor compares bot logins across providers.
// gh reports "app/dependabot", the APIs "dependabot[bot]" or "dependabot".
func sameAuthor(want, got string) bool {
	return normalizeLogin(want) == normalizeLogin(got)
}

func normalizeLogin(login string) string {
	login = strings.ToLower(strings.TrimSpace(login))
	login = strings.TrimPrefix(login, "app/")
	return strings.TrimSuffix(login, "[bot]")
}

// checkState returns the rollup state of a check.
// Check runs carry no state, so the conclusion is used once completed
// and the upper-cased status before that.
func checkState(state, status, conclusion string) string {
	switch {
	case state != "":
		return strings.ToUpper(state)
	case conclusion != "":
		return strings.ToUpper(conclusion)
	default:
		return strings.ToUpper(status)
	}
}

// checkHost rejects a repository slug whose host differs from the host the
// API client talks to. Slugs without a host are always accepted.
func checkHost(repo *git.Repository, host string) error {
	if repo.Host == "" || strings.EqualFold(repo.Host, host) {
		return nil
	}
	return fmt.Errorf("repository %s/%s is hosted on %s but the client targets %s: set triage.git.baseURL or triage.gh.host",
		repo.Host, repo, repo.Host, host)
}

// hostOf returns the web host served by an API base URL.
// An empty or unparseable baseURL yields fallback.
func hostOf(baseURL, fallback string) string {
	if baseURL == "" {
		return fallback
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return fallback
	}
	return strings.TrimPrefix(u.Hostname(), "api.")
}
