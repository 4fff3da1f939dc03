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

package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v58/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/git"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
)

// RESTFetcher lists pull requests through the GitHub REST API.
// The list endpoint carries no CI information, so check runs and the
// combined commit status are requested for every matching head commit.
type RESTFetcher struct {
	client  *gogithub.Client
	host    string
	author  string
	limit   int
	limiter *rate.Limiter
}

// NewRESTFetcher creates a REST fetcher.
// baseURL is only needed for GitHub Enterprise.
func NewRESTFetcher(baseURL, token, author string, limit int) (*RESTFetcher, error) {
	var client *gogithub.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = gogithub.NewClient(oauth2.NewClient(context.Background(), ts))
	} else {
		client = gogithub.NewClient(nil)
	}

	if baseURL != "" && baseURL != "https://api.github.com" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub enterprise URL: %w", err)
		}
	}

	return &RESTFetcher{
		client: client,
		host:   hostOf(baseURL, defaultGitHubHost),
		author: author,
		limit:  limit,
		// two requests per pull request, kept under the secondary rate limit
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
	}, nil
}

// ListPullRequests implements Fetcher
func (f *RESTFetcher) ListPullRequests(ctx context.Context, repo string) ([]types.PullRequest, error) {
	slug, err := git.ParseRepoSlug(repo)
	if err != nil {
		return nil, err
	}
	if err := checkHost(slug, f.host); err != nil {
		return nil, err
	}

	opts := &gogithub.PullRequestListOptions{
		State:       "open",
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}

	var prs []types.PullRequest
	for {
		page, resp, err := f.client.PullRequests.List(ctx, slug.Group, slug.Repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests of %s: %w", repo, err)
		}

		for _, item := range page {
			if !sameAuthor(f.author, item.GetUser().GetLogin()) {
				continue
			}
			pr, err := f.toPullRequest(ctx, slug, item)
			if err != nil {
				return nil, err
			}
			prs = append(prs, pr)
			if f.limit > 0 && len(prs) >= f.limit {
				return prs, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return prs, nil
}

func (f *RESTFetcher) toPullRequest(ctx context.Context, slug *git.Repository, item *gogithub.PullRequest) (types.PullRequest, error) {
	pr := types.PullRequest{
		Number:    item.GetNumber(),
		Title:     item.GetTitle(),
		URL:       item.GetHTMLURL(),
		Mergeable: mergeableState(item),
	}
	for _, label := range item.Labels {
		pr.Labels = append(pr.Labels, label.GetName())
	}

	sha := item.GetHead().GetSHA()
	if sha == "" {
		return pr, nil
	}

	checks, err := f.checks(ctx, slug, sha)
	if err != nil {
		return pr, fmt.Errorf("failed to get checks of #%d: %w", pr.Number, err)
	}
	pr.StatusCheckRollup = checks
	return pr, nil
}

// checks returns the check runs followed by the legacy commit statuses of sha
func (f *RESTFetcher) checks(ctx context.Context, slug *git.Repository, sha string) ([]types.StatusCheck, error) {
	var checks []types.StatusCheck

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	checkOpts := &gogithub.ListCheckRunsOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}
	for {
		result, resp, err := f.client.Checks.ListCheckRunsForRef(ctx, slug.Group, slug.Repo, sha, checkOpts)
		if err != nil {
			return nil, err
		}
		for _, run := range result.CheckRuns {
			checks = append(checks, types.StatusCheck{
				Name:       run.GetName(),
				State:      checkState("", run.GetStatus(), run.GetConclusion()),
				Status:     strings.ToUpper(run.GetStatus()),
				Conclusion: strings.ToUpper(run.GetConclusion()),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		checkOpts.Page = resp.NextPage
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	combined, _, err := f.client.Repositories.GetCombinedStatus(ctx, slug.Group, slug.Repo, sha, &gogithub.ListOptions{PerPage: 100})
	if err != nil {
		// repositories without legacy statuses still have check runs
		logrus.Warnf("failed to get combined status of %s: %v", sha, err)
		return checks, nil
	}
	for _, status := range combined.Statuses {
		checks = append(checks, types.StatusCheck{
			Name:  status.GetContext(),
			State: checkState(status.GetState(), "", ""),
		})
	}
	return checks, nil
}

// mergeableState maps the REST mergeable flag to the GraphQL enum used by gh
func mergeableState(pr *gogithub.PullRequest) string {
	if pr.Mergeable == nil {
		return "UNKNOWN"
	}
	if *pr.Mergeable {
		return "MERGEABLE"
	}
	return "CONFLICTING"
}

var _ Fetcher = (*RESTFetcher)(nil)
