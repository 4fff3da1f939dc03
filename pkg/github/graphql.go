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
	_ "embed"
	"fmt"

	"github.com/cli/go-gh"
	"github.com/cli/go-gh/pkg/api"
	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/git"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
)

//go:embed queries/open-prs.graphql
var openPRsQuery string

// maxGraphQLPageSize is the largest `first` accepted by the GitHub GraphQL API
const maxGraphQLPageSize = 100

// gqlDoer is the subset of api.GQLClient used by GraphQLFetcher
type gqlDoer interface {
	DoWithContext(ctx context.Context, query string, variables map[string]interface{}, response interface{}) error
}

// GraphQLFetcher lists pull requests through the GitHub GraphQL API.
// Authentication follows gh: the token argument, else GH_TOKEN or the gh keyring.
type GraphQLFetcher struct {
	client gqlDoer
	// host is the GitHub host the client talks to
	host   string
	author string
	limit  int
}

// NewGraphQLFetcher creates a fetcher backed by go-gh's GraphQL client
func NewGraphQLFetcher(host, token, author string, limit int) (*GraphQLFetcher, error) {
	opts := &api.ClientOptions{
		Host:      host,
		AuthToken: token,
	}
	client, err := gh.GQLClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}
	fetcher := newGraphQLFetcher(client, author, limit)
	if host != "" {
		fetcher.host = host
	}
	return fetcher, nil
}

func newGraphQLFetcher(client gqlDoer, author string, limit int) *GraphQLFetcher {
	return &GraphQLFetcher{
		client: client,
		host:   defaultGitHubHost,
		author: author,
		limit:  limit,
	}
}

type gqlResponse struct {
	Repository struct {
		PullRequests struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []gqlPullRequest `json:"nodes"`
		} `json:"pullRequests"`
	} `json:"repository"`
}

type gqlPullRequest struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Mergeable string `json:"mergeable"`
	Author    struct {
		Login string `json:"login"`
	} `json:"author"`
	Labels struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
	Commits struct {
		Nodes []struct {
			Commit struct {
				StatusCheckRollup *struct {
					Contexts struct {
						Nodes []ghCheck `json:"nodes"`
					} `json:"contexts"`
				} `json:"statusCheckRollup"`
			} `json:"commit"`
		} `json:"nodes"`
	} `json:"commits"`
}

// ListPullRequests implements Fetcher.
// The API cannot filter pull requests by author, so every open pull request
// is paged through until limit matching ones are found.
func (f *GraphQLFetcher) ListPullRequests(ctx context.Context, repo string) ([]types.PullRequest, error) {
	slug, err := git.ParseRepoSlug(repo)
	if err != nil {
		return nil, err
	}
	if err := checkHost(slug, f.host); err != nil {
		return nil, err
	}

	vars := map[string]interface{}{
		"owner": slug.Group,
		"name":  slug.Repo,
		"first": maxGraphQLPageSize,
		"after": nil,
	}

	var prs []types.PullRequest
	scanned := 0
	for {
		var resp gqlResponse
		if err := f.client.DoWithContext(ctx, openPRsQuery, vars, &resp); err != nil {
			return nil, fmt.Errorf("failed to query pull requests of %s: %w", repo, err)
		}

		page := resp.Repository.PullRequests
		scanned += len(page.Nodes)
		for _, node := range page.Nodes {
			if !sameAuthor(f.author, node.Author.Login) {
				continue
			}
			prs = append(prs, node.toPullRequest())
			if f.limit > 0 && len(prs) >= f.limit {
				logrus.Debugf("GraphQL limit %d reached after %d pull requests", f.limit, scanned)
				return prs, nil
			}
		}

		if !page.PageInfo.HasNextPage || page.PageInfo.EndCursor == "" {
			break
		}
		vars["after"] = page.PageInfo.EndCursor
	}

	logrus.Debugf("GraphQL returned %d pull requests, %d by %s", scanned, len(prs), f.author)
	return prs, nil
}

func (node gqlPullRequest) toPullRequest() types.PullRequest {
	pr := types.PullRequest{
		Number:    node.Number,
		Title:     node.Title,
		URL:       node.URL,
		Mergeable: node.Mergeable,
	}
	for _, label := range node.Labels.Nodes {
		pr.Labels = append(pr.Labels, label.Name)
	}
	for _, commit := range node.Commits.Nodes {
		if commit.Commit.StatusCheckRollup == nil {
			continue
		}
		for _, check := range commit.Commit.StatusCheckRollup.Contexts.Nodes {
			pr.StatusCheckRollup = append(pr.StatusCheckRollup, check.toStatusCheck())
		}
	}
	return pr
}

var _ Fetcher = (*GraphQLFetcher)(nil)
