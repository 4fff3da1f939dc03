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

	"github.com/sirupsen/logrus"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/git"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
)

// GitLabFetcher lists the merge requests opened by a bot user on GitLab.
// The head pipeline status becomes the single entry of the check rollup.
type GitLabFetcher struct {
	client *gitlab.Client
	host   string
	author string
	limit  int
}

// NewGitLabFetcher creates a GitLab merge request fetcher
func NewGitLabFetcher(baseURL, token, author string, limit int) (*GitLabFetcher, error) {
	var opts []gitlab.ClientOptionFunc
	if baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(baseURL))
	}
	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &GitLabFetcher{
		client: client,
		host:   hostOf(baseURL, defaultGitLabHost),
		author: author,
		limit:  limit,
	}, nil
}

// ListPullRequests implements Fetcher
func (f *GitLabFetcher) ListPullRequests(ctx context.Context, repo string) ([]types.PullRequest, error) {
	slug, err := git.ParseRepoSlug(repo)
	if err != nil {
		return nil, err
	}
	if err := checkHost(slug, f.host); err != nil {
		return nil, err
	}
	pid := slug.String()

	perPage := f.limit
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	state := "opened"
	author := strings.TrimSuffix(f.author, "[bot]")
	opts := &gitlab.ListProjectMergeRequestsOptions{
		State:          &state,
		AuthorUsername: &author,
		ListOptions:    gitlab.ListOptions{PerPage: perPage},
	}

	var prs []types.PullRequest
	for {
		mrs, resp, err := f.client.MergeRequests.ListProjectMergeRequests(pid, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list merge requests of %s: %w", repo, err)
		}

		for _, mr := range mrs {
			pr, err := f.toPullRequest(ctx, pid, mr)
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

	logrus.Debugf("GitLab returned %d merge requests by %s", len(prs), author)
	return prs, nil
}

func (f *GitLabFetcher) toPullRequest(ctx context.Context, pid string, mr *gitlab.MergeRequest) (types.PullRequest, error) {
	pr := types.PullRequest{
		Number:    mr.IID,
		Title:     mr.Title,
		URL:       mr.WebURL,
		Labels:    types.Labels(mr.Labels),
		Mergeable: mergeStatus(mr.DetailedMergeStatus),
	}

	detail, _, err := f.client.MergeRequests.GetMergeRequest(pid, mr.IID, nil, gitlab.WithContext(ctx))
	if err != nil {
		return pr, fmt.Errorf("failed to get merge request !%d: %w", mr.IID, err)
	}
	if detail.HeadPipeline != nil {
		pr.StatusCheckRollup = []types.StatusCheck{{
			Name:   "pipeline",
			State:  pipelineState(detail.HeadPipeline.Status),
			Status: detail.HeadPipeline.Status,
		}}
	}
	return pr, nil
}

// pipelineState maps a GitLab pipeline status to a rollup state
func pipelineState(status string) string {
	switch status {
	case "success":
		return types.CheckStateSuccess
	case "failed":
		return types.CheckStateFailure
	case "canceled", "skipped":
		return strings.ToUpper(status)
	default:
		return types.CheckStatePending
	}
}

func mergeStatus(detailed string) string {
	switch detailed {
	case "mergeable":
		return "MERGEABLE"
	case "broken_status", "conflict":
		return "CONFLICTING"
	default:
		return "UNKNOWN"
	}
}

var _ Fetcher = (*GitLabFetcher)(nil)
