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
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
)

// prListFields are the `gh pr list --json` fields decoded into types.PullRequest
const prListFields = "number,title,url,labels,mergeable,statusCheckRollup"

// CLIFetcher lists pull requests with `gh pr list`
type CLIFetcher struct {
	runner command.Runner
	author string
	limit  int
}

// NewCLIFetcher creates a fetcher that runs gh through runner
func NewCLIFetcher(runner command.Runner, author string, limit int) *CLIFetcher {
	return &CLIFetcher{
		runner: runner,
		author: author,
		limit:  limit,
	}
}

// ghPullRequest is the shape of one `gh pr list --json` item
type ghPullRequest struct {
	Number            int          `json:"number"`
	Title             string       `json:"title"`
	URL               string       `json:"url"`
	Labels            types.Labels `json:"labels"`
	Mergeable         string       `json:"mergeable"`
	StatusCheckRollup []ghCheck    `json:"statusCheckRollup"`
}

// ghCheck is either a CheckRun or a StatusContext
type ghCheck struct {
	TypeName   string `json:"__typename"`
	Name       string `json:"name"`
	Context    string `json:"context"`
	State      string `json:"state"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
}

func (c ghCheck) toStatusCheck() types.StatusCheck {
	name := c.Name
	if name == "" {
		name = c.Context
	}
	return types.StatusCheck{
		Name:       name,
		State:      checkState(c.State, c.Status, c.Conclusion),
		Status:     c.Status,
		Conclusion: c.Conclusion,
	}
}

// ListPullRequests implements Fetcher
func (f *CLIFetcher) ListPullRequests(ctx context.Context, repo string) ([]types.PullRequest, error) {
	args := []string{"pr", "list"}
	if repo != "" {
		args = append(args, "--repo", repo)
	}
	args = append(args,
		"--author", f.author,
		"--state", "open",
		"--limit", strconv.Itoa(f.limit),
		"--json", prListFields,
	)

	out, err := f.runner.Run(ctx, "gh", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	prs, err := ParsePullRequests(out)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("gh returned %d pull requests for %s", len(prs), repo)
	return prs, nil
}

// ParsePullRequests decodes the JSON array printed by `gh pr list --json`
func ParsePullRequests(data []byte) ([]types.PullRequest, error) {
	var items []ghPullRequest
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode gh output: %w", err)
	}

	prs := make([]types.PullRequest, 0, len(items))
	for _, item := range items {
		pr := types.PullRequest{
			Number:    item.Number,
			Title:     item.Title,
			URL:       item.URL,
			Labels:    item.Labels,
			Mergeable: item.Mergeable,
		}
		for _, check := range item.StatusCheckRollup {
			pr.StatusCheckRollup = append(pr.StatusCheckRollup, check.toStatusCheck())
		}
		prs = append(prs, pr)
	}
	return prs, nil
}

var _ Fetcher = (*CLIFetcher)(nil)
