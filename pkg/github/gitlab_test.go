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
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
)

func newGitLabAPI(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/merge_requests"):
			assert.Equal(t, "opened", r.URL.Query().Get("state"))
			assert.Equal(t, "dependabot", r.URL.Query().Get("author_username"))
			fmt.Fprint(w, `[
				{"iid": 3, "title": "Bump rails from 6.1.7 to 7.0.8", "web_url": "https://gitlab.example.com/infra/gateway/-/merge_requests/3",
				 "labels": ["dependencies"], "detailed_merge_status": "mergeable"},
				{"iid": 4, "title": "Bump rack from 2.2.6 to 2.2.8", "web_url": "https://gitlab.example.com/infra/gateway/-/merge_requests/4",
				 "labels": [], "detailed_merge_status": "conflict"}
			]`)
		case strings.HasSuffix(r.URL.Path, "/merge_requests/3"):
			fmt.Fprint(w, `{"iid": 3, "head_pipeline": {"id": 90, "status": "success"}}`)
		case strings.HasSuffix(r.URL.Path, "/merge_requests/4"):
			fmt.Fprint(w, `{"iid": 4, "head_pipeline": {"id": 91, "status": "failed"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGitLabFetcher_ListPullRequests(t *testing.T) {
	server := newGitLabAPI(t)

	fetcher, err := NewGitLabFetcher(server.URL, "glpat-test", "dependabot[bot]", 20)
	require.NoError(t, err)

	prs, err := fetcher.ListPullRequests(context.Background(), "infra/gateway")
	require.NoError(t, err)
	require.Len(t, prs, 2)

	assert.Equal(t, 3, prs[0].Number)
	assert.Equal(t, "MERGEABLE", prs[0].Mergeable)
	assert.Equal(t, types.Labels{"dependencies"}, prs[0].Labels)
	assert.Equal(t, []types.StatusCheck{{Name: "pipeline", State: "SUCCESS", Status: "success"}}, prs[0].StatusCheckRollup)

	assert.Equal(t, 4, prs[1].Number)
	assert.Equal(t, "CONFLICTING", prs[1].Mergeable)
	assert.Equal(t, []types.StatusCheck{{Name: "pipeline", State: "FAILURE", Status: "failed"}}, prs[1].StatusCheckRollup)
}

// newPagedGitLabAPI serves total merge requests, 100 per page
func newPagedGitLabAPI(t *testing.T, total int, pages *[]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/merge_requests") {
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			if page == 0 {
				page = 1
			}
			*pages = append(*pages, strconv.Itoa(page))

			var items []string
			for iid := (page-1)*100 + 1; iid <= total && iid <= page*100; iid++ {
				items = append(items, fmt.Sprintf(`{"iid": %d, "title": "Bump gem%d from 1.0.0 to 1.0.1"}`, iid, iid))
			}
			if page*100 < total {
				w.Header().Set("X-Next-Page", strconv.Itoa(page+1))
			}
			fmt.Fprintf(w, "[%s]", strings.Join(items, ","))
			return
		}
		iid := path.Base(r.URL.Path)
		fmt.Fprintf(w, `{"iid": %s, "head_pipeline": {"id": 1, "status": "running"}}`, iid)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGitLabFetcher_Paging(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantCount int
		wantPages []string
	}{
		{name: "all pages below the limit", limit: 250, wantCount: 150, wantPages: []string{"1", "2"}},
		{name: "limit reached on the second page", limit: 120, wantCount: 120, wantPages: []string{"1", "2"}},
		{name: "limit reached on the first page", limit: 30, wantCount: 30, wantPages: []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pages []string
			server := newPagedGitLabAPI(t, 150, &pages)

			fetcher, err := NewGitLabFetcher(server.URL, "glpat-test", "dependabot[bot]", tt.limit)
			require.NoError(t, err)

			prs, err := fetcher.ListPullRequests(context.Background(), "infra/gateway")
			require.NoError(t, err)

			assert.Len(t, prs, tt.wantCount)
			assert.Equal(t, tt.wantPages, pages)
			assert.Equal(t, tt.wantCount, prs[len(prs)-1].Number)
			assert.Equal(t, "PENDING", prs[0].StatusCheckRollup[0].State)
		})
	}
}

func TestGitLabFetcher_RejectsOtherHost(t *testing.T) {
	server := newGitLabAPI(t)

	fetcher, err := NewGitLabFetcher(server.URL, "glpat-test", "dependabot[bot]", 20)
	require.NoError(t, err)

	_, err = fetcher.ListPullRequests(context.Background(), "gitlab.example.com/infra/gateway")
	assert.ErrorContains(t, err, "gitlab.example.com")
}

func TestPipelineState(t *testing.T) {
	tests := map[string]string{
		"success":  types.CheckStateSuccess,
		"failed":   types.CheckStateFailure,
		"running":  types.CheckStatePending,
		"created":  types.CheckStatePending,
		"canceled": "CANCELED",
		"skipped":  "SKIPPED",
	}
	for status, want := range tests {
		assert.Equal(t, want, pipelineState(status), status)
	}
}
