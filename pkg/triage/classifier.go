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

// Package triage sorts Dependabot pull requests into priority buckets.
//
// Classification is a pure function of its input: it performs no I/O and
// never fails, so callers must only hand it fully fetched pull requests.
package triage

import (
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/version"
)

// Bucket is the priority bucket a pull request is assigned to
type Bucket string

const (
	// BucketMajor holds major version updates that need manual review
	BucketMajor Bucket = "major"
	// BucketFailing holds pull requests with failing CI
	BucketFailing Bucket = "failing"
	// BucketAutoMerging holds everything else
	BucketAutoMerging Bucket = "auto-merging"
)

// Result holds the classified pull requests.
// Each input pull request appears in exactly one bucket, in input order.
type Result struct {
	Majors      []types.PullRequest `json:"majors"`
	Failing     []types.PullRequest `json:"failing"`
	AutoMerging []types.PullRequest `json:"autoMerging"`
}

// Total returns the number of classified pull requests
func (r Result) Total() int {
	return len(r.Majors) + len(r.Failing) + len(r.AutoMerging)
}

// Classify partitions prs into majors, failing and auto-merging buckets
func Classify(prs []types.PullRequest) Result {
	var result Result
	for _, pr := range prs {
		switch Categorize(pr) {
		case BucketMajor:
			result.Majors = append(result.Majors, pr)
		case BucketFailing:
			result.Failing = append(result.Failing, pr)
		default:
			result.AutoMerging = append(result.AutoMerging, pr)
		}
	}
	return result
}

// Categorize returns the bucket of a single pull request.
// A major update wins over a CI failure.
func Categorize(pr types.PullRequest) Bucket {
	if IsMajorUpdate(pr.Title) {
		return BucketMajor
	}
	if HasCIFailure(pr) {
		return BucketFailing
	}
	return BucketAutoMerging
}

// IsMajorUpdate reports whether title bumps a dependency across major versions.
// Titles without a "from X.Y.Z to A.B.C" bump are never major.
func IsMajorUpdate(title string) bool {
	bump, ok := version.ParseBump(title)
	if !ok {
		return false
	}
	return bump.IsMajor()
}

// HasCIFailure reports whether any rollup entry has the exact state FAILURE
func HasCIFailure(pr types.PullRequest) bool {
	for _, check := range pr.StatusCheckRollup {
		if check.State == types.CheckStateFailure {
			return true
		}
	}
	return false
}
