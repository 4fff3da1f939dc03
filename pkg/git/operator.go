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

// Package git provides read-only Git operations on local checkouts
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command"
)

// Commit is a single line of `git log --oneline`
type Commit struct {
	// Hash is the abbreviated commit hash
	Hash string `json:"hash" yaml:"hash"`
	// Subject is the first line of the commit message
	Subject string `json:"subject" yaml:"subject"`
}

// String returns the commit in the one-line log format
func (c Commit) String() string {
	return strings.TrimSpace(c.Hash + " " + c.Subject)
}

// Operator runs git commands against a checkout directory
type Operator struct {
	runner command.Runner
	// workingDir is the checkout passed to `git -C`
	workingDir string
}

// NewOperator creates a new Git operator
func NewOperator(runner command.Runner, workingDir string) *Operator {
	return &Operator{
		runner:     runner,
		workingDir: workingDir,
	}
}

func (g *Operator) git(ctx context.Context, args ...string) (string, error) {
	out, err := g.runner.Run(ctx, "git", append([]string{"-C", g.workingDir}, args...)...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// LatestCommit returns the full hash of HEAD
func (g *Operator) LatestCommit(ctx context.Context) (string, error) {
	hash, err := g.git(ctx, "log", "-1", "--format=%H")
	if err != nil {
		return "", fmt.Errorf("failed to get latest commit in %s: %w", g.workingDir, err)
	}
	if hash == "" {
		return "", fmt.Errorf("no commits in %s", g.workingDir)
	}
	return hash, nil
}

// RecentCommits returns up to n commits, newest first
func (g *Operator) RecentCommits(ctx context.Context, n int) ([]Commit, error) {
	out, err := g.git(ctx, "log", "--oneline", fmt.Sprintf("-%d", n))
	if err != nil {
		return nil, fmt.Errorf("failed to list commits in %s: %w", g.workingDir, err)
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, subject, _ := strings.Cut(line, " ")
		commits = append(commits, Commit{Hash: hash, Subject: subject})
	}
	return commits, nil
}

// ChangedFiles returns the paths changed between from and to
func (g *Operator) ChangedFiles(ctx context.Context, from, to string) ([]string, error) {
	out, err := g.git(ctx, "diff", "--name-only", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// CommitExists reports whether hash names a commit in the checkout.
// A shallow or rewritten upstream can drop a previously reviewed commit.
func (g *Operator) CommitExists(ctx context.Context, hash string) bool {
	if _, err := g.git(ctx, "cat-file", "-e", hash+"^{commit}"); err != nil {
		logrus.Debugf("commit %s not found in %s: %v", hash, g.workingDir, err)
		return false
	}
	return true
}
