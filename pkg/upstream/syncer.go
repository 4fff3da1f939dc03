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

package upstream

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/git"
)

// Review is what was found when an upstream checkout was reviewed
type Review struct {
	Name string `json:"name"`
	Repo Repo   `json:"repo"`
	// Latest is the full hash of HEAD, now recorded as reviewed
	Latest string `json:"latest"`
	// Previous is the hash recorded by the last review, empty on the first one
	Previous string       `json:"previous,omitempty"`
	Commits  []git.Commit `json:"commits"`
	// ChangedFiles are the watched files changed since Previous
	ChangedFiles []string `json:"changedFiles,omitempty"`
	// MarkerPath is the file the hash was written to
	MarkerPath string `json:"markerPath"`
}

// ShortHash returns the first seven characters of Latest
func (r *Review) ShortHash() string {
	return shortHash(r.Latest)
}

// PreviousShortHash returns the first seven characters of Previous
func (r *Review) PreviousShortHash() string {
	return shortHash(r.Previous)
}

// UpToDate reports whether nothing happened upstream since the last review
func (r *Review) UpToDate() bool {
	return r.Previous != "" && r.Previous == r.Latest
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// Syncer reviews upstream checkouts. Files are never copied; the reviewer
// syncs by hand and the reviewed commit is recorded in the tracking dir.
type Syncer struct {
	catalogue   *Catalogue
	runner      command.Runner
	trackingDir string
	commitCount int
}

// NewSyncer creates a Syncer writing markers to trackingDir
func NewSyncer(catalogue *Catalogue, runner command.Runner, trackingDir string, commitCount int) *Syncer {
	return &Syncer{
		catalogue:   catalogue,
		runner:      runner,
		trackingDir: trackingDir,
		commitCount: commitCount,
	}
}

// Review looks at the named checkout and records its HEAD as reviewed
func (s *Syncer) Review(ctx context.Context, name string) (*Review, error) {
	repo, err := s.catalogue.Lookup(name)
	if err != nil {
		return nil, err
	}

	op := git.NewOperator(s.runner, repo.Path)
	latest, err := op.LatestCommit(ctx)
	if err != nil {
		return nil, err
	}

	commits, err := op.RecentCommits(ctx, s.commitCount)
	if err != nil {
		return nil, err
	}

	review := &Review{
		Name:       name,
		Repo:       repo,
		Latest:     latest,
		Commits:    commits,
		MarkerPath: s.markerPath(name),
	}

	review.Previous, err = s.readMarker(name)
	if err != nil {
		return nil, err
	}

	if review.Previous != "" && review.Previous != latest {
		if op.CommitExists(ctx, review.Previous) {
			files, err := op.ChangedFiles(ctx, review.Previous, latest)
			if err != nil {
				return nil, err
			}
			review.ChangedFiles = NewWatchMatcher(repo.Watch).Filter(files)
		} else {
			logrus.Warnf("Previously reviewed commit %s is no longer in %s", review.PreviousShortHash(), repo.Path)
		}
	}

	if err := s.writeMarker(name, latest); err != nil {
		return nil, err
	}
	logrus.Debugf("Recorded %s at %s in %s", name, review.ShortHash(), review.MarkerPath)
	return review, nil
}

func (s *Syncer) markerPath(name string) string {
	return filepath.Join(s.trackingDir, name+".sync")
}

func (s *Syncer) readMarker(name string) (string, error) {
	data, err := os.ReadFile(s.markerPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read sync marker: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Syncer) writeMarker(name, hash string) error {
	if err := os.MkdirAll(s.trackingDir, 0755); err != nil {
		return fmt.Errorf("failed to create tracking dir %s: %w", s.trackingDir, err)
	}
	if err := os.WriteFile(s.markerPath(name), []byte(hash), 0644); err != nil {
		return fmt.Errorf("failed to write sync marker: %w", err)
	}
	return nil
}
