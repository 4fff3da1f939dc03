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

// Package pipeline wires fetching, classification and reporting of Dependabot pull requests
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/brew"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/config"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/github"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/notice"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/report"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/triage"
)

// ErrFetchFailed is returned when the pull requests could not be listed
var ErrFetchFailed = errors.New("❌ Failed to fetch PRs. Is gh authenticated?")

// Config holds configuration for the pipeline
type Config struct {
	config.TriageConfig `json:",inline" yaml:",inline"`

	// Notice configures the optional chat notification
	Notice config.NoticeConfig `json:"notice" yaml:"notice"`
}

// Triage lists, classifies and reports the open Dependabot pull requests of a repository
type Triage struct {
	// config holds pipeline configuration
	config *Config
	// fetcher lists the open pull requests
	fetcher github.Fetcher
	// runner runs gh and brew
	runner command.Runner
	// out receives the report
	out io.Writer
	// notifier overrides the notifier built from config.Notice
	notifier notice.Notifier
}

// NewTriage creates a new triage pipeline
func NewTriage(config *Config, fetcher github.Fetcher, runner command.Runner, out io.Writer) *Triage {
	return &Triage{
		config:  config,
		fetcher: fetcher,
		runner:  runner,
		out:     out,
	}
}

// WithNotifier sets the notifier used instead of the configured one
func (p *Triage) WithNotifier(notifier notice.Notifier) *Triage {
	p.notifier = notifier
	return p
}

// Run executes the pipeline for repo; an empty repo falls back to the
// configured repository and then to the repository of the current directory.
func (p *Triage) Run(ctx context.Context, repo string) error {
	repo, err := p.resolveRepo(ctx, repo)
	if err != nil {
		return err
	}
	logrus.Debugf("Triaging Dependabot PRs of %s", repo)

	jsonOutput := p.config.Output == report.FormatJSON
	if !jsonOutput {
		if err := report.WriteTriageHeader(p.out, repo); err != nil {
			return err
		}
	}

	prs, err := p.fetcher.ListPullRequests(ctx, repo)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	logrus.Debugf("Fetched %d pull requests", len(prs))

	result := triage.Classify(prs)

	if jsonOutput {
		doc := report.NewTriageReport(repo, result)
		if !p.config.Brew.Skip {
			doc.WithBrew(p.outdated(ctx))
		}
		if err := report.WriteJSON(p.out, doc); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		opts := report.TriageOptions{AutoMergingPreview: p.config.AutoMergingPreview}
		if err := report.WriteTriage(p.out, result, opts); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if !p.config.Brew.Skip {
			lines, brewErr := p.outdated(ctx)
			if err := report.WriteBrew(p.out, lines, brewErr); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}
	}

	if err := p.sendNotification(ctx, repo, result); err != nil {
		// Don't fail the entire pipeline if notification fails
		logrus.Warnf("Warning: Failed to send notification: %v", err)
	}
	return nil
}

func (p *Triage) resolveRepo(ctx context.Context, repo string) (string, error) {
	if repo != "" {
		return repo, nil
	}
	if p.config.Repo != "" {
		return p.config.Repo, nil
	}
	return github.DefaultRepo(ctx, p.runner)
}

func (p *Triage) outdated(ctx context.Context) ([]string, error) {
	lines, err := brew.Outdated(ctx, p.runner, p.config.Brew.Limit)
	if err != nil {
		logrus.Debugf("brew outdated failed: %v", err)
	}
	return lines, err
}

// sendNotification sends the triage summary when a notifier is configured
func (p *Triage) sendNotification(ctx context.Context, repo string, result triage.Result) error {
	notifier := p.notifier
	if notifier == nil {
		if !notice.IsNotificationEnabled(p.config.Notice) {
			return nil
		}
		var err error
		notifier, err = notice.NewNotifier(p.config.Notice)
		if err != nil {
			return fmt.Errorf("failed to create notifier: %w", err)
		}
	}

	logrus.Info("Sending notification...")
	return notifier.Notify(ctx, notice.Summary{Repo: repo, Result: result})
}
