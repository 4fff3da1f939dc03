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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/config"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/github"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/pipeline"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/report"
)

var triageCmd = &cobra.Command{
	Use:   "triage [repo]",
	Short: "Show open Dependabot PRs that need attention",
	Long: `Lists the open Dependabot pull requests of a repository and groups them into
major updates (manual review), failing CI (fix required) and auto-merging.
Outdated Homebrew packages are listed at the end.

When repo ("owner/name") is omitted, triage.repo from the configuration or the
repository of the current directory is used.

Example usage:
  devinfra triage
  devinfra triage cli/cli --limit 50
  devinfra triage --provider github --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var repo string
		if len(args) > 0 {
			repo = args[0]
		}
		return runTriage(cmd, repo)
	},
}

func init() {
	flags := triageCmd.Flags()
	flags.String("author", config.DefaultAuthor, "author of the pull requests to triage")
	flags.Int("limit", config.DefaultLimit, "maximum number of pull requests fetched")
	flags.StringP("output", "o", report.FormatText, "report format: text or json")
	flags.String("provider", config.DefaultProvider, "how pull requests are listed: gh, graphql, github or gitlab")
	flags.String("base-url", "", "API base URL for GitHub Enterprise or self-hosted GitLab")
	flags.Bool("skip-brew", false, "do not list outdated Homebrew packages")
	bindFlags(flags, map[string]string{
		"author":    "triage.author",
		"limit":     "triage.limit",
		"output":    "triage.output",
		"provider":  "triage.git.provider",
		"base-url":  "triage.git.baseURL",
		"skip-brew": "triage.brew.skip",
	})

	rootCmd.AddCommand(triageCmd)
}

func runTriage(cmd *cobra.Command, repo string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch cfg.Triage.Output {
	case report.FormatText, report.FormatJSON:
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.Triage.Output)
	}

	runner := newRunner(cfg.Triage.GH)
	fetcher, err := github.NewFetcher(cfg.Triage, runner)
	if err != nil {
		return fmt.Errorf("failed to create pull request fetcher: %w", err)
	}

	p := pipeline.NewTriage(&pipeline.Config{
		TriageConfig: cfg.Triage,
		Notice:       cfg.Notice,
	}, fetcher, runner, cmd.OutOrStdout())
	return p.Run(cmd.Context(), repo)
}
