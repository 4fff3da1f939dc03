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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/report"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/upstream"
)

var syncUpstreamCmd = &cobra.Command{
	Use:   "sync-upstream <name>",
	Short: "Review new commits of a tracked upstream repository",
	Long: `Shows the latest commits of an upstream checkout listed in upstream-deps.yml
and the watched files changed since the last review, then records the latest
commit as reviewed. Nothing is synced automatically.

Example usage:
  devinfra sync-upstream clawdbot
  devinfra sync-upstream clawdbot --catalogue config/upstream-deps.yml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSyncUpstream(cmd, args[0])
	},
}

func init() {
	flags := syncUpstreamCmd.Flags()
	flags.String("catalogue", "", "path to upstream-deps.yml (default config/upstream-deps.yml)")
	flags.String("tracking-dir", "", "directory of the reviewed commit markers (default .upstream)")
	flags.Int("commits", 0, "number of recent commits shown (default 10)")
	bindFlags(flags, map[string]string{
		"catalogue":    "upstream.configFile",
		"tracking-dir": "upstream.trackingDir",
		"commits":      "upstream.commitCount",
	})

	rootCmd.AddCommand(syncUpstreamCmd)
}

func runSyncUpstream(cmd *cobra.Command, name string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	catalogue, err := upstream.LoadCatalogue(cfg.Upstream.ConfigFile)
	if err != nil {
		return err
	}

	syncer := upstream.NewSyncer(catalogue, newRunner(cfg.Triage.GH), cfg.Upstream.TrackingDir, cfg.Upstream.CommitCount)
	review, err := syncer.Review(cmd.Context(), name)
	if errors.Is(err, upstream.ErrUnknownRepo) {
		return fmt.Errorf("%w; add it to %s first", err, cfg.Upstream.ConfigFile)
	}
	if err != nil {
		return err
	}

	return report.WriteUpstream(cmd.OutOrStdout(), review)
}
