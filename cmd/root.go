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

// Package cmd provides command line interface for devinfra
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "devinfra",
	Short: "Maintenance commands for the local development infrastructure",
	Long: `devinfra bundles the maintenance chores of the development infrastructure.

Commands:
  triage          list open Dependabot PRs grouped by what they need from you
  sync-upstream   review the new commits of a tracked upstream checkout
  check-gateway   validate the gateway docker-compose and .env files

Configuration can be provided via:
1. Configuration file: .devinfra.yaml in the current or home directory (or --config)
2. Environment variables prefixed with DEVINFRA_, e.g. DEVINFRA_TRIAGE_AUTHOR
3. Command line flags (highest priority)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .devinfra.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug log output")
	bindFlags(rootCmd.PersistentFlags(), map[string]string{"debug": "debug"})
}
