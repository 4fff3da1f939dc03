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

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/gateway"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/report"
)

var checkGatewayCmd = &cobra.Command{
	Use:   "check-gateway",
	Short: "Validate the gateway docker-compose and .env files",
	Long: `Checks the gateway service of the docker-compose file and the .env file
against the expected local setup: LAN bind mode, macOS uid/gid, token
authentication, localhost-only ports, read-only filesystem and dropped
capabilities. Exits non-zero when any check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckGateway(cmd)
	},
}

func init() {
	flags := checkGatewayCmd.Flags()
	flags.String("compose-file", "", "docker-compose file (default config/docker-compose.secure.yml)")
	flags.String("env-file", "", "environment file (default .env)")
	flags.String("service", "", "gateway service name (default clawdbot-gateway)")
	bindFlags(flags, map[string]string{
		"compose-file": "gateway.composeFile",
		"env-file":     "gateway.envFile",
		"service":      "gateway.service",
	})

	rootCmd.AddCommand(checkGatewayCmd)
}

func runCheckGateway(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	results, err := gateway.NewChecker(cfg.Gateway).Run()
	if err != nil {
		return err
	}

	if err := report.WriteGatewayResults(cmd.OutOrStdout(), cfg.Gateway.ComposeFile, results); err != nil {
		return err
	}

	if failed := gateway.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d gateway checks failed", failed, len(results))
	}
	return nil
}
