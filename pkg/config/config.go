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

// Package config provides configuration management for devinfra
package config

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DefaultAuthor is the login of the Dependabot bot on GitHub
	DefaultAuthor = "dependabot[bot]"
	// DefaultProvider lists pull requests through the gh CLI
	DefaultProvider = "gh"
	// DefaultLimit is the maximum number of pull requests fetched
	DefaultLimit = 100
	// DefaultBrewLimit is the number of brew outdated lines shown
	DefaultBrewLimit = 10
	// DefaultAutoMergingPreview is the number of auto-merging PRs listed
	DefaultAutoMergingPreview = 3
	// DefaultGatewayService is the compose service checked by check-gateway
	DefaultGatewayService = "clawdbot-gateway"
)

// Config represents the complete configuration for devinfra
type Config struct {
	// Debug enables debug log output
	Debug bool `yaml:"debug" json:"debug" mapstructure:"debug"`
	// Triage contains Dependabot triage configuration
	Triage TriageConfig `yaml:"triage" json:"triage" mapstructure:"triage"`
	// Upstream contains sync-upstream configuration
	Upstream UpstreamConfig `yaml:"upstream" json:"upstream" mapstructure:"upstream"`
	// Gateway contains check-gateway configuration
	Gateway GatewayConfig `yaml:"gateway" json:"gateway" mapstructure:"gateway"`
	// Notice contains notice configuration
	Notice NoticeConfig `yaml:"notice" json:"notice" mapstructure:"notice"`
}

// TriageConfig configures how Dependabot pull requests are fetched and shown
type TriageConfig struct {
	// Repo is the "owner/name" repository, empty means the current repository
	Repo string `yaml:"repo" json:"repo" mapstructure:"repo"`
	// Author is the bot login whose pull requests are triaged
	Author string `yaml:"author" json:"author" mapstructure:"author"`
	// Limit is the maximum number of pull requests fetched
	Limit int `yaml:"limit" json:"limit" mapstructure:"limit"`
	// Output is the report format, "text" or "json"
	Output string `yaml:"output" json:"output" mapstructure:"output"`
	// AutoMergingPreview is how many auto-merging PRs are listed in text output
	AutoMergingPreview int `yaml:"autoMergingPreview" json:"autoMergingPreview" mapstructure:"autoMergingPreview"`
	// Git contains git provider configuration
	Git GitProviderConfig `yaml:"git" json:"git" mapstructure:"git"`
	// GH configures the environment of the gh CLI
	GH GHConfig `yaml:"gh" json:"gh" mapstructure:"gh"`
	// Brew configures the Homebrew outdated section
	Brew BrewConfig `yaml:"brew" json:"brew" mapstructure:"brew"`
}

type GitProviderConfig struct {
	// Provider is how pull requests are listed: "gh", "graphql", "github" or "gitlab"
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"`
	// BaseURL is the base URL of the git provider for enterprise or self-hosted instances
	BaseURL string `yaml:"baseURL" json:"baseURL" mapstructure:"baseURL"`
	// Token is the authentication token for the API based providers
	Token string `yaml:"token" json:"-" mapstructure:"token"`
}

// GHConfig is the explicit environment handed to the gh CLI
type GHConfig struct {
	// ExtraPath entries are prepended to PATH when running external commands
	ExtraPath []string `yaml:"extraPath" json:"extraPath" mapstructure:"extraPath"`
	// UnsetEnv variables are removed, so gh uses its keyring auth instead of a stale token
	UnsetEnv []string `yaml:"unsetEnv" json:"unsetEnv" mapstructure:"unsetEnv"`
	// Host sets GH_HOST for GitHub Enterprise
	Host string `yaml:"host" json:"host" mapstructure:"host"`
}

// BrewConfig configures the Homebrew outdated section of the triage report
type BrewConfig struct {
	// Skip disables the section
	Skip bool `yaml:"skip" json:"skip" mapstructure:"skip"`
	// Limit is the number of lines shown
	Limit int `yaml:"limit" json:"limit" mapstructure:"limit"`
}

// UpstreamConfig configures sync-upstream
type UpstreamConfig struct {
	// ConfigFile is the path to the upstream-deps.yml catalogue
	ConfigFile string `yaml:"configFile" json:"configFile" mapstructure:"configFile"`
	// TrackingDir is where the reviewed commit markers are written
	TrackingDir string `yaml:"trackingDir" json:"trackingDir" mapstructure:"trackingDir"`
	// CommitCount is the number of recent commits shown
	CommitCount int `yaml:"commitCount" json:"commitCount" mapstructure:"commitCount"`
}

// GatewayConfig configures check-gateway
type GatewayConfig struct {
	// ComposeFile is the docker-compose file to validate
	ComposeFile string `yaml:"composeFile" json:"composeFile" mapstructure:"composeFile"`
	// EnvFile is the .env file to validate
	EnvFile string `yaml:"envFile" json:"envFile" mapstructure:"envFile"`
	// Service is the compose service name of the gateway
	Service string `yaml:"service" json:"service" mapstructure:"service"`
}

type NoticeConfig struct {
	// Type is the type of notice (e.g., "wecom")
	Type string `yaml:"type" json:"type" mapstructure:"type"`
	// Params contains notice-specific parameters
	Params map[string]interface{} `yaml:"params" json:"params" mapstructure:"params"`
}

// Load unmarshals the configuration held by v and applies defaults
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return ApplyDefaults(&cfg), nil
}

// ApplyDefaults applies default values to configuration
func ApplyDefaults(config *Config) *Config {
	if config.Triage.Author == "" {
		config.Triage.Author = DefaultAuthor
	}
	if config.Triage.Limit <= 0 {
		config.Triage.Limit = DefaultLimit
	}
	if config.Triage.Output == "" {
		config.Triage.Output = "text"
	}
	if config.Triage.AutoMergingPreview <= 0 {
		config.Triage.AutoMergingPreview = DefaultAutoMergingPreview
	}
	if config.Triage.Git.Provider == "" {
		config.Triage.Git.Provider = DefaultProvider
	}
	if len(config.Triage.GH.ExtraPath) == 0 {
		config.Triage.GH.ExtraPath = []string{"/opt/homebrew/bin", "/usr/local/bin"}
	}
	if len(config.Triage.GH.UnsetEnv) == 0 {
		config.Triage.GH.UnsetEnv = []string{"GITHUB_TOKEN"}
	}
	if config.Triage.Brew.Limit <= 0 {
		config.Triage.Brew.Limit = DefaultBrewLimit
	}

	if config.Upstream.ConfigFile == "" {
		config.Upstream.ConfigFile = "config/upstream-deps.yml"
	}
	if config.Upstream.TrackingDir == "" {
		config.Upstream.TrackingDir = ".upstream"
	}
	if config.Upstream.CommitCount <= 0 {
		config.Upstream.CommitCount = 10
	}

	if config.Gateway.ComposeFile == "" {
		config.Gateway.ComposeFile = "config/docker-compose.secure.yml"
	}
	if config.Gateway.EnvFile == "" {
		config.Gateway.EnvFile = ".env"
	}
	if config.Gateway.Service == "" {
		config.Gateway.Service = DefaultGatewayService
	}

	return config
}

// String implements fmt.Stringer interface for better debugging experience.
// The provider token is never printed.
func (c *Config) String() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		logrus.Errorf("Failed to marshal config to JSON: %v", err)
		redacted := *c
		redacted.Triage.Git.Token = ""
		return fmt.Sprintf("%+v", redacted)
	}
	return string(data)
}
