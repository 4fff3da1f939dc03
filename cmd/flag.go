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
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/config"
)

const EnvPrefix = "DEVINFRA"

var (
	// cfgFile is the external configuration file path
	cfgFile string
)

func initConfig() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// Keys that are usually only provided through the environment
	_ = viper.BindEnv("triage.git.token")
	_ = viper.BindEnv("triage.gh.host")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".devinfra")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Debug("No config file found, using defaults")
		} else {
			logrus.Warn("Can't read config:", err)
		}
	} else {
		logrus.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}

	if viper.GetBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.Debug("Debug logging enabled")
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// bindFlags binds each flag of fs to the viper key in keys, keyed by flag name
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	fs.VisitAll(func(flag *pflag.Flag) {
		key, ok := keys[flag.Name]
		if !ok {
			return
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			logrus.Warnf("Failed to bind flag %s: %v", flag.Name, err)
		}
	})
}

// loadConfig returns the merged configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Configuration: %s", cfg)
	return cfg, nil
}

// newRunner creates the runner for gh, git and brew.
// The environment is derived from the process environment without changing it.
func newRunner(gh config.GHConfig) *command.ExecRunner {
	opts := command.Options{
		BaseEnv:     os.Environ(),
		PrependPath: gh.ExtraPath,
		Unset:       gh.UnsetEnv,
	}
	if gh.Host != "" {
		opts.Set = map[string]string{"GH_HOST": gh.Host}
	}
	return command.NewExecRunner(opts)
}
