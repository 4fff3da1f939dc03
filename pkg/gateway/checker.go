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

package gateway

import (
	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/config"
)

// Checker validates a compose file and its .env file
type Checker struct {
	config config.GatewayConfig
}

// NewChecker creates a Checker
func NewChecker(cfg config.GatewayConfig) *Checker {
	return &Checker{config: cfg}
}

// Run runs every check. The error is only set when the compose file
// cannot be read; failing checks are reported in the results.
func (c *Checker) Run() ([]Result, error) {
	logrus.Debugf("Checking service %s in %s", c.config.Service, c.config.ComposeFile)

	compose, err := LoadCompose(c.config.ComposeFile)
	if err != nil {
		return nil, err
	}

	var results []Result
	svc, err := compose.Service(c.config.Service)
	if err != nil {
		results = append(results, fail("service "+c.config.Service+" is defined", "%v", err))
	} else {
		results = append(results, CheckService(svc)...)
	}

	results = append(results, CheckEnv(c.config.EnvFile)...)
	return results, nil
}

// Failed returns the number of failed checks
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
