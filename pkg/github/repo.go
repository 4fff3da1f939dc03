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

package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/cli/go-gh"
	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command"
)

// currentRepository is replaced in tests
var currentRepository = func() (string, error) {
	repo, err := gh.CurrentRepository()
	if err != nil {
		return "", err
	}
	return repo.Owner() + "/" + repo.Name(), nil
}

// DefaultRepo returns the "owner/name" of the repository in the current directory.
// The git remotes are read first, then `gh repo view` is asked.
func DefaultRepo(ctx context.Context, runner command.Runner) (string, error) {
	repo, err := currentRepository()
	if err == nil && repo != "/" {
		return repo, nil
	}
	logrus.Debugf("failed to detect repository from git remotes: %v", err)

	out, err := runner.Run(ctx, "gh", "repo", "view", "--json", "nameWithOwner", "-q", ".nameWithOwner")
	if err != nil {
		return "", fmt.Errorf("failed to detect current repository: %w", err)
	}
	repo = strings.TrimSpace(string(out))
	if repo == "" {
		return "", fmt.Errorf("failed to detect current repository: gh returned no name")
	}
	return repo, nil
}
