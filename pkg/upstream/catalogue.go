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

// Package upstream tracks which commit of an upstream checkout was last reviewed
package upstream

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownRepo is returned when a name is not in the catalogue
var ErrUnknownRepo = errors.New("unknown repo")

// Catalogue is the upstream-deps.yml file
type Catalogue struct {
	Repos map[string]Repo `yaml:"upstream_repos"`
}

// Repo is a tracked upstream checkout
type Repo struct {
	// Path is the local checkout, environment variables are expanded
	Path string `yaml:"path" json:"path"`
	// Watch are gitignore style patterns of the paths worth reviewing
	Watch []string `yaml:"watch" json:"watch"`
	// SyncTo is where reviewed changes are copied by hand
	SyncTo string `yaml:"sync_to" json:"syncTo"`
}

// UnknownRepoError lists the names that are available instead
type UnknownRepoError struct {
	Name      string
	Available []string
}

func (e *UnknownRepoError) Error() string {
	return fmt.Sprintf("%s: %s (available: %s)", ErrUnknownRepo, e.Name, strings.Join(e.Available, ", "))
}

// Is makes errors.Is(err, ErrUnknownRepo) work
func (e *UnknownRepoError) Is(target error) bool {
	return target == ErrUnknownRepo
}

// LoadCatalogue reads and parses an upstream-deps.yml file
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream catalogue %s: %w", path, err)
	}
	return ParseCatalogue(data)
}

// ParseCatalogue parses the content of an upstream-deps.yml file
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var catalogue Catalogue
	if err := yaml.Unmarshal(data, &catalogue); err != nil {
		return nil, fmt.Errorf("failed to parse upstream catalogue: %w", err)
	}
	if catalogue.Repos == nil {
		catalogue.Repos = map[string]Repo{}
	}
	return &catalogue, nil
}

// Names returns the catalogue entries sorted by name
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.Repos))
	for name := range c.Repos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named repo
func (c *Catalogue) Lookup(name string) (Repo, error) {
	repo, ok := c.Repos[name]
	if !ok {
		return Repo{}, &UnknownRepoError{Name: name, Available: c.Names()}
	}
	if repo.Path == "" {
		return Repo{}, fmt.Errorf("upstream repo %s has no path", name)
	}
	repo.Path = os.ExpandEnv(repo.Path)
	return repo, nil
}
