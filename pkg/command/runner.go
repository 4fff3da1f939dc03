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

// Package command runs external CLIs (gh, git, brew) with an explicit environment
package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner executes an external command and returns its standard output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Options configures the environment of the commands started by an ExecRunner.
// The process environment is never modified; BaseEnv is copied and adjusted.
type Options struct {
	// BaseEnv is the starting environment, usually os.Environ()
	BaseEnv []string
	// PrependPath entries are put in front of PATH
	PrependPath []string
	// Unset removes variables from the environment, e.g. GITHUB_TOKEN
	Unset []string
	// Set adds or overrides variables
	Set map[string]string
	// Dir is the working directory of the commands
	Dir string
}

// ExecRunner implements Runner using os/exec
type ExecRunner struct {
	env []string
	dir string
}

// NewExecRunner creates a runner whose environment is computed once from opts
func NewExecRunner(opts Options) *ExecRunner {
	return &ExecRunner{
		env: BuildEnv(opts),
		dir: opts.Dir,
	}
}

// WithDir returns a copy of the runner that runs commands in dir
func (r *ExecRunner) WithDir(dir string) *ExecRunner {
	return &ExecRunner{env: r.env, dir: dir}
}

// Env returns a copy of the environment passed to commands
func (r *ExecRunner) Env() []string {
	return append([]string(nil), r.env...)
}

// Run executes name with args and returns stdout.
// On failure the error carries the trimmed stderr output.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	logrus.Debugf("Executing: %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, r.lookPath(name), args...)
	cmd.Env = r.env
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &Error{
			Name:   name,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}

// lookPath resolves name against the runner's PATH rather than the PATH of
// the current process. Unresolved names are returned unchanged so exec
// reports the usual "executable file not found" error.
func (r *ExecRunner) lookPath(name string) string {
	if strings.Contains(name, string(filepath.Separator)) {
		return name
	}
	for _, kv := range r.env {
		value, ok := strings.CutPrefix(kv, "PATH=")
		if !ok {
			continue
		}
		for _, dir := range filepath.SplitList(value) {
			if dir == "" {
				continue
			}
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
				return candidate
			}
		}
	}
	return name
}

// Error is returned when a command fails to start or exits non-zero
type Error struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s failed: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ", output: " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BuildEnv applies opts to a copy of opts.BaseEnv.
// The result is sorted by key so it is stable across runs.
func BuildEnv(opts Options) []string {
	vars := make(map[string]string, len(opts.BaseEnv))
	for _, kv := range opts.BaseEnv {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[key] = value
	}

	for _, key := range opts.Unset {
		delete(vars, key)
	}
	for key, value := range opts.Set {
		vars[key] = value
	}

	if len(opts.PrependPath) > 0 {
		path := strings.Join(opts.PrependPath, ":")
		if current := vars["PATH"]; current != "" {
			path += ":" + current
		}
		vars["PATH"] = path
	}

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, key := range keys {
		env = append(env, key+"="+vars[key])
	}
	return env
}

// Ensure ExecRunner implements Runner interface
var _ Runner = (*ExecRunner)(nil)
