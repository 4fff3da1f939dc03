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

package fake

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Response is a canned command result
type Response struct {
	Output []byte
	Err    error
}

// FakeRunner returns canned responses keyed by the full command line
type FakeRunner struct {
	mu sync.Mutex

	Responses map[string]Response
	Calls     []string
}

// NewFakeRunner creates an empty FakeRunner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Responses: map[string]Response{}}
}

// On registers output for the command line "name args..."
func (f *FakeRunner) On(commandLine string, output string) *FakeRunner {
	f.Responses[commandLine] = Response{Output: []byte(output)}
	return f
}

// OnError registers a failure for the command line "name args..."
func (f *FakeRunner) OnError(commandLine string, err error) *FakeRunner {
	f.Responses[commandLine] = Response{Err: err}
	return f
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.Calls = append(f.Calls, line)

	resp, ok := f.Responses[line]
	if !ok {
		return nil, fmt.Errorf("unexpected command: %s", line)
	}
	return resp.Output, resp.Err
}
