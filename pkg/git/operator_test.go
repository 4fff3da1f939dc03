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

package git

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command/fake"
)

func TestOperator_LatestCommit(t *testing.T) {
	runner := fake.NewFakeRunner().
		On("git -C /src/openclaw log -1 --format=%H", "3f2a9c1d0e\n")

	hash, err := NewOperator(runner, "/src/openclaw").LatestCommit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3f2a9c1d0e", hash)
}

func TestOperator_LatestCommitEmptyRepo(t *testing.T) {
	runner := fake.NewFakeRunner().On("git -C /src/empty log -1 --format=%H", "")

	_, err := NewOperator(runner, "/src/empty").LatestCommit(context.Background())
	assert.Error(t, err)
}

func TestOperator_RecentCommits(t *testing.T) {
	runner := fake.NewFakeRunner().
		On("git -C /src/openclaw log --oneline -3", "3f2a9c1 fix: gateway bind\n9b1e2d4 chore: deps\n\n77aa001 init\n")

	commits, err := NewOperator(runner, "/src/openclaw").RecentCommits(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []Commit{
		{Hash: "3f2a9c1", Subject: "fix: gateway bind"},
		{Hash: "9b1e2d4", Subject: "chore: deps"},
		{Hash: "77aa001", Subject: "init"},
	}, commits)
	assert.Equal(t, "3f2a9c1 fix: gateway bind", commits[0].String())
}

func TestOperator_ChangedFiles(t *testing.T) {
	runner := fake.NewFakeRunner().
		On("git -C /src/openclaw diff --name-only aaa bbb", "docker/Dockerfile\nsrc/gateway/config.ts\n")

	files, err := NewOperator(runner, "/src/openclaw").ChangedFiles(context.Background(), "aaa", "bbb")
	require.NoError(t, err)
	assert.Equal(t, []string{"docker/Dockerfile", "src/gateway/config.ts"}, files)
}

func TestOperator_CommitExists(t *testing.T) {
	runner := fake.NewFakeRunner().
		On("git -C /src/openclaw cat-file -e aaa^{commit}", "").
		OnError("git -C /src/openclaw cat-file -e gone^{commit}", errors.New("exit status 128"))

	op := NewOperator(runner, "/src/openclaw")
	assert.True(t, op.CommitExists(context.Background(), "aaa"))
	assert.False(t, op.CommitExists(context.Background(), "gone"))
}

func TestOperator_ErrorsAreWrapped(t *testing.T) {
	cause := errors.New("not a git repository")
	runner := fake.NewFakeRunner().OnError("git -C /nowhere log --oneline -10", cause)

	_, err := NewOperator(runner, "/nowhere").RecentCommits(context.Background(), 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "/nowhere")
}
