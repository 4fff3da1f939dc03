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

package upstream

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/command/fake"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/git"
)

const (
	previousHash = "1111111aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	latestHash   = "2222222bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func testCatalogue() *Catalogue {
	return &Catalogue{Repos: map[string]Repo{
		"openclaw": {
			Path:   "/src/openclaw",
			Watch:  []string{"docker/", "Dockerfile"},
			SyncTo: "vendor/openclaw",
		},
	}}
}

func baseRunner() *fake.FakeRunner {
	return fake.NewFakeRunner().
		On("git -C /src/openclaw log -1 --format=%H", latestHash+"\n").
		On("git -C /src/openclaw log --oneline -10", "2222222 fix: bind gateway to lan\n1111111 chore: bump node\n")
}

func TestSyncer_FirstReview(t *testing.T) {
	trackingDir := filepath.Join(t.TempDir(), ".upstream")
	syncer := NewSyncer(testCatalogue(), baseRunner(), trackingDir, 10)

	review, err := syncer.Review(context.Background(), "openclaw")
	require.NoError(t, err)

	assert.Equal(t, latestHash, review.Latest)
	assert.Equal(t, "2222222", review.ShortHash())
	assert.Empty(t, review.Previous)
	assert.False(t, review.UpToDate())
	assert.Equal(t, []git.Commit{
		{Hash: "2222222", Subject: "fix: bind gateway to lan"},
		{Hash: "1111111", Subject: "chore: bump node"},
	}, review.Commits)
	assert.Empty(t, review.ChangedFiles)

	marker, err := os.ReadFile(filepath.Join(trackingDir, "openclaw.sync"))
	require.NoError(t, err)
	assert.Equal(t, latestHash, string(marker))
	assert.Equal(t, filepath.Join(trackingDir, "openclaw.sync"), review.MarkerPath)
}

func TestSyncer_ReviewSincePrevious(t *testing.T) {
	trackingDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(trackingDir, "openclaw.sync"), []byte(previousHash+"\n"), 0644))

	runner := baseRunner().
		On("git -C /src/openclaw cat-file -e "+previousHash+"^{commit}", "").
		On("git -C /src/openclaw diff --name-only "+previousHash+" "+latestHash,
			"src/index.ts\ndocker/compose.yml\nDockerfile\n")

	review, err := NewSyncer(testCatalogue(), runner, trackingDir, 10).Review(context.Background(), "openclaw")
	require.NoError(t, err)

	assert.Equal(t, previousHash, review.Previous)
	assert.Equal(t, "1111111", review.PreviousShortHash())
	assert.Equal(t, []string{"docker/compose.yml", "Dockerfile"}, review.ChangedFiles)
}

func TestSyncer_PreviousCommitGone(t *testing.T) {
	trackingDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(trackingDir, "openclaw.sync"), []byte(previousHash), 0644))

	runner := baseRunner().
		OnError("git -C /src/openclaw cat-file -e "+previousHash+"^{commit}", errors.New("exit status 128"))

	review, err := NewSyncer(testCatalogue(), runner, trackingDir, 10).Review(context.Background(), "openclaw")
	require.NoError(t, err)
	assert.Empty(t, review.ChangedFiles)

	marker, err := os.ReadFile(filepath.Join(trackingDir, "openclaw.sync"))
	require.NoError(t, err)
	assert.Equal(t, latestHash, string(marker))
}

func TestSyncer_UpToDate(t *testing.T) {
	trackingDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(trackingDir, "openclaw.sync"), []byte(latestHash), 0644))

	review, err := NewSyncer(testCatalogue(), baseRunner(), trackingDir, 10).Review(context.Background(), "openclaw")
	require.NoError(t, err)
	assert.True(t, review.UpToDate())
	assert.Empty(t, review.ChangedFiles)
}

func TestSyncer_Errors(t *testing.T) {
	t.Run("unknown repo", func(t *testing.T) {
		_, err := NewSyncer(testCatalogue(), fake.NewFakeRunner(), t.TempDir(), 10).Review(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrUnknownRepo)
	})

	t.Run("git fails and no marker is written", func(t *testing.T) {
		trackingDir := filepath.Join(t.TempDir(), "tracking")
		runner := fake.NewFakeRunner().
			OnError("git -C /src/openclaw log -1 --format=%H", errors.New("not a git repository"))

		_, err := NewSyncer(testCatalogue(), runner, trackingDir, 10).Review(context.Background(), "openclaw")
		require.Error(t, err)

		_, statErr := os.Stat(trackingDir)
		assert.True(t, os.IsNotExist(statErr))
	})
}
