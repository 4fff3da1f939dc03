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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/config"
)

func secureService() *Service {
	return &Service{
		Command:     Command{"gateway", "--bind", "lan", "--token", "${CLAWDBOT_GATEWAY_TOKEN}"},
		Environment: Environment{"CLAWDBOT_GATEWAY_TOKEN=${CLAWDBOT_GATEWAY_TOKEN}"},
		User:        "501:20",
		Tmpfs:       StringList{"/tmp:rw,uid=501,gid=20"},
		Volumes:     Volumes{"/Users/dev/.clawdbot:/home/node/.clawdbot"},
		Ports:       Ports{"127.0.0.1:18789:18789"},
		ReadOnly:    true,
		CapDrop:     StringList{"ALL"},
	}
}

func failedNames(results []Result) []string {
	var names []string
	for _, r := range results {
		if !r.Passed {
			names = append(names, r.Name)
		}
	}
	return names
}

func TestCheckService_Secure(t *testing.T) {
	results := CheckService(secureService())
	assert.Len(t, results, 12)
	assert.Empty(t, failedNames(results))
}

func TestCheckService_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Service)
		failed []string
	}{
		{
			name:   "loopback bind is valid but not lan",
			mutate: func(s *Service) { s.Command = Command{"gateway", "--bind", "loopback", "--token", "x"} },
			failed: []string{"bind mode is lan"},
		},
		{
			name:   "unknown bind mode",
			mutate: func(s *Service) { s.Command = Command{"gateway", "--bind", "0.0.0.0", "--token", "x"} },
			failed: []string{"bind mode is valid", "bind mode is lan"},
		},
		{
			name: "missing bind and token flags",
			mutate: func(s *Service) {
				s.Command = Command{"gateway"}
				s.Environment = nil
			},
			failed: []string{"bind mode is valid", "bind mode is lan", "command includes --token", "gateway token is referenced"},
		},
		{
			name:   "token only in command",
			mutate: func(s *Service) { s.Environment = Environment{"NODE_ENV=production"} },
		},
		{
			name:   "tmpfs with linux ids",
			mutate: func(s *Service) { s.Tmpfs = StringList{"/tmp:rw,uid=1000,gid=1000"} },
			failed: []string{"tmpfs uses uid 501", "tmpfs uses gid 20"},
		},
		{
			name:   "tmpfs with interpolation",
			mutate: func(s *Service) { s.Tmpfs = StringList{"/tmp:rw,uid=${USER_UID},gid=${USER_GID}"} },
			failed: []string{"tmpfs uses uid 501", "tmpfs uses gid 20", "tmpfs has no variable interpolation"},
		},
		{
			name:   "no tmpfs",
			mutate: func(s *Service) { s.Tmpfs = nil },
			failed: []string{"tmpfs uses uid 501", "tmpfs uses gid 20"},
		},
		{
			name:   "named config volume",
			mutate: func(s *Service) { s.Volumes = Volumes{"clawdbot-config:/home/node/.clawdbot"} },
			failed: []string{"config volume is a host directory"},
		},
		{
			name:   "home variable volume",
			mutate: func(s *Service) { s.Volumes = Volumes{"${HOME}/.clawdbot:/home/node/.clawdbot"} },
		},
		{
			name:   "user variable",
			mutate: func(s *Service) { s.User = "${USER_UID}:${USER_GID}" },
		},
		{
			name:   "root user",
			mutate: func(s *Service) { s.User = "0:0" },
			failed: []string{"container runs as macOS user"},
		},
		{
			name:   "port on all interfaces",
			mutate: func(s *Service) { s.Ports = Ports{"127.0.0.1:18789:18789", "18790:18790"} },
			failed: []string{"ports bound to localhost"},
		},
		{
			name: "writable and privileged",
			mutate: func(s *Service) {
				s.ReadOnly = false
				s.CapDrop = StringList{"NET_RAW"}
			},
			failed: []string{"filesystem is read-only", "all capabilities dropped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := secureService()
			tt.mutate(svc)
			assert.Equal(t, tt.failed, failedNames(CheckService(svc)))
		})
	}
}

func TestCheckEnv(t *testing.T) {
	t.Run("good", func(t *testing.T) {
		results := CheckEnv(filepath.Join("testdata", "good.env"))
		assert.Len(t, results, 4)
		assert.Empty(t, failedNames(results))
	})

	t.Run("bad", func(t *testing.T) {
		results := CheckEnv(filepath.Join("testdata", "bad.env"))
		assert.Equal(t, []string{"CLAWDBOT_GATEWAY_TOKEN is set", "USER_UID is 501", "USER_GID is 20"}, failedNames(results))
		assert.Equal(t, `USER_UID is "1000", want 501`, results[2].Message)
	})

	t.Run("missing", func(t *testing.T) {
		results := CheckEnv(filepath.Join(t.TempDir(), ".env"))
		require.Len(t, results, 4)
		assert.Len(t, failedNames(results), 4)
	})
}

func TestChecker_Run(t *testing.T) {
	results, err := NewChecker(config.GatewayConfig{
		ComposeFile: filepath.Join("testdata", "docker-compose.secure.yml"),
		EnvFile:     filepath.Join("testdata", "good.env"),
		Service:     config.DefaultGatewayService,
	}).Run()
	require.NoError(t, err)
	assert.Len(t, results, 16)
	assert.Zero(t, Failed(results))

	results, err = NewChecker(config.GatewayConfig{
		ComposeFile: filepath.Join("testdata", "docker-compose.insecure.yml"),
		EnvFile:     filepath.Join("testdata", "good.env"),
		Service:     config.DefaultGatewayService,
	}).Run()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"bind mode is lan",
		"tmpfs uses uid 501",
		"tmpfs uses gid 20",
		"tmpfs has no variable interpolation",
		"config volume is a host directory",
		"command includes --token",
		"gateway token is referenced",
		"container runs as macOS user",
		"ports bound to localhost",
		"filesystem is read-only",
		"all capabilities dropped",
	}, failedNames(results))

	results, err = NewChecker(config.GatewayConfig{
		ComposeFile: filepath.Join("testdata", "docker-compose.secure.yml"),
		EnvFile:     filepath.Join("testdata", "good.env"),
		Service:     "other",
	}).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, Failed(results))

	_, err = NewChecker(config.GatewayConfig{ComposeFile: "testdata/nope.yml"}).Run()
	assert.Error(t, err)
}
