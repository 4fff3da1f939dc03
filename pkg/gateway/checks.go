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
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const (
	// TokenVariable holds the gateway auth token
	TokenVariable = "CLAWDBOT_GATEWAY_TOKEN"
	// MacUID is the uid of the first macOS user
	MacUID = "501"
	// MacGID is the gid of the macOS staff group
	MacGID = "20"
	// RequiredBindMode binds to 0.0.0.0 so Docker can forward the port
	RequiredBindMode = "lan"
)

// ValidBindModes are the values accepted by the gateway --bind flag
var ValidBindModes = []string{"loopback", "lan", "tailnet", "auto", "custom"}

var (
	uidInterpolation = regexp.MustCompile(`\$\{.*uid`)
	gidInterpolation = regexp.MustCompile(`\$\{.*gid`)
	hostDirectory    = regexp.MustCompile(`^\$\{HOME\}|^/`)
	macUser          = regexp.MustCompile(`501|\$\{USER_UID`)
)

// Result is the outcome of a single check
type Result struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

func pass(name string) Result {
	return Result{Name: name, Passed: true}
}

func fail(name, format string, args ...interface{}) Result {
	return Result{Name: name, Message: fmt.Sprintf(format, args...)}
}

func check(name string, ok bool, format string, args ...interface{}) Result {
	if ok {
		return pass(name)
	}
	return fail(name, format, args...)
}

// CheckService runs every compose check against the gateway service
func CheckService(svc *Service) []Result {
	var results []Result
	results = append(results, checkBind(svc)...)
	results = append(results, checkTmpfs(svc)...)
	results = append(results,
		checkConfigVolume(svc),
		check("command includes --token", svc.Command.Index("--token") >= 0,
			"--token not found in command"),
		checkTokenReference(svc),
		check("container runs as macOS user", macUser.MatchString(string(svc.User)),
			"user %q does not use uid %s or ${USER_UID}", svc.User, MacUID),
		checkPorts(svc),
		check("filesystem is read-only", svc.ReadOnly, "read_only is not true"),
		check("all capabilities dropped", slices.Contains(svc.CapDrop, "ALL"),
			"cap_drop does not contain ALL"),
	)
	return results
}

func checkBind(svc *Service) []Result {
	const valid, lan = "bind mode is valid", "bind mode is lan"

	mode, ok := svc.Command.Value("--bind")
	if !ok {
		return []Result{
			fail(valid, "--bind not found in command"),
			fail(lan, "--bind not found in command"),
		}
	}
	return []Result{
		check(valid, slices.Contains(ValidBindModes, mode),
			"invalid bind mode %q (valid: %s)", mode, strings.Join(ValidBindModes, ", ")),
		check(lan, mode == RequiredBindMode,
			"bind mode is %q, Docker port forwarding needs %q", mode, RequiredBindMode),
	}
}

func checkTmpfs(svc *Service) []Result {
	const uid, gid, vars = "tmpfs uses uid 501", "tmpfs uses gid 20", "tmpfs has no variable interpolation"

	var tmp string
	for _, entry := range svc.Tmpfs {
		if strings.HasPrefix(entry, "/tmp:") {
			tmp = entry
			break
		}
	}

	results := make([]Result, 0, 3)
	if tmp == "" {
		results = append(results,
			fail(uid, "no /tmp: tmpfs entry"),
			fail(gid, "no /tmp: tmpfs entry"),
		)
	} else {
		results = append(results,
			check(uid, strings.Contains(tmp, "uid="+MacUID), "%q does not set uid=%s", tmp, MacUID),
			check(gid, strings.Contains(tmp, "gid="+MacGID), "%q does not set gid=%s", tmp, MacGID),
		)
	}

	// compose does not interpolate tmpfs options
	for _, entry := range svc.Tmpfs {
		if uidInterpolation.MatchString(entry) || gidInterpolation.MatchString(entry) {
			return append(results, fail(vars, "%q uses a variable for uid or gid", entry))
		}
	}
	return append(results, pass(vars))
}

func checkConfigVolume(svc *Service) Result {
	const name = "config volume is a host directory"

	for _, volume := range svc.Volumes {
		if !strings.Contains(volume, ".clawdbot") {
			continue
		}
		return check(name, hostDirectory.MatchString(volume),
			"%q is a named volume, use ${HOME}/.clawdbot or an absolute path", volume)
	}
	return fail(name, "no volume mounts .clawdbot")
}

func checkTokenReference(svc *Service) Result {
	const name = "gateway token is referenced"

	for _, entry := range append(slices.Clone([]string(svc.Environment)), svc.Command...) {
		if strings.Contains(entry, TokenVariable) {
			return pass(name)
		}
	}
	return fail(name, "%s not found in environment or command", TokenVariable)
}

func checkPorts(svc *Service) Result {
	const name = "ports bound to localhost"

	for _, port := range svc.Ports {
		if !strings.HasPrefix(port, "127.0.0.1:") {
			return fail(name, "port %q is not bound to 127.0.0.1", port)
		}
	}
	return pass(name)
}
