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
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// CheckEnv validates the .env file read by docker compose
func CheckEnv(path string) []Result {
	const (
		exists = ".env file exists"
		token  = TokenVariable + " is set"
		uid    = "USER_UID is 501"
		gid    = "USER_GID is 20"
	)

	if _, err := os.Stat(path); err != nil {
		msg := err.Error()
		if errors.Is(err, fs.ErrNotExist) {
			msg = path + " not found"
		}
		return []Result{
			fail(exists, "%s", msg),
			fail(token, "no .env file"),
			fail(uid, "no .env file"),
			fail(gid, "no .env file"),
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return []Result{fail(exists, "failed to parse %s: %v", path, err)}
	}

	return []Result{
		pass(exists),
		check(token, strings.TrimSpace(v.GetString(TokenVariable)) != "",
			"%s is missing or empty", TokenVariable),
		checkValue(uid, v, "USER_UID", MacUID),
		checkValue(gid, v, "USER_GID", MacGID),
	}
}

func checkValue(name string, v *viper.Viper, key, want string) Result {
	got := strings.TrimSpace(v.GetString(key))
	return check(name, got == want, "%s is %q, want %s", key, got, want)
}
