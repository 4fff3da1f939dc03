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

// Package types provides common types shared by the devinfra packages
package types

import (
	"encoding/json"
	"fmt"
)

const (
	// CheckStateSuccess is the rollup state of a passing check
	CheckStateSuccess = "SUCCESS"
	// CheckStateFailure is the rollup state of a failing check
	CheckStateFailure = "FAILURE"
	// CheckStatePending is the rollup state of a check that has not finished
	CheckStatePending = "PENDING"
)

// PullRequest represents a pull request as returned by the git hosting service
type PullRequest struct {
	// Number is the pull request number, unique per repository
	Number int `json:"number" yaml:"number"`
	// Title is the pull request title, e.g. "Bump foo from 1.2.3 to 2.0.0"
	Title string `json:"title" yaml:"title"`
	// URL is the pull request web URL
	URL string `json:"url" yaml:"url"`
	// Labels are the label names attached to the pull request
	Labels Labels `json:"labels,omitempty" yaml:"labels,omitempty"`
	// Mergeable is the mergeability reported by the hosting service (MERGEABLE, CONFLICTING, UNKNOWN)
	Mergeable string `json:"mergeable,omitempty" yaml:"mergeable,omitempty"`
	// StatusCheckRollup contains the CI check results attached to the head commit
	StatusCheckRollup []StatusCheck `json:"statusCheckRollup,omitempty" yaml:"statusCheckRollup,omitempty"`
}

// String returns a short representation of the pull request
func (p PullRequest) String() string {
	return fmt.Sprintf("#%d: %s", p.Number, p.Title)
}

// StatusCheck is a single entry of a status check rollup
type StatusCheck struct {
	// Name is the check run name or status context
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// State is the rollup state (SUCCESS, FAILURE, PENDING, ERROR, ...)
	State string `json:"state,omitempty" yaml:"state,omitempty"`
	// Status is the check run status (QUEUED, IN_PROGRESS, COMPLETED)
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	// Conclusion is the check run conclusion once completed
	Conclusion string `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
}

// Labels is a list of label names.
// It decodes both plain strings and the {"name": "..."} objects returned by gh.
type Labels []string

// UnmarshalJSON implements json.Unmarshaler
func (l *Labels) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("labels must be a list: %w", err)
	}

	labels := make(Labels, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			labels = append(labels, name)
			continue
		}

		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("invalid label %s: %w", string(item), err)
		}
		labels = append(labels, obj.Name)
	}

	*l = labels
	return nil
}
